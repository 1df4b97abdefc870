package tree

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"dagforge/internal/compile"
	"dagforge/internal/dagnode"
)

// Callable is the compiled form of a Tree genome: one call evaluates every
// root against the supplied input values, in declared input/output order.
type Callable func(inputs []dagnode.Value) ([]dagnode.Value, error)

// Compile implements §4.4 for the Tree variant. Because a Tree genome has
// no dead code, compilation is a direct recursive evaluator rather than a
// separate active-set-then-straight-line pass; the cache/fingerprint
// contract is identical to the other variants.
func Compile(g *Genome) Callable {
	fp := Fingerprint(g)
	compiled := g.meta.Recache(fp, g.opts.ForceRecache, func() interface{} {
		return buildCallable(g)
	})
	return compiled.(Callable)
}

func buildCallable(g *Genome) Callable {
	roots := g.roots
	inputs := g.inputs
	return func(args []dagnode.Value) ([]dagnode.Value, error) {
		if len(args) != len(inputs) {
			return nil, fmt.Errorf("%w: expected %d inputs, got %d", compile.ErrCompile, len(inputs), len(args))
		}
		env := make(map[string]dagnode.Value, len(inputs))
		for i, in := range inputs {
			env[in.Name] = args[i]
		}
		out := make([]dagnode.Value, len(roots))
		for i, root := range roots {
			v, err := eval(root, env)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
}

func eval(n *Node, env map[string]dagnode.Value) (dagnode.Value, error) {
	switch n.Kind {
	case dagnode.Input:
		v, ok := env[n.Name]
		if !ok {
			return dagnode.Value{}, fmt.Errorf("%w: unbound input %q", compile.ErrCompile, n.Name)
		}
		return v, nil
	case dagnode.Constant, dagnode.ERC:
		return n.Value, nil
	case dagnode.Function:
		spec, err := compile.Lookup(n.Name)
		if err != nil {
			return dagnode.Value{}, err
		}
		if spec.Arity != len(n.Children) {
			return dagnode.Value{}, fmt.Errorf("%w: %q expects %d args, node has %d", compile.ErrCompile, n.Name, spec.Arity, len(n.Children))
		}
		args := make([]dagnode.Value, len(n.Children))
		for i, c := range n.Children {
			v, err := eval(c, env)
			if err != nil {
				return dagnode.Value{}, err
			}
			args[i] = v
		}
		return spec.Fn(args), nil
	default:
		return dagnode.Value{}, fmt.Errorf("%w: unknown node kind %d", compile.ErrCompile, n.Kind)
	}
}

// Fingerprint is a structural hash of the whole genome (all roots), used to
// decide whether Compile must recompile (§4.4's caching contract).
func Fingerprint(g *Genome) string {
	var b strings.Builder
	for _, r := range g.roots {
		writeNode(&b, r)
		b.WriteByte(';')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeNode(b *strings.Builder, n *Node) {
	switch n.Kind {
	case dagnode.Input:
		b.WriteString("I:")
		b.WriteString(n.Name)
	case dagnode.Constant:
		b.WriteString("C:")
		writeValue(b, n.Value)
	case dagnode.ERC:
		b.WriteString("E:")
		writeValue(b, n.Value)
	case dagnode.Function:
		b.WriteString("F:")
		b.WriteString(n.Name)
		b.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNode(b, c)
		}
		b.WriteByte(')')
	}
}

func writeValue(b *strings.Builder, v dagnode.Value) {
	switch v.Kind {
	case dagnode.KindInt:
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case dagnode.KindFloat:
		b.WriteString(strconv.FormatFloat(v.Float, 'g', -1, 64))
	case dagnode.KindBool:
		b.WriteString(strconv.FormatBool(v.Bool))
	case dagnode.KindTag:
		b.WriteString(v.Tag)
	default:
		b.WriteString("nil")
	}
}
