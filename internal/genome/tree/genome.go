package tree

import (
	"errors"
	"fmt"
	"math/rand"

	"dagforge/internal/dagnode"
	"dagforge/internal/genome"
	"dagforge/internal/langspec"
	"dagforge/internal/typesys"
)

// ErrNoCompatibleOutput mirrors §7's NoCompatibleOutput: no node of a
// demanded output type could be grown.
var ErrNoCompatibleOutput = errors.New("tree: no compatible output")

// Genome is one root expression per declared output, sharing one input/
// constant vocabulary and one Options/Meta pair.
type Genome struct {
	inputs  []genome.Input
	consts  []*Node
	roots   []*Node
	outType []typesys.Type
	lang    *langspec.Language
	opts    genome.Options
	meta    *genome.Meta
}

func (g *Genome) Inputs() []genome.Input     { return g.inputs }
func (g *Genome) OutTypes() []typesys.Type   { return g.outType }
func (g *Genome) Lang() *langspec.Language   { return g.lang }
func (g *Genome) Options() genome.Options    { return g.opts }
func (g *Genome) Meta() *genome.Meta         { return g.meta }
func (g *Genome) Roots() []*Node             { return g.roots }

// RandGenome implements §4.2's rand-genome for the Tree variant: one
// randomly grown expression per output type, using genome.Options'
// TerminalProb/MaxExprDepth to control shape. No ERC nodes are drawn.
func RandGenome(inputs []genome.Input, constants []*Node, outTypes []typesys.Type, lang *langspec.Language, opts genome.Options, rng *rand.Rand) (*Genome, error) {
	g := &Genome{
		inputs:  inputs,
		consts:  constants,
		outType: outTypes,
		lang:    lang,
		opts:    opts,
		meta:    &genome.Meta{},
	}
	terminals := buildTerminals(inputs, constants)
	for _, t := range outTypes {
		root, err := growExpr(t, opts.MaxExprDepth, lang, terminals, opts, rng)
		if err != nil {
			return nil, fmt.Errorf("%w: output type %s: %v", ErrNoCompatibleOutput, t.Name(), err)
		}
		g.roots = append(g.roots, root)
	}
	return g, nil
}

func buildTerminals(inputs []genome.Input, constants []*Node) []*Node {
	var terminals []*Node
	for _, in := range inputs {
		terminals = append(terminals, &Node{Kind: dagnode.Input, Name: in.Name, Type: in.Type})
	}
	terminals = append(terminals, constants...)
	return terminals
}

// growExpr recursively grows an expression of type want, bounded by
// maxDepth. At depth 1 or with probability TerminalProb it picks a
// terminal (a copy of one of terminals); otherwise it picks a random function
// entry returning a compatible type and recurses for each argument.
func growExpr(want typesys.Type, maxDepth int, lang *langspec.Language, terminals []*Node, opts genome.Options, rng *rand.Rand) (*Node, error) {
	compatTerminals := filterByType(terminals, want)
	wantTerminal := maxDepth <= 1 || rng.Float64() < opts.TerminalProb
	if wantTerminal && len(compatTerminals) > 0 {
		return compatTerminals[rng.Intn(len(compatTerminals))].clone(), nil
	}
	if maxDepth <= 1 {
		return nil, fmt.Errorf("no terminal of type %s", want.Name())
	}
	entry, ok := lang.RandomEntryReturning(rng, want)
	if !ok {
		if len(compatTerminals) > 0 {
			return compatTerminals[rng.Intn(len(compatTerminals))].clone(), nil
		}
		return nil, fmt.Errorf("no function or terminal of type %s", want.Name())
	}
	if entry.Const != nil {
		return &Node{Kind: dagnode.Constant, Type: entry.Const.Type, Value: entry.Const.Value}, nil
	}
	n := &Node{Kind: dagnode.Function, Name: entry.Func.Name, Type: entry.Func.Return, ArgTypes: entry.Func.Args}
	for _, argType := range entry.Func.Args {
		child, err := growExpr(argType, maxDepth-1, lang, terminals, opts, rng)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func filterByType(nodes []*Node, want typesys.Type) []*Node {
	var out []*Node
	for _, n := range nodes {
		if n.Type.IsSubtypeOf(want) {
			out = append(out, n)
		}
	}
	return out
}
