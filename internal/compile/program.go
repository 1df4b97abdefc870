package compile

import (
	"fmt"

	"dagforge/internal/dagnode"
)

// Step is one entry of a straight-line program (§4.4 step 2): either a
// literal value or a primitive invocation over already-computed refs. Ref
// is the node's own reference (a CGP index or an ICGP id, both carried as
// int64 by the callers in internal/genome/cgp and internal/genome/icgp).
type Step struct {
	Ref      int64
	IsInput  bool
	Literal  dagnode.Value // Constant / ERC nodes, and unused when IsInput
	Prim     string        // Function nodes: registered primitive name
	ArgRefs  []int64
}

// Program is a compiled genome: an input-ref list (in the genome's declared
// input order), a topologically-ordered step sequence, and the output refs.
type Program struct {
	InputRefs []int64
	Steps     []Step
	OutRefs   []int64
}

// Run evaluates the program given one value per declared input, in order,
// returning one value per declared output, in order.
func (p *Program) Run(inputValues []dagnode.Value) ([]dagnode.Value, error) {
	if len(inputValues) != len(p.InputRefs) {
		return nil, fmt.Errorf("%w: expected %d inputs, got %d", ErrCompile, len(p.InputRefs), len(inputValues))
	}
	env := make(map[int64]dagnode.Value, len(p.Steps)+len(p.InputRefs))
	for i, ref := range p.InputRefs {
		env[ref] = inputValues[i]
	}
	for _, step := range p.Steps {
		if step.IsInput {
			continue
		}
		if step.Prim == "" {
			env[step.Ref] = step.Literal
			continue
		}
		spec, err := Lookup(step.Prim)
		if err != nil {
			return nil, err
		}
		if len(step.ArgRefs) != spec.Arity {
			return nil, fmt.Errorf("%w: %q expects %d args, node supplies %d", ErrCompile, step.Prim, spec.Arity, len(step.ArgRefs))
		}
		args := make([]dagnode.Value, len(step.ArgRefs))
		for i, ar := range step.ArgRefs {
			v, ok := env[ar]
			if !ok {
				return nil, fmt.Errorf("%w: unresolved reference %d", ErrCompile, ar)
			}
			args[i] = v
		}
		env[step.Ref] = spec.Fn(args)
	}
	out := make([]dagnode.Value, len(p.OutRefs))
	for i, ref := range p.OutRefs {
		v, ok := env[ref]
		if !ok {
			return nil, fmt.Errorf("%w: unresolved output reference %d", ErrCompile, ref)
		}
		out[i] = v
	}
	return out, nil
}
