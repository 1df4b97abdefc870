package cgp

import (
	"fmt"
	"math/rand"

	"dagforge/internal/dagnode"
	"dagforge/internal/typesys"
)

// RandNode implements §4.5.1 for CGP: at position idx, with probability
// ERCProb draw an ephemeral constant, else pick a random language entry and
// fill each argument with a uniformly random earlier index whose type is
// compatible, retrying up to MaxRandNodeTries times before failing.
func RandNode(g *Genome, idx int64, rng *rand.Rand) (*dagnode.Node, error) {
	opts := g.opts
	if rng.Float64() < opts.ERCProb {
		gen := opts.ERCGen
		if gen == nil {
			gen = defaultERCGen
		}
		v, t := gen(rng)
		return &dagnode.Node{Kind: dagnode.ERC, Value: v, Type: t}, nil
	}

	tries := opts.MaxRandNodeTries
	if tries <= 0 {
		tries = 32
	}
	for attempt := 0; attempt < tries; attempt++ {
		entry := g.lang.RandomEntry(rng)
		if entry.Const != nil {
			return &dagnode.Node{Kind: dagnode.Constant, Type: entry.Const.Type, Value: entry.Const.Value}, nil
		}
		offsets, ok := fillLinks(g, idx, entry.Func.Args, rng)
		if !ok {
			continue
		}
		return &dagnode.Node{
			Kind:     dagnode.Function,
			Name:     entry.Func.Name,
			Type:     entry.Func.Return,
			ArgTypes: append([]typesys.Type(nil), entry.Func.Args...),
			In:       offsets,
		}, nil
	}
	return nil, fmt.Errorf("no type-compatible node found for position %d after %d tries", idx, tries)
}

// fillLinks picks, for each arg type, a uniformly random index in [0, idx)
// whose node type is compatible, returning offsets (idx - sourceIndex).
// Arity >= 1 requires idx > 0 by construction (constants/inputs occupy the
// earliest indices).
func fillLinks(g *Genome, idx int64, argTypes []typesys.Type, rng *rand.Rand) ([]int64, bool) {
	if len(argTypes) > 0 && idx == 0 {
		return nil, false
	}
	offsets := make([]int64, len(argTypes))
	for k, want := range argTypes {
		var candidates []int64
		for i := int64(0); i < idx; i++ {
			if g.nodes[i].Type.IsSubtypeOf(want) {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			return nil, false
		}
		src := candidates[rng.Intn(len(candidates))]
		offsets[k] = idx - src
	}
	return offsets, true
}

func defaultERCGen(rng *rand.Rand) (dagnode.Value, typesys.Type) {
	return dagnode.Float(rng.Float64() * 10), typesys.Float
}
