package icgp

import (
	"fmt"
	"math/rand"

	"dagforge/internal/dagnode"
	"dagforge/internal/typesys"
)

// RandNode implements §4.5.1 for ICGP. exclude, if non-nil, marks ids that
// must not be used as a link target (used by mutation to keep a
// replacement from referencing itself or anything downstream of itself).
func RandNode(g *Genome, exclude map[int64]bool, rng *rand.Rand) (*dagnode.Node, error) {
	opts := g.opts
	if rng.Float64() < opts.ERCProb {
		gen := opts.ERCGen
		if gen == nil {
			gen = defaultERCGen
		}
		v, t := gen(rng)
		return &dagnode.Node{Kind: dagnode.ERC, Value: v, Type: t}, nil
	}

	pool := eligiblePool(g, exclude)
	tries := opts.MaxRandNodeTries
	if tries <= 0 {
		tries = 32
	}
	for attempt := 0; attempt < tries; attempt++ {
		entry := g.lang.RandomEntry(rng)
		if entry.Const != nil {
			return &dagnode.Node{Kind: dagnode.Constant, Type: entry.Const.Type, Value: entry.Const.Value}, nil
		}
		links, ok := fillLinks(g, pool, entry.Func.Args, rng)
		if !ok {
			continue
		}
		return &dagnode.Node{
			Kind:     dagnode.Function,
			Name:     entry.Func.Name,
			Type:     entry.Func.Return,
			ArgTypes: append([]typesys.Type(nil), entry.Func.Args...),
			In:       links,
		}, nil
	}
	return nil, fmt.Errorf("no type-compatible node found after %d tries", tries)
}

func eligiblePool(g *Genome, exclude map[int64]bool) []int64 {
	if len(exclude) == 0 {
		return g.ids
	}
	pool := make([]int64, 0, len(g.ids))
	for _, id := range g.ids {
		if !exclude[id] {
			pool = append(pool, id)
		}
	}
	return pool
}

func fillLinks(g *Genome, pool []int64, argTypes []typesys.Type, rng *rand.Rand) ([]int64, bool) {
	if len(argTypes) > 0 && len(pool) == 0 {
		return nil, false
	}
	links := make([]int64, len(argTypes))
	for k, want := range argTypes {
		id, ok := randomIDOfType(g, pool, want, rng)
		if !ok {
			return nil, false
		}
		links[k] = id
	}
	return links, true
}

func defaultERCGen(rng *rand.Rand) (dagnode.Value, typesys.Type) {
	return dagnode.Float(rng.Float64() * 10), typesys.Float
}
