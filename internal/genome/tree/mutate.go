package tree

import (
	"math/rand"

	"dagforge/internal/genome"
	"dagforge/internal/langspec"
)

// Mutate implements a point-mutation for the Tree variant: pick a random
// node position across every root, uniformly, and regrow it as a fresh
// subtree of the same type within the remaining depth budget. On internal
// failure (no compatible replacement can be grown) the original genome is
// returned unchanged, matching the transactional contract of §7.
func Mutate(g *Genome, lang *langspec.Language, terminals []*Node, rng *rand.Rand) *Genome {
	cp := cloneGenome(g)
	var candidates []*posRef
	for ri, root := range cp.roots {
		collectPositions(root, cp.opts.MaxExprDepth, &candidates, ri)
	}
	if len(candidates) == 0 {
		return cp
	}
	pick := candidates[rng.Intn(len(candidates))]
	replacement, err := growExpr(pick.node.Type, pick.budget, lang, terminals, cp.opts, rng)
	if err != nil {
		return g // no-op: NoTypedNode-equivalent failure, original genome unchanged
	}
	if pick.parent == nil {
		cp.roots[pick.rootIdx] = replacement
	} else {
		pick.parent.Children[pick.childIdx] = replacement
	}
	return cp
}

type posRef struct {
	node     *Node
	parent   *Node
	childIdx int
	rootIdx  int
	budget   int // remaining depth allowed for a regrown subtree here
}

func collectPositions(n *Node, budget int, out *[]*posRef, rootIdx int) {
	*out = append(*out, &posRef{node: n, rootIdx: rootIdx, budget: budget})
	collectChildren(n, budget, out, rootIdx)
}

func collectChildren(n *Node, budget int, out *[]*posRef, rootIdx int) {
	for i, c := range n.Children {
		*out = append(*out, &posRef{node: c, parent: n, childIdx: i, rootIdx: rootIdx, budget: budget - 1})
		collectChildren(c, budget-1, out, rootIdx)
	}
}

func cloneGenome(g *Genome) *Genome {
	cp := &Genome{
		inputs:  g.inputs,
		consts:  g.consts,
		outType: g.outType,
		lang:    g.lang,
		opts:    g.opts,
		meta:    &genome.Meta{},
	}
	for _, r := range g.roots {
		cp.roots = append(cp.roots, r.clone())
	}
	return cp
}
