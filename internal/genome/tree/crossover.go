package tree

import "math/rand"

// Crossover implements §4.5.4's Tree variant: swap a randomly chosen
// subtree between two genomes at type-compatible positions, then trim both
// offspring to MaxExprDepth. a and b are left unmodified; two new genomes
// are returned.
func Crossover(a, b *Genome, rng *rand.Rand) (*Genome, *Genome) {
	childA := cloneGenome(a)
	childB := cloneGenome(b)

	rootIdx := rng.Intn(min(len(childA.roots), len(childB.roots)))
	var posA, posB []*posRef
	collectPositions(childA.roots[rootIdx], childA.opts.MaxExprDepth, &posA, rootIdx)
	collectPositions(childB.roots[rootIdx], childB.opts.MaxExprDepth, &posB, rootIdx)

	compatible := pairByType(posA, posB)
	if len(compatible) == 0 {
		return childA, childB
	}
	pair := compatible[rng.Intn(len(compatible))]
	pa, pb := pair[0], pair[1]

	subA, subB := pa.node, pb.node
	setAt(childA, rootIdx, pa, subB)
	setAt(childB, rootIdx, pb, subA)

	childA.roots[rootIdx] = trim(childA.roots[rootIdx], childA.opts.MaxExprDepth, childA.lang, buildTerminals(childA.inputs, childA.consts), rng)
	childB.roots[rootIdx] = trim(childB.roots[rootIdx], childB.opts.MaxExprDepth, childB.lang, buildTerminals(childB.inputs, childB.consts), rng)
	return childA, childB
}

func setAt(g *Genome, rootIdx int, pos *posRef, replacement *Node) {
	if pos.parent == nil {
		g.roots[rootIdx] = replacement
		return
	}
	pos.parent.Children[pos.childIdx] = replacement
}

func pairByType(as, bs []*posRef) [][2]*posRef {
	var out [][2]*posRef
	for _, a := range as {
		for _, b := range bs {
			if a.node.Type.IsSubtypeOf(b.node.Type) && b.node.Type.IsSubtypeOf(a.node.Type) {
				out = append(out, [2]*posRef{a, b})
			}
		}
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
