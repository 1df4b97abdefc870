package cgp

import (
	"math/rand"

	"dagforge/internal/dagnode"
)

// Mutate implements §4.5.2. Each per-index/per-link/per-output decision is
// independently gated by gene-mut-rate; a mutation that cannot find a
// type-compatible replacement is simply skipped rather than aborting the
// whole operator, since it has no partial state to roll back (§7's
// transactional guarantee is trivially met here).
func Mutate(g *Genome, rng *rand.Rand) *Genome {
	cp := clone(g)
	rate := cp.opts.GeneMutRate

	for i := cp.fixedLen; i < len(cp.nodes); i++ {
		idx := int64(i)
		old := cp.nodes[i]
		if rng.Float64() < rate {
			newNode, err := RandNode(cp, idx, rng)
			if err == nil {
				preserveLinkPrefix(newNode, old)
				cp.nodes[i] = newNode
			}
			continue
		}
		mutateLinksInPlace(cp, idx, old, rate, rng)
	}

	for j := range cp.outRefs {
		if rng.Float64() < rate {
			if newRef, ok := randomNodeOfType(cp, int64(len(cp.nodes)), cp.outType[j], rng); ok {
				cp.outRefs[j] = newRef
			}
		}
	}

	Compile(cp) // recache
	return cp
}

// preserveLinkPrefix implements the input-link-continuity rule of §4.5.2:
// the old node's link vector always survives as a prefix, whether the new
// node's arity is smaller (prefix truncated) or larger (new node's own
// freshly drawn extra tail links stay in place beyond the prefix).
func preserveLinkPrefix(newNode, old *dagnode.Node) {
	if old.Kind != dagnode.Function {
		return
	}
	n := min(len(newNode.In), len(old.In))
	copy(newNode.In[:n], old.In[:n])
}

// mutateLinksInPlace independently rerolls each input link of a function
// node (with probability rate) to a fresh, type-compatible back-link.
func mutateLinksInPlace(g *Genome, idx int64, old *dagnode.Node, rate float64, rng *rand.Rand) {
	if old.Kind != dagnode.Function {
		return
	}
	for k, want := range old.ArgTypes {
		if rng.Float64() >= rate {
			continue
		}
		var candidates []int64
		for i := int64(0); i < idx; i++ {
			if g.nodes[i].Type.IsSubtypeOf(want) {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		src := candidates[rng.Intn(len(candidates))]
		old.In[k] = idx - src
	}
}
