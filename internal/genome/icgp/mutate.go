package icgp

import (
	"math/rand"
	"sort"

	"dagforge/internal/dagnode"
	"dagforge/internal/typesys"
)

// Mutate implements §4.5.3. It iterates non-fixed ids in decreasing order
// so that later mutations never see an id that a preceding mutation in
// this pass has already retired, then finishes with a recache. On any
// per-id internal failure (no compatible replacement, or a discard-and-
// regrow that cannot re-point an orphaned output) that id's mutation is
// skipped and the genome is left exactly as it was before that id was
// visited — the transactional guarantee of §7.
func Mutate(g *Genome, rng *rand.Rand) *Genome {
	cp := clone(g)
	rate := cp.opts.NodeMutRate

	ids := append([]int64(nil), cp.ids...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	for _, id := range ids {
		if cp.fixed[id] {
			continue
		}
		if _, exists := cp.nodes[id]; !exists {
			continue // retired by an earlier (higher-id) mutation this pass
		}
		if rng.Float64() >= rate {
			continue
		}
		mutateOne(cp, id, rng)
	}

	for j, want := range cp.outType {
		if rng.Float64() < rate {
			if id, ok := randomIDOfType(cp, cp.ids, want, rng); ok {
				cp.outRefs[j] = id
			}
		}
	}

	Compile(cp)
	return cp
}

func mutateOne(g *Genome, id int64, rng *rand.Rand) {
	old := g.nodes[id]
	down := downstreamOf(g, id)
	downSet := make(map[int64]bool, len(down)+1)
	downSet[id] = true
	for _, d := range down {
		downSet[d] = true
	}

	var candidate *dagnode.Node
	if old.Kind == dagnode.Function && len(old.In) > 0 && rng.Float64() < 0.5 {
		candidate = mutateLink(g, old, downSet, rng)
	} else {
		candidate = mutateFunction(g, old, downSet, rng)
	}
	if candidate == nil {
		return // skip: genome unchanged for this id
	}
	exchangeNode(g, id, down, candidate, rng)
}

// mutateFunction draws a brand new random node, then tries to keep as many
// of the old input ids as remain type-compatible via linksBasedOn, filling
// any gap by typed random selection over non-downstream nodes. Returns nil
// if a gap cannot be filled.
func mutateFunction(g *Genome, old *dagnode.Node, downSet map[int64]bool, rng *rand.Rand) *dagnode.Node {
	fresh, err := RandNode(g, downSet, rng)
	if err != nil {
		return nil
	}
	if fresh.Kind != dagnode.Function {
		return fresh
	}
	reused := linksBasedOn(g, old, fresh.ArgTypes)
	pool := eligiblePool(g, downSet)
	for k, id := range reused {
		if id != -1 {
			fresh.In[k] = id
			continue
		}
		cand, ok := randomIDOfType(g, pool, fresh.ArgTypes[k], rng)
		if !ok {
			return nil
		}
		fresh.In[k] = cand
	}
	return fresh
}

// linksBasedOn pairs the old node's input ids with the new arg-type vector
// by matching each new slot to the first not-yet-used old input whose
// source node type is compatible, returning -1 for an unfillable slot.
func linksBasedOn(g *Genome, old *dagnode.Node, newArgTypes []typesys.Type) []int64 {
	used := make([]bool, len(old.In))
	result := make([]int64, len(newArgTypes))
	for k, want := range newArgTypes {
		result[k] = -1
		for i, oldID := range old.In {
			if used[i] {
				continue
			}
			if g.nodes[oldID].Type.IsSubtypeOf(want) {
				result[k] = oldID
				used[i] = true
				break
			}
		}
	}
	return result
}

// mutateLink draws a fresh typed link for one randomly chosen input
// position, leaving the node's function untouched.
func mutateLink(g *Genome, old *dagnode.Node, downSet map[int64]bool, rng *rand.Rand) *dagnode.Node {
	j := rng.Intn(len(old.In))
	pool := eligiblePool(g, downSet)
	id, ok := randomIDOfType(g, pool, old.ArgTypes[j], rng)
	if !ok {
		return nil
	}
	nn := *old
	nn.In = append([]int64(nil), old.In...)
	nn.In[j] = id
	return &nn
}

// exchangeNode implements §4.5.3's three-tier fallback: bump-in-place when
// the candidate's type still satisfies downstream consumers, re-parent to
// an existing compatible node when it does not, and discard-and-regrow as
// a last resort.
func exchangeNode(g *Genome, oldID int64, down []int64, candidate *dagnode.Node, rng *rand.Rand) {
	old := g.nodes[oldID]

	if candidate.Type.IsSubtypeOf(old.Type) {
		newID := g.idgen.Next()
		g.nodes[newID] = candidate
		g.ids = append(g.ids, newID)
		redirect(g, down, oldID, newID)
		delete(g.nodes, oldID)
		removeIDFromSlice(g, oldID)
		bump(g, down)
		return
	}

	downSet := make(map[int64]bool, len(down)+1)
	downSet[oldID] = true
	for _, d := range down {
		downSet[d] = true
	}
	var reparentCandidates []int64
	for _, id := range g.ids {
		if id >= oldID || downSet[id] {
			continue
		}
		if g.nodes[id].Type.IsSubtypeOf(old.Type) {
			reparentCandidates = append(reparentCandidates, id)
		}
	}
	if len(reparentCandidates) > 0 {
		replacement := reparentCandidates[rng.Intn(len(reparentCandidates))]
		redirect(g, down, oldID, replacement)
		delete(g.nodes, oldID)
		removeIDFromSlice(g, oldID)
		bump(g, down)
		return
	}

	discardAndRegrow(g, oldID, down, rng)
}

// redirect rewrites every reference to oldID (within down's function nodes
// and in the output-ref vector) to point at newID instead.
func redirect(g *Genome, down []int64, oldID, newID int64) {
	for _, id := range down {
		n, ok := g.nodes[id]
		if !ok || n.Kind != dagnode.Function {
			continue
		}
		for k, in := range n.In {
			if in == oldID {
				n.In[k] = newID
			}
		}
	}
	for j, ref := range g.outRefs {
		if ref == oldID {
			g.outRefs[j] = newID
		}
	}
}

// bump re-issues every id in down (processed ascending, so a dependency
// within down is always renumbered before its dependents) with a fresh id,
// preserving the "strictly increasing along link direction" invariant that
// a merely-reference-rewritten downstream node could otherwise violate.
func bump(g *Genome, down []int64) {
	mapping := make(map[int64]int64, len(down))
	for _, id := range down {
		node, ok := g.nodes[id]
		if !ok {
			continue
		}
		for k, in := range node.In {
			if nid, remapped := mapping[in]; remapped {
				node.In[k] = nid
			}
		}
		newID := g.idgen.Next()
		delete(g.nodes, id)
		removeIDFromSlice(g, id)
		g.nodes[newID] = node
		g.ids = append(g.ids, newID)
		mapping[id] = newID
	}
	for j, ref := range g.outRefs {
		if nid, ok := mapping[ref]; ok {
			g.outRefs[j] = nid
		}
	}
}

// discardAndRegrow removes oldID and everything downstream of it, appends
// that many freshly grown random nodes, and re-points any orphaned output
// ref by typed random selection. It operates on a scratch clone and only
// commits back into g if every orphaned output could be re-pointed,
// preserving §7's transactional guarantee.
func discardAndRegrow(g *Genome, oldID int64, down []int64, rng *rand.Rand) {
	trial := clone(g)
	if !discardAndRegrowInPlace(trial, oldID, down, rng) {
		return
	}
	g.nodes = trial.nodes
	g.ids = trial.ids
	g.outRefs = trial.outRefs
}

func discardAndRegrowInPlace(g *Genome, oldID int64, down []int64, rng *rand.Rand) bool {
	removed := append([]int64{oldID}, down...)
	removedSet := make(map[int64]bool, len(removed))
	for _, id := range removed {
		removedSet[id] = true
		delete(g.nodes, id)
	}
	kept := g.ids[:0]
	for _, id := range g.ids {
		if !removedSet[id] {
			kept = append(kept, id)
		}
	}
	g.ids = kept

	for i := 0; i < len(removed); i++ {
		n, err := RandNode(g, nil, rng)
		if err != nil {
			return false
		}
		id := g.idgen.Next()
		g.nodes[id] = n
		g.ids = append(g.ids, id)
	}

	for j, ref := range g.outRefs {
		if !removedSet[ref] {
			continue
		}
		id, ok := randomIDOfType(g, g.ids, g.outType[j], rng)
		if !ok {
			return false
		}
		g.outRefs[j] = id
	}
	return true
}

func removeIDFromSlice(g *Genome, id int64) {
	for i, v := range g.ids {
		if v == id {
			g.ids = append(g.ids[:i], g.ids[i+1:]...)
			return
		}
	}
}
