package icgp

import "math/rand"

// VaryNeutral implements §4.5.5: keep genome size near TargetSize between
// mutations by discarding a random inactive non-fixed node (and its
// dependents, which are inactive too) when over budget, or adding a random
// node when under.
func VaryNeutral(g *Genome, targetSize int, rng *rand.Rand) *Genome {
	cp := clone(g)
	if len(cp.ids) > targetSize {
		active := cp.ActiveSet()
		var inactive []int64
		for _, id := range cp.ids {
			if cp.fixed[id] {
				continue
			}
			if _, ok := active[id]; !ok {
				inactive = append(inactive, id)
			}
		}
		if len(inactive) > 0 {
			victim := inactive[rng.Intn(len(inactive))]
			removeSubtree(cp, victim)
		}
	} else if len(cp.ids) < targetSize {
		if n, err := RandNode(cp, nil, rng); err == nil {
			id := cp.idgen.Next()
			cp.nodes[id] = n
			cp.ids = append(cp.ids, id)
		}
	}
	Compile(cp)
	return cp
}

// removeSubtree deletes id and everything transitively depending on it. An
// inactive node's dependents are themselves necessarily inactive (nothing
// active can depend on an inactive node without becoming active), so this
// cannot orphan an output ref.
func removeSubtree(g *Genome, id int64) {
	down := downstreamOf(g, id)
	removed := append([]int64{id}, down...)
	removedSet := make(map[int64]bool, len(removed))
	for _, r := range removed {
		removedSet[r] = true
		delete(g.nodes, r)
	}
	kept := g.ids[:0]
	for _, existing := range g.ids {
		if !removedSet[existing] {
			kept = append(kept, existing)
		}
	}
	g.ids = kept
}
