package icgp

// Tick implements §4.5.6: advance the genome's timestep and stamp every
// currently active node's LastUse. If AtrophySteps is configured (> 0),
// nodes unused for more than that many ticks are nullified — removed from
// the node store — provided they are not fixed (constants/inputs are
// pinned against atrophy per §3's invariant) and not in the active set
// (an active node is by definition in current use).
func Tick(g *Genome) *Genome {
	cp := clone(g)
	cp.tstep++
	active := cp.ActiveSet()
	for id := range active {
		cp.nodes[id].LastUse = cp.tstep
	}

	if cp.opts.AtrophySteps <= 0 {
		return cp
	}
	var expired []int64
	for _, id := range cp.ids {
		if cp.fixed[id] {
			continue
		}
		if _, isActive := active[id]; isActive {
			continue
		}
		if cp.tstep-cp.nodes[id].LastUse > cp.opts.AtrophySteps {
			expired = append(expired, id)
		}
	}
	if len(expired) == 0 {
		return cp
	}
	removedSet := make(map[int64]bool, len(expired))
	for _, id := range expired {
		removedSet[id] = true
		delete(cp.nodes, id)
	}
	kept := cp.ids[:0]
	for _, id := range cp.ids {
		if !removedSet[id] {
			kept = append(kept, id)
		}
	}
	cp.ids = kept
	return cp
}
