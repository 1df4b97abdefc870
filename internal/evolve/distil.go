package evolve

import "dagforge/internal/kernel"

// DistilFn summarises an evaluated generation into a history entry.
type DistilFn func(evaluated Population, gen int) Distillation

// DefaultDistil implements §4.6's default distil: min/median/max fitness
// and the best (champion) individual.
func DefaultDistil(evaluated Population, gen int) Distillation {
	if len(evaluated) == 0 {
		return Distillation{Generation: gen}
	}
	fits := evaluated.Fitnesses()
	min, max := fits[0], fits[0]
	best := evaluated[0]
	for i, f := range fits {
		if f < min {
			min = f
		}
		if f > max {
			max = f
			best = evaluated[i]
		}
	}
	lineage := make([]LineageEntry, len(evaluated))
	for i, ind := range evaluated {
		lineage[i] = LineageEntry{
			IndividualID: ind.ID,
			ParentID:     ind.ParentID,
			Generation:   gen,
			Operation:    ind.Operation,
			Fingerprint:  ind.Genome.Meta().Fingerprint,
		}
	}
	return Distillation{
		Generation: gen,
		Min:        min,
		Median:     kernel.Median(fits),
		Max:        max,
		Best:       best,
		Lineage:    lineage,
	}
}
