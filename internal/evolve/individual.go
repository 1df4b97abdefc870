// Package evolve implements the discrete-generation population driver of
// §4.6: evolve-discrete, simple-evolve, the built-in regeneration policies,
// and the default distillation/progress machinery.
package evolve

import (
	"math"

	"dagforge/internal/genome"
	"dagforge/internal/idgen"
)

// Individual pairs a genome with its fitness tag and lineage breadcrumbs.
// Per §9's "Metadata storage" design note, fitness is kept out of the
// genome value itself (a *float64, nil meaning "not yet evaluated").
type Individual struct {
	Genome    genome.Genome
	Fitness   *float64
	ID        string
	ParentID  string
	Operation string
	SubPopID  string // set by coevolve; empty for single-population runs
}

// WithFitness returns a copy of ind carrying fitness f.
func (ind Individual) WithFitness(f float64) Individual {
	ind.Fitness = &f
	return ind
}

// FitnessOrZero returns the individual's fitness, or 0 if unevaluated or
// NaN, matching §6's "NaN is forbidden ... substitute 0" rule.
func (ind Individual) FitnessOrZero() float64 {
	if ind.Fitness == nil || math.IsNaN(*ind.Fitness) {
		return 0
	}
	return *ind.Fitness
}

// Population is an ordered collection of individuals.
type Population []Individual

// StampIDs assigns a fresh id (via idgen.NewRunID) to any individual that
// doesn't already carry one — a caller-supplied seed population, typically
// — so every individual entering a run, not just the children later
// produced by a regeneration policy, has a stable ID lineage entries can
// reference as a ParentID.
func StampIDs(pop Population) Population {
	out := make(Population, len(pop))
	for i, ind := range pop {
		if ind.ID == "" {
			ind.ID = idgen.NewRunID()
		}
		out[i] = ind
	}
	return out
}

// Fitnesses returns each individual's FitnessOrZero, in order.
func (p Population) Fitnesses() []float64 {
	out := make([]float64, len(p))
	for i, ind := range p {
		out[i] = ind.FitnessOrZero()
	}
	return out
}

// LineageEntry is the supplemented lineage record of SPEC_FULL.md §8.
type LineageEntry struct {
	IndividualID string
	ParentID     string
	Generation   int
	Operation    string
	Fingerprint  string
}

// Distillation is one history entry (§3's "growable vector of per-
// generation distilled summaries").
type Distillation struct {
	Generation int
	Min        float64
	Median     float64
	Max        float64
	Best       Individual
	Lineage    []LineageEntry
}

// History is the growable vector threaded into fitness evaluation and
// parasite selection.
type History []Distillation

// ChampionSeries extracts the per-generation best-fitness values, the
// input to the time-series-peak detector used by coevolution's
// history-peaks parasite selection.
func (h History) ChampionSeries() []float64 {
	out := make([]float64, len(h))
	for i, d := range h {
		out[i] = d.Max
	}
	return out
}
