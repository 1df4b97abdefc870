package coevolve

import (
	"context"
	"math/rand"
	"testing"

	"dagforge/internal/evolve"
	"dagforge/internal/genome"
	"dagforge/internal/langspec"
	"dagforge/internal/typesys"

	"github.com/stretchr/testify/require"
)

type fakeGenome struct {
	gene float64
	meta *genome.Meta
}

func newFake(gene float64) *fakeGenome { return &fakeGenome{gene: gene, meta: &genome.Meta{}} }

func (f *fakeGenome) Inputs() []genome.Input   { return nil }
func (f *fakeGenome) OutTypes() []typesys.Type { return []typesys.Type{typesys.Float} }
func (f *fakeGenome) Lang() *langspec.Language { return nil }
func (f *fakeGenome) Options() genome.Options  { return genome.DefaultOptions() }
func (f *fakeGenome) Meta() *genome.Meta       { return f.meta }

func fakeMutate(g genome.Genome, rng *rand.Rand) genome.Genome {
	f := g.(*fakeGenome)
	return newFake(f.gene + rng.NormFloat64())
}

// duel scores a host higher when its gene exceeds the parasite's, and vice
// versa, so both sub-populations have something to climb toward.
func duel(host, parasite genome.Genome) (float64, float64, error) {
	h := host.(*fakeGenome).gene
	p := parasite.(*fakeGenome).gene
	return h - p, p - h, nil
}

func newFakePopn(n int, seed float64) evolve.Population {
	pop := make(evolve.Population, n)
	for i := range pop {
		pop[i] = evolve.Individual{Genome: newFake(seed)}
	}
	return pop
}

func TestCoevolveTerminatesOnGenerationBudget(t *testing.T) {
	hosts := newFakePopn(5, 0)
	parasites := newFakePopn(5, 0)
	opts := Options{
		NGens:              10,
		Target:             1e9,
		HostRegenerate:     evolve.NegativeSelection(3, 1, fakeMutate, nil),
		ParasiteRegenerate: evolve.NegativeSelection(3, 1, fakeMutate, nil),
		SelectParasites:    TopN(2),
	}
	rng := rand.New(rand.NewSource(1))

	result, err := Coevolve(context.Background(), hosts, parasites, duel, opts, rng)
	require.NoError(t, err)
	require.Equal(t, 10, result.NGens)
	require.Len(t, result.HostHistory, 11)
	require.Len(t, result.ParasiteHistory, 11)
	for _, ind := range result.Hosts {
		require.Equal(t, "host", ind.SubPopID)
	}
	for _, ind := range result.Parasites {
		require.Equal(t, "parasite", ind.SubPopID)
	}
}

func TestHistoryPeaksFallsBackToTopNWhenNoPeaks(t *testing.T) {
	current := evolve.Population{
		evolve.Individual{Genome: newFake(1)}.WithFitness(1),
		evolve.Individual{Genome: newFake(2)}.WithFitness(2),
	}
	rng := rand.New(rand.NewSource(3))
	sel := HistoryPeaks(1, 1)
	out := sel(current, nil, rng)
	require.Len(t, out, 2)
}

func TestHistoryPeaksConcatenatesTopNAndHistoryCounts(t *testing.T) {
	current := evolve.Population{
		evolve.Individual{Genome: newFake(1)}.WithFitness(1),
		evolve.Individual{Genome: newFake(2)}.WithFitness(2),
		evolve.Individual{Genome: newFake(3)}.WithFitness(3),
	}
	history := evolve.History{
		{Best: evolve.Individual{Genome: newFake(10)}.WithFitness(10), Max: 10},
		{Best: evolve.Individual{Genome: newFake(1)}.WithFitness(1), Max: 1},
		{Best: evolve.Individual{Genome: newFake(20)}.WithFitness(20), Max: 20},
		{Best: evolve.Individual{Genome: newFake(1)}.WithFitness(1), Max: 1},
		{Best: evolve.Individual{Genome: newFake(15)}.WithFitness(15), Max: 15},
	}
	rng := rand.New(rand.NewSource(4))
	sel := HistoryPeaks(2, 3)
	out := sel(current, history, rng)
	// The champion series 10,1,20,1,15 has two peaks (20 and 15; the
	// leading 10 follows no climb), so the top 2 are joined by 2 of the
	// up-to-3 historical slots.
	require.Len(t, out, 4)
}
