package evolve

import (
	"math/rand"
	"sort"

	"dagforge/internal/genome"
	"dagforge/internal/idgen"
)

// MutateFn mutates a genome, returning a new value; on internal failure it
// must return the original unchanged (§7's transactional contract, upheld
// by every genome variant's own Mutate).
type MutateFn func(g genome.Genome, rng *rand.Rand) genome.Genome

// CrossoverFn recombines two genomes into two children. nil for variants
// that do not implement crossover (CGP, ICGP — §4.5.4).
type CrossoverFn func(a, b genome.Genome, rng *rand.Rand) (genome.Genome, genome.Genome)

func rankedDesc(pop Population) Population {
	ranked := append(Population(nil), pop...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].FitnessOrZero() > ranked[j].FitnessOrZero() })
	return ranked
}

func vary(a, b genome.Genome, crossover CrossoverFn, mutate MutateFn, rng *rand.Rand) genome.Genome {
	child := a
	if crossover != nil {
		c, _ := crossover(a, b, rng)
		child = c
	}
	return mutate(child, rng)
}

// NegativeSelection implements §4.6's negative-selection policy: keep the
// top elitism champions verbatim, then fill the rest of the population by
// pairing random picks from the top selectN through crossover then mutate.
func NegativeSelection(selectN, elitism int, mutate MutateFn, crossover CrossoverFn) RegenerateFn {
	return func(evaluated Population, rng *rand.Rand) Population {
		ranked := rankedDesc(evaluated)
		n := len(ranked)
		if selectN > n {
			selectN = n
		}
		if elitism > n {
			elitism = n
		}
		pool := ranked[:selectN]

		next := make(Population, 0, n)
		for i := 0; i < elitism; i++ {
			next = append(next, ranked[i])
		}
		for len(next) < n {
			a := pool[rng.Intn(len(pool))]
			b := pool[rng.Intn(len(pool))]
			child := vary(a.Genome, b.Genome, crossover, mutate, rng)
			next = append(next, Individual{ID: idgen.NewRunID(), Genome: child, ParentID: a.ID, Operation: "negative-selection"})
		}
		return next
	}
}

// Tournament implements §4.6's tournament policy: run n-elitism tournaments
// of size random contestants; the best two of each tournament go through
// crossover then mutate. Ties within a tournament are broken by shuffling
// the contestant order first, so neutral mutations still drift.
func Tournament(size, elitism int, mutate MutateFn, crossover CrossoverFn) RegenerateFn {
	return func(evaluated Population, rng *rand.Rand) Population {
		ranked := rankedDesc(evaluated)
		n := len(ranked)
		if elitism > n {
			elitism = n
		}
		next := make(Population, 0, n)
		for i := 0; i < elitism; i++ {
			next = append(next, ranked[i])
		}
		for len(next) < n {
			best1, best2 := runTournament(evaluated, size, rng)
			child := vary(best1.Genome, best2.Genome, crossover, mutate, rng)
			next = append(next, Individual{ID: idgen.NewRunID(), Genome: child, ParentID: best1.ID, Operation: "tournament"})
		}
		return next
	}
}

func runTournament(pop Population, size int, rng *rand.Rand) (Individual, Individual) {
	idx := rng.Perm(len(pop))
	if size > len(pop) {
		size = len(pop)
	}
	contestants := make(Population, size)
	for i := 0; i < size; i++ {
		contestants[i] = pop[idx[i]]
	}
	ranked := rankedDesc(contestants)
	if len(ranked) == 1 {
		return ranked[0], ranked[0]
	}
	return ranked[0], ranked[1]
}

// FullyMixed implements §4.6's fully-mixed policy: a deterministic
// proportional split between elitism, mutation-only offspring, and
// crossover offspring, driven by mutationProb.
func FullyMixed(elitism int, mutationProb float64, mutate MutateFn, crossover CrossoverFn) RegenerateFn {
	return func(evaluated Population, rng *rand.Rand) Population {
		ranked := rankedDesc(evaluated)
		n := len(ranked)
		if elitism > n {
			elitism = n
		}
		next := make(Population, 0, n)
		for i := 0; i < elitism; i++ {
			next = append(next, ranked[i])
		}
		remaining := n - elitism
		mutateCount := int(float64(remaining) * mutationProb)
		for i := 0; i < mutateCount; i++ {
			parent := ranked[rng.Intn(n)]
			child := mutate(parent.Genome, rng)
			next = append(next, Individual{ID: idgen.NewRunID(), Genome: child, ParentID: parent.ID, Operation: "mutate"})
		}
		for len(next) < n {
			a := ranked[rng.Intn(n)]
			b := ranked[rng.Intn(n)]
			child := vary(a.Genome, b.Genome, crossover, mutate, rng)
			next = append(next, Individual{ID: idgen.NewRunID(), Genome: child, ParentID: a.ID, Operation: "crossover"})
		}
		return next
	}
}
