package evolve

import (
	"context"
	"math/rand"

	"dagforge/internal/genome"
	"golang.org/x/sync/errgroup"
)

// FitnessFn is the "pure function of one individual" case of §6's fitness
// interface, consumed by SimpleEvolve.
type FitnessFn func(g genome.Genome) (float64, error)

// MapFn controls SimpleEvolve's parallelism per §4.6/§5: it must evaluate
// fitness for every individual in pop and return a new Population with
// Fitness set, without mutating pop's genomes.
type MapFn func(ctx context.Context, pop Population, fitness FitnessFn) (Population, error)

// SequentialMap is the default MapFn: no concurrency, deterministic order.
func SequentialMap(ctx context.Context, pop Population, fitness FitnessFn) (Population, error) {
	out := make(Population, len(pop))
	for i, ind := range pop {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := fitness(ind.Genome)
		if err != nil {
			return nil, err
		}
		out[i] = ind.WithFitness(f)
	}
	return out, nil
}

// ParallelMap evaluates fitness concurrently via errgroup, honouring §5's
// contract that the fitness callback be a pure function of one individual.
// Compiled-callable caches may race benignly per §5; the population slice
// itself is only written by this call's own goroutines, one slot each.
func ParallelMap(ctx context.Context, pop Population, fitness FitnessFn) (Population, error) {
	out := make(Population, len(pop))
	g, gctx := errgroup.WithContext(ctx)
	for i, ind := range pop {
		i, ind := i, ind
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := fitness(ind.Genome)
			if err != nil {
				return err
			}
			out[i] = ind.WithFitness(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SimpleEvolve wraps EvolveDiscrete for the common per-individual fitness
// case, threading mapFn through as the concurrency hook. mapFn defaults to
// SequentialMap if nil.
func SimpleEvolve(ctx context.Context, init Population, fitness FitnessFn, regenerate RegenerateFn, mapFn MapFn, opts Options, rng *rand.Rand) (Result, error) {
	if mapFn == nil {
		mapFn = SequentialMap
	}
	evalFn := func(ctx context.Context, current, _ Population, _ History) (Population, error) {
		return mapFn(ctx, current, fitness)
	}
	return EvolveDiscrete(ctx, init, evalFn, regenerate, opts, rng)
}
