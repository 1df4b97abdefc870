package evolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
)

// ErrFitness surfaces a user fitness-callback error per §7: the driver
// never masks it.
var ErrFitness = errors.New("evolve: fitness callback failed")

// EvalPopnFitnessFn is the pluggable fitness-evaluation hook of §4.6's
// eval-popn-fitness contract: it may reorder individuals freely; fitness
// tags are metadata, not intrinsic to genome identity.
type EvalPopnFitnessFn func(ctx context.Context, current, prev Population, history History) (Population, error)

// RegenerateFn produces the next population from the evaluated one.
type RegenerateFn func(evaluated Population, rng *rand.Rand) Population

// ProgressFn is the side-effecting progress callback of §4.6.
type ProgressFn func(gen int, popn Population, history History)

// Options bundles evolve-discrete's recognised option keys (§4.6, §6).
type Options struct {
	NGens         int
	Target        float64
	ProgressEvery int
	PrevPopn      Population
	Distil        DistilFn
	Progress      ProgressFn
	Logger        *slog.Logger
}

// Result is evolve-discrete's return value.
type Result struct {
	Population Population
	History    History
	NGens      int
}

func (o Options) withDefaults() Options {
	if o.NGens == 0 {
		o.NGens = 100
	}
	if o.Target == 0 {
		o.Target = math.Inf(1)
	}
	if o.ProgressEvery == 0 {
		o.ProgressEvery = 1
	}
	if o.Distil == nil {
		o.Distil = DefaultDistil
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// EvolveDiscrete implements §4.6's contract exactly: on each generation it
// evaluates fitness, distils a history entry, gates progress, checks the
// termination condition (target reached or generation budget spent), and
// otherwise regenerates. The driver never mutates a genome value in place;
// every step threads a new Population through.
func EvolveDiscrete(ctx context.Context, init Population, evalFitness EvalPopnFitnessFn, regenerate RegenerateFn, opts Options, rng *rand.Rand) (Result, error) {
	opts = opts.withDefaults()
	current := StampIDs(init)
	var prev Population
	if opts.PrevPopn != nil {
		prev = opts.PrevPopn
	}
	var history History

	for gen := 0; ; gen++ {
		if err := ctx.Err(); err != nil {
			return Result{Population: current, History: history, NGens: gen}, err
		}
		evaluated, err := evalFitness(ctx, current, prev, history)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrFitness, err)
		}
		d := opts.Distil(evaluated, gen)
		history = append(history, d)

		opts.Logger.Info("generation complete",
			"gen", gen, "best", d.Max, "median", d.Median, "min", d.Min)

		targetReached := d.Max >= opts.Target
		gate := gen == 0 || gen == opts.NGens || targetReached || gen%opts.ProgressEvery == 0
		if gate && opts.Progress != nil {
			opts.Progress(gen, evaluated, history)
		}

		if targetReached || gen >= opts.NGens {
			return Result{Population: evaluated, History: history, NGens: gen}, nil
		}

		prev = evaluated
		current = regenerate(evaluated, rng)
	}
}
