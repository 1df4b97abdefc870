package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"dagforge/internal/compile"
	"dagforge/internal/dagnode"
	"dagforge/internal/evolve"
	"dagforge/internal/genome"
	"dagforge/internal/genome/tree"
	"dagforge/internal/langspec"
	"dagforge/internal/typesys"
	"dagforge/pkg/dagforge"
)

// runDemo evolves a symbolic regression fit for f(x) = x*x + 1 over a
// small built-in float language, exercising evolve-discrete end to end.
func runDemo(ctx context.Context, args []string) error {
	cfg, _, err := loadConfig(args)
	if err != nil {
		return err
	}

	lang, err := demoLanguage()
	if err != nil {
		return err
	}
	inputs := []genome.Input{{Name: "x", Type: typesys.Float}}
	opts := cfg.ToGenomeOptions()
	rng := rand.New(rand.NewSource(cfg.Seed))

	popSize := 30
	init := make(evolve.Population, popSize)
	for i := range init {
		g, err := tree.RandGenome(inputs, nil, []typesys.Type{typesys.Float}, lang, opts, rng)
		if err != nil {
			return fmt.Errorf("seed genome %d: %w", i, err)
		}
		init[i] = evolve.Individual{Genome: g}
	}

	fitness := targetFitness()
	mutate := func(g genome.Genome, rng *rand.Rand) genome.Genome {
		return tree.Mutate(g.(*tree.Genome), lang, nil, rng)
	}
	regenerate := evolve.NegativeSelection(popSize/3, 2, mutate, nil)

	printer := newProgressPrinter()
	evOpts := evolve.Options{
		NGens:         cfg.NGens,
		Target:        cfg.Target,
		ProgressEvery: cfg.ProgressEvery,
		Logger:        newLogger(),
		Progress:      printer.progress,
	}

	mapFn := evolve.SequentialMap
	if cfg.Workers > 1 {
		mapFn = evolve.ParallelMap
	}

	client, err := dagforge.NewClient(dagforge.Options{StoreKind: cfg.Store, DBPath: cfg.DBPath})
	if err != nil {
		return err
	}
	defer client.Close()

	summary, err := client.Run(ctx, dagforge.RunRequest{
		Init:       init,
		Fitness:    fitness,
		Regenerate: regenerate,
		MapFn:      mapFn,
		Options:    evOpts,
		Seed:       cfg.Seed,
	})
	if err != nil {
		return err
	}

	fmt.Printf("run %s complete: %s generations, best fitness %.6f\n",
		summary.RunID, humanize.Comma(int64(summary.Generations)), summary.FinalBestFitness)
	return nil
}

func demoLanguage() (*langspec.Language, error) {
	return langspec.New([]langspec.Entry{
		{Func: &langspec.FuncSpec{Name: "add", Return: typesys.Float, Args: []typesys.Type{typesys.Float, typesys.Float}}},
		{Func: &langspec.FuncSpec{Name: "sub", Return: typesys.Float, Args: []typesys.Type{typesys.Float, typesys.Float}}},
		{Func: &langspec.FuncSpec{Name: "mul", Return: typesys.Float, Args: []typesys.Type{typesys.Float, typesys.Float}}},
		{Func: &langspec.FuncSpec{Name: "safe-div", Return: typesys.Float, Args: []typesys.Type{typesys.Float, typesys.Float}}},
		{Const: &langspec.ConstSpec{Value: dagnode.Float(1), Type: typesys.Float}},
		{Const: &langspec.ConstSpec{Value: dagnode.Float(2), Type: typesys.Float}},
	})
}

// targetFitness scores a genome by negative mean-squared error against
// f(x) = x*x + 1 over a handful of sample points, compiled through
// tree.Compile so the same fingerprint-caching contract every other
// caller relies on is exercised here too.
func targetFitness() evolve.FitnessFn {
	samples := []float64{-2, -1, -0.5, 0, 0.5, 1, 2, 3}
	return func(g genome.Genome) (float64, error) {
		callable := tree.Compile(g.(*tree.Genome))
		var sumSq float64
		for _, x := range samples {
			out, err := callable([]dagnode.Value{dagnode.Float(x)})
			if err != nil {
				return 0, fmt.Errorf("%w: %v", compile.ErrCompile, err)
			}
			want := x*x + 1
			got := out[0].Float
			diff := got - want
			sumSq += diff * diff
		}
		mse := sumSq / float64(len(samples))
		return -mse, nil
	}
}

type progressPrinter struct {
	tty bool
}

func newProgressPrinter() *progressPrinter {
	return &progressPrinter{tty: isatty.IsTerminal(os.Stdout.Fd())}
}

func (p *progressPrinter) progress(gen int, popn evolve.Population, history evolve.History) {
	d := history[len(history)-1]
	line := fmt.Sprintf("gen %s best=%.4f median=%.4f min=%.4f",
		humanize.Comma(int64(gen)), d.Max, d.Median, d.Min)
	if p.tty {
		fmt.Printf("\r%s", line)
		return
	}
	fmt.Println(line)
}
