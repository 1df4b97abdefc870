// Package dagforge is the public façade over the engine's internal
// packages, grounded on the teacher's pkg/protogonos.Client: a thin,
// dependency-injected wrapper that assembles internal packages into a
// single entry point plus a stable run summary shape.
package dagforge

import (
	"context"
	"math/rand"

	"dagforge/internal/coevolve"
	"dagforge/internal/evolve"
	"dagforge/internal/genome"
	"dagforge/internal/idgen"
	"dagforge/internal/snapshot"
)

// Options configures a Client: which snapshot backend to persist through,
// and where a sqlite backend should write.
type Options struct {
	StoreKind string
	DBPath    string
}

// Client is the façade's handle: it holds the snapshot store that every Run
// and Coevolve call on it persists through.
type Client struct {
	store snapshot.Store
}

// NewClient opens (but does not Init) the configured snapshot store.
func NewClient(opts Options) (*Client, error) {
	store, err := snapshot.NewStore(opts.StoreKind, opts.DBPath)
	if err != nil {
		return nil, err
	}
	return &Client{store: store}, nil
}

// Close releases the underlying store, if it supports Close.
func (c *Client) Close() error {
	return snapshot.CloseIfSupported(c.store)
}

// RunSummary is the stable result shape of both Run and Coevolve, grounded
// on the teacher's pkg/protogonos.RunSummary: a uuid-stamped run id plus
// the champion trajectory and final state.
type RunSummary struct {
	RunID            string
	BestByGeneration []float64
	FinalBestFitness float64
	Generations      int
	FinalPopulation  evolve.Population
	History          evolve.History
}

// RunRequest bundles a single-population evolve-discrete invocation.
type RunRequest struct {
	Init       evolve.Population
	Fitness    evolve.FitnessFn
	Regenerate evolve.RegenerateFn
	MapFn      evolve.MapFn
	Options    evolve.Options
	Seed       int64
}

// Run drives evolve-discrete via evolve.SimpleEvolve and wraps the result
// in a RunSummary carrying a fresh run id, persisting each generation
// through the client's snapshot store if Options.Progress isn't already
// set.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	runID := idgen.NewRunID()
	opts := req.Options
	var writer *snapshot.Writer
	if opts.Progress == nil && c.store != nil {
		if err := c.store.Init(ctx); err != nil {
			return RunSummary{}, err
		}
		writer = snapshot.NewWriter(c.store, runID, opts.Logger)
		opts.Progress = writer.ProgressFn()
	}
	rng := rand.New(rand.NewSource(req.Seed))
	result, err := evolve.SimpleEvolve(ctx, req.Init, req.Fitness, req.Regenerate, req.MapFn, opts, rng)
	if writer != nil {
		writer.Close()
	}
	if err != nil {
		return RunSummary{}, err
	}
	return RunSummary{
		RunID:            runID,
		BestByGeneration: result.History.ChampionSeries(),
		FinalBestFitness: result.History[len(result.History)-1].Max,
		Generations:      result.NGens,
		FinalPopulation:  result.Population,
		History:          result.History,
	}, nil
}

// CoevolveRequest bundles a host/parasite coevolution invocation.
type CoevolveRequest struct {
	InitHosts     evolve.Population
	InitParasites evolve.Population
	Duel          coevolve.DuelFn
	Options       coevolve.Options
	Seed          int64
}

// CoevolveSummary is Coevolve's result: one RunSummary per sub-population
// sharing a single run id.
type CoevolveSummary struct {
	RunID     string
	Hosts     RunSummary
	Parasites RunSummary
}

// Coevolve drives the two-population host/parasite driver, persisting each
// sub-population's generation records and lineage through the client's
// snapshot store under sibling run ids if Options.Progress isn't already
// set.
func (c *Client) Coevolve(ctx context.Context, req CoevolveRequest) (CoevolveSummary, error) {
	runID := idgen.NewRunID()
	opts := req.Options
	var hostWriter, parasiteWriter *snapshot.Writer
	if opts.Progress == nil && c.store != nil {
		if err := c.store.Init(ctx); err != nil {
			return CoevolveSummary{}, err
		}
		hostWriter = snapshot.NewWriter(c.store, runID+"-host", opts.Logger)
		parasiteWriter = snapshot.NewWriter(c.store, runID+"-parasite", opts.Logger)
		opts.Progress = func(gen int, hosts, parasites evolve.Population, hostHist, parasiteHist evolve.History) {
			hostWriter.ProgressFn()(gen, hosts, hostHist)
			parasiteWriter.ProgressFn()(gen, parasites, parasiteHist)
		}
	}
	rng := rand.New(rand.NewSource(req.Seed))
	result, err := coevolve.Coevolve(ctx, req.InitHosts, req.InitParasites, req.Duel, opts, rng)
	if hostWriter != nil {
		hostWriter.Close()
	}
	if parasiteWriter != nil {
		parasiteWriter.Close()
	}
	if err != nil {
		return CoevolveSummary{}, err
	}
	return CoevolveSummary{
		RunID: runID,
		Hosts: RunSummary{
			RunID:            runID,
			BestByGeneration: result.HostHistory.ChampionSeries(),
			FinalBestFitness: result.HostHistory[len(result.HostHistory)-1].Max,
			Generations:      result.NGens,
			FinalPopulation:  result.Hosts,
			History:          result.HostHistory,
		},
		Parasites: RunSummary{
			RunID:            runID,
			BestByGeneration: result.ParasiteHistory.ChampionSeries(),
			FinalBestFitness: result.ParasiteHistory[len(result.ParasiteHistory)-1].Max,
			Generations:      result.NGens,
			FinalPopulation:  result.Parasites,
			History:          result.ParasiteHistory,
		},
	}, nil
}

// DefaultGenomeOptions is a convenience re-export so callers don't need to
// import internal/genome directly for the common case.
func DefaultGenomeOptions() genome.Options {
	return genome.DefaultOptions()
}
