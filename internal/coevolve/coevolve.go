// Package coevolve implements the two-population host/parasite driver of
// §4.7, layered on top of internal/evolve's discrete-generation loop.
package coevolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"dagforge/internal/evolve"
	"dagforge/internal/genome"
)

// ErrDuel surfaces a user duel-fitness callback error, per §7's FitnessError
// policy: never masked.
var ErrDuel = errors.New("coevolve: duel fitness callback failed")

// DuelFn is the user-supplied fitness(a, b) → (fitness-a, fitness-b) of
// §4.7. Argument order is the caller's responsibility.
type DuelFn func(host, parasite genome.Genome) (hostFitness, parasiteFitness float64, err error)

// ParasiteSelectFn selects the parasites a generation's hosts will duel
// against, given the current parasite sub-population and its history.
type ParasiteSelectFn func(current evolve.Population, history evolve.History, rng *rand.Rand) evolve.Population

// Options bundles both sub-populations' driver options plus the duel and
// parasite-selection hooks.
type Options struct {
	NGens              int
	Target             float64
	ProgressEvery      int
	HostRegenerate     evolve.RegenerateFn
	ParasiteRegenerate evolve.RegenerateFn
	SelectParasites    ParasiteSelectFn
	Distil             evolve.DistilFn
	Progress           func(gen int, hosts, parasites evolve.Population, hostHist, parasiteHist evolve.History)
	Logger             *slog.Logger
}

// Result carries both sub-populations' final state and history.
type Result struct {
	Hosts           evolve.Population
	Parasites       evolve.Population
	HostHistory     evolve.History
	ParasiteHistory evolve.History
	NGens           int
}

func (o Options) withDefaults() Options {
	if o.NGens == 0 {
		o.NGens = 100
	}
	if o.ProgressEvery == 0 {
		o.ProgressEvery = 1
	}
	if o.Distil == nil {
		o.Distil = evolve.DefaultDistil
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.SelectParasites == nil {
		o.SelectParasites = TopN(2)
	}
	return o
}

// Coevolve implements §4.7: each generation, every host is duelled against
// every currently-selected parasite (and vice versa); a host's fitness is
// the mean of its scores across those duels, and symmetrically for
// parasites. Both sub-populations' distil/progress are stratified.
func Coevolve(ctx context.Context, initHosts, initParasites evolve.Population, duel DuelFn, opts Options, rng *rand.Rand) (Result, error) {
	opts = opts.withDefaults()
	hosts := taggedCopy(initHosts, "host")
	parasites := taggedCopy(initParasites, "parasite")
	var hostHist, parasiteHist evolve.History

	for gen := 0; ; gen++ {
		if err := ctx.Err(); err != nil {
			return Result{Hosts: hosts, Parasites: parasites, HostHistory: hostHist, ParasiteHistory: parasiteHist, NGens: gen}, err
		}
		selectedParasites := opts.SelectParasites(parasites, parasiteHist, rng)
		selectedHosts := opts.SelectParasites(hosts, hostHist, rng)

		evalHosts, evalParasites, err := duelAll(hosts, selectedParasites, parasites, selectedHosts, duel)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrDuel, err)
		}

		hd := opts.Distil(evalHosts, gen)
		pd := opts.Distil(evalParasites, gen)
		hostHist = append(hostHist, hd)
		parasiteHist = append(parasiteHist, pd)

		opts.Logger.Info("coevolution generation complete",
			"gen", gen, "host_best", hd.Max, "parasite_best", pd.Max)

		gate := gen == 0 || gen == opts.NGens || gen%opts.ProgressEvery == 0
		targetReached := hd.Max >= opts.Target || pd.Max >= opts.Target
		if gate && opts.Progress != nil {
			opts.Progress(gen, evalHosts, evalParasites, hostHist, parasiteHist)
		}
		if targetReached || gen >= opts.NGens {
			return Result{Hosts: evalHosts, Parasites: evalParasites, HostHistory: hostHist, ParasiteHistory: parasiteHist, NGens: gen}, nil
		}

		hosts = taggedCopy(opts.HostRegenerate(evalHosts, rng), "host")
		parasites = taggedCopy(opts.ParasiteRegenerate(evalParasites, rng), "parasite")
	}
}

func taggedCopy(pop evolve.Population, tag string) evolve.Population {
	stamped := evolve.StampIDs(pop)
	out := make(evolve.Population, len(stamped))
	for i, ind := range stamped {
		ind.SubPopID = tag
		out[i] = ind
	}
	return out
}

// duelAll runs every (host, parasite) pair from hosts×parasiteOpponents and
// every (parasite, host) pair from parasites×hostOpponents, and tags each
// individual with the mean of its scores.
func duelAll(hosts, parasiteOpponents, parasites, hostOpponents evolve.Population, duel DuelFn) (evolve.Population, evolve.Population, error) {
	evalHosts := make(evolve.Population, len(hosts))
	for i, h := range hosts {
		var sum float64
		for _, p := range parasiteOpponents {
			fh, _, err := duel(h.Genome, p.Genome)
			if err != nil {
				return nil, nil, err
			}
			sum += fh
		}
		mean := 0.0
		if len(parasiteOpponents) > 0 {
			mean = sum / float64(len(parasiteOpponents))
		}
		evalHosts[i] = h.WithFitness(mean)
	}

	evalParasites := make(evolve.Population, len(parasites))
	for i, p := range parasites {
		var sum float64
		for _, h := range hostOpponents {
			_, fp, err := duel(h.Genome, p.Genome)
			if err != nil {
				return nil, nil, err
			}
			sum += fp
		}
		mean := 0.0
		if len(hostOpponents) > 0 {
			mean = sum / float64(len(hostOpponents))
		}
		evalParasites[i] = p.WithFitness(mean)
	}
	return evalHosts, evalParasites, nil
}
