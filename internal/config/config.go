// Package config merges CLI flags with an optional YAML options file into
// the Options bag genome constructors and drivers consume (§6 of the
// engine's specification). Flags always win over file values over
// defaults, mirroring the teacher's flag-plus-JSON-config layering in
// cmd/protogonosctl, adapted to gopkg.in/yaml.v3 for the file format.
package config

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dagforge/internal/genome"
)

// RunConfig is the merged configuration for a single dagforgectl run:
// genome.Options plus the driver/store knobs that sit above it.
type RunConfig struct {
	Store         string  `yaml:"store"`
	DBPath        string  `yaml:"db_path"`
	NGens         int     `yaml:"n_gens"`
	Target        float64 `yaml:"target"`
	ProgressEvery int     `yaml:"progress_every"`
	Seed          int64   `yaml:"seed"`
	Workers       int     `yaml:"workers"`

	GeneMutRate      float64 `yaml:"gene_mut_rate"`
	NodeMutRate      float64 `yaml:"node_mut_rate"`
	ERCProb          float64 `yaml:"erc_prob"`
	AtrophySteps     int     `yaml:"atrophy_steps"`
	MaxExprDepth     int     `yaml:"max_expr_depth"`
	TerminalProb     float64 `yaml:"terminal_prob"`
	MaxRandNodeTries int     `yaml:"max_rand_node_tries"`
}

// Default returns RunConfig seeded from genome.DefaultOptions, the layer
// under both the YAML file and flags.
func Default() RunConfig {
	opts := genome.DefaultOptions()
	return RunConfig{
		Store:            "memory",
		DBPath:           "dagforge.db",
		NGens:            opts.NGens,
		Target:           opts.Target,
		ProgressEvery:    opts.ProgressEvery,
		Workers:          1,
		GeneMutRate:      opts.GeneMutRate,
		NodeMutRate:      opts.NodeMutRate,
		ERCProb:          opts.ERCProb,
		AtrophySteps:     opts.AtrophySteps,
		MaxExprDepth:     opts.MaxExprDepth,
		TerminalProb:     opts.TerminalProb,
		MaxRandNodeTries: opts.MaxRandNodeTries,
	}
}

// LoadFile overlays a YAML options file onto base. A missing path is not an
// error — callers pass "" when no --config flag was given.
func LoadFile(base RunConfig, path string) (RunConfig, error) {
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &base); err != nil {
		return RunConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return base, nil
}

// BindFlags registers cfg's fields on fs, so a caller can Parse and then
// know from fs.Visit which flags the user actually set (flags win only for
// the ones explicitly passed, so unset flags don't clobber the file layer
// with zero values).
type FlagBindings struct {
	Store            *string
	DBPath           *string
	NGens            *int
	Target           *float64
	ProgressEvery    *int
	Seed             *int64
	Workers          *int
	GeneMutRate      *float64
	NodeMutRate      *float64
	ERCProb          *float64
	AtrophySteps     *int
	MaxExprDepth     *int
	TerminalProb     *float64
	MaxRandNodeTries *int
}

func BindFlags(fs *flag.FlagSet, base RunConfig) FlagBindings {
	return FlagBindings{
		Store:            fs.String("store", base.Store, "snapshot store backend: memory|sqlite"),
		DBPath:           fs.String("db-path", base.DBPath, "sqlite database path"),
		NGens:            fs.Int("gens", base.NGens, "generation budget"),
		Target:           fs.Float64("target", base.Target, "fitness target"),
		ProgressEvery:    fs.Int("progress-every", base.ProgressEvery, "generations between progress lines"),
		Seed:             fs.Int64("seed", base.Seed, "RNG seed"),
		Workers:          fs.Int("workers", base.Workers, "fitness evaluation: 1 = sequential, >1 = concurrent (one goroutine per individual)"),
		GeneMutRate:      fs.Float64("gene-mut-rate", base.GeneMutRate, "CGP per-gene mutation rate"),
		NodeMutRate:      fs.Float64("node-mut-rate", base.NodeMutRate, "ICGP per-node mutation rate"),
		ERCProb:          fs.Float64("erc-prob", base.ERCProb, "ephemeral-random-constant draw probability"),
		AtrophySteps:     fs.Int("atrophy-steps", base.AtrophySteps, "ICGP inactive-node atrophy horizon"),
		MaxExprDepth:     fs.Int("max-expr-depth", base.MaxExprDepth, "tree genome max expression depth"),
		TerminalProb:     fs.Float64("terminal-prob", base.TerminalProb, "tree genome terminal-vs-function draw probability"),
		MaxRandNodeTries: fs.Int("max-rand-node-tries", base.MaxRandNodeTries, "bounded retries for typed random node draws"),
	}
}

// Apply overlays flags explicitly set by the user (per fs.Visit) onto cfg,
// so flags win over file over defaults without an unset flag's zero value
// stomping a file-provided setting.
func Apply(cfg RunConfig, fs *flag.FlagSet, b FlagBindings) RunConfig {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "store":
			cfg.Store = *b.Store
		case "db-path":
			cfg.DBPath = *b.DBPath
		case "gens":
			cfg.NGens = *b.NGens
		case "target":
			cfg.Target = *b.Target
		case "progress-every":
			cfg.ProgressEvery = *b.ProgressEvery
		case "seed":
			cfg.Seed = *b.Seed
		case "workers":
			cfg.Workers = *b.Workers
		case "gene-mut-rate":
			cfg.GeneMutRate = *b.GeneMutRate
		case "node-mut-rate":
			cfg.NodeMutRate = *b.NodeMutRate
		case "erc-prob":
			cfg.ERCProb = *b.ERCProb
		case "atrophy-steps":
			cfg.AtrophySteps = *b.AtrophySteps
		case "max-expr-depth":
			cfg.MaxExprDepth = *b.MaxExprDepth
		case "terminal-prob":
			cfg.TerminalProb = *b.TerminalProb
		case "max-rand-node-tries":
			cfg.MaxRandNodeTries = *b.MaxRandNodeTries
		}
	})
	return cfg
}

// ToGenomeOptions projects the genome-relevant fields of cfg into a
// genome.Options, starting from genome.DefaultOptions for any field this
// package doesn't surface (e.g. DataType, ERCGen).
func (c RunConfig) ToGenomeOptions() genome.Options {
	opts := genome.DefaultOptions()
	opts.GeneMutRate = c.GeneMutRate
	opts.NodeMutRate = c.NodeMutRate
	opts.ERCProb = c.ERCProb
	opts.AtrophySteps = c.AtrophySteps
	opts.MaxExprDepth = c.MaxExprDepth
	opts.TerminalProb = c.TerminalProb
	opts.MaxRandNodeTries = c.MaxRandNodeTries
	opts.NGens = c.NGens
	opts.Target = c.Target
	opts.ProgressEvery = c.ProgressEvery
	return opts
}
