// Command dagforgectl is the engine's CLI, grounded on the teacher's
// cmd/protogonosctl/main.go dispatch style: a hand-rolled per-subcommand
// flag.FlagSet, no CLI framework.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"dagforge/internal/config"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "run":
		return runDemo(ctx, args[1:])
	case "snapshot":
		return runSnapshot(ctx, args[1:])
	case "version":
		fmt.Println("dagforgectl 0.1.0")
		return nil
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("dagforgectl: %s (usage: dagforgectl run|snapshot|version)", msg)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func loadConfig(args []string) (config.RunConfig, []string, error) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional YAML options file")
	base := config.Default()
	b := config.BindFlags(fs, base)
	if err := fs.Parse(args); err != nil {
		return config.RunConfig{}, nil, err
	}
	merged, err := config.LoadFile(base, *configPath)
	if err != nil {
		return config.RunConfig{}, nil, err
	}
	merged = config.Apply(merged, fs, b)
	return merged, fs.Args(), nil
}
