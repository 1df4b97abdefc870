package main

import (
	"context"
	"flag"
	"fmt"

	"dagforge/internal/snapshot"
)

func runSnapshot(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "inspect" {
		return usageError("snapshot: expected \"inspect\" subcommand")
	}
	fs := flag.NewFlagSet("snapshot inspect", flag.ContinueOnError)
	storeKind := fs.String("store", "memory", "snapshot store backend: memory|sqlite")
	dbPath := fs.String("db-path", "dagforge.db", "sqlite database path")
	runID := fs.String("run-id", "", "run id to inspect")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if *runID == "" {
		return usageError("snapshot inspect: --run-id is required")
	}

	store, err := snapshot.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = snapshot.CloseIfSupported(store) }()

	if err := store.Init(ctx); err != nil {
		return err
	}
	history, ok, err := store.GetHistory(ctx, *runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("snapshot inspect: no history for run %s", *runID)
	}
	for _, rec := range history {
		fmt.Printf("gen=%d min=%.6f median=%.6f max=%.6f best_fingerprint=%s\n",
			rec.Generation, rec.Min, rec.Median, rec.Max, rec.BestFingerprint)
	}
	return nil
}
