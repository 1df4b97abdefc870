package snapshot

import (
	"context"

	"dagforge/internal/evolve"
)

// Store persists per-run generation records and lineage, grounded on the
// teacher's internal/storage.Store — trimmed to the fields a discrete-
// generation run actually produces.
type Store interface {
	Init(ctx context.Context) error
	SaveGeneration(ctx context.Context, rec GenerationRecord) error
	GetGeneration(ctx context.Context, runID string, gen int) (GenerationRecord, bool, error)
	GetHistory(ctx context.Context, runID string) ([]GenerationRecord, bool, error)
	SaveLineage(ctx context.Context, runID string, entries []evolve.LineageEntry) error
	GetLineage(ctx context.Context, runID string) ([]evolve.LineageEntry, bool, error)
}

// CloseIfSupported closes store if it implements io.Closer-like behaviour,
// a no-op otherwise (the memory backend has nothing to release).
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
