package snapshot

import (
	"context"
	"testing"

	"dagforge/internal/evolve"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTripsGenerations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Init(ctx))

	require.NoError(t, store.SaveGeneration(ctx, GenerationRecord{RunID: "run-1", Generation: 0, Max: 1}))
	require.NoError(t, store.SaveGeneration(ctx, GenerationRecord{RunID: "run-1", Generation: 1, Max: 2}))

	hist, ok, err := store.GetHistory(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, hist, 2)
	require.Equal(t, 2.0, hist[1].Max)

	rec, ok, err := store.GetGeneration(ctx, "run-1", 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1.0, rec.Max)

	_, ok, err = store.GetHistory(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreRoundTripsLineage(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Init(ctx))

	entries := []evolve.LineageEntry{
		{IndividualID: "a", Generation: 0, Operation: "seed"},
		{IndividualID: "b", ParentID: "a", Generation: 1, Operation: "mutate"},
	}
	require.NoError(t, store.SaveLineage(ctx, "run-1", entries))

	got, ok, err := store.GetLineage(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, entries, got)
}

func TestVersionedRecordRejectsMismatch(t *testing.T) {
	stale := VersionedRecord{SchemaVersion: 0, CodecVersion: CurrentCodecVersion}
	require.ErrorIs(t, stale.check(), ErrVersionMismatch)

	current := currentVersion()
	require.NoError(t, current.check())
}

func TestGenerationRecordCodecRoundTrips(t *testing.T) {
	data, err := EncodeGenerationRecord(GenerationRecord{RunID: "run-1", Generation: 3, Max: 7})
	require.NoError(t, err)
	rec, err := DecodeGenerationRecord(data)
	require.NoError(t, err)
	require.Equal(t, "run-1", rec.RunID)
	require.Equal(t, 3, rec.Generation)
	require.Equal(t, 7.0, rec.Max)
}
