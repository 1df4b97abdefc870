// Package snapshot persists population/history state across runs: the
// storage-layer half of §9's "persistence is out of scope for the core
// algorithms but a real deployment needs it" design note, adapted from the
// teacher's internal/storage package to dagforge's population/history
// shape instead of protogonos's neuro-genome shape.
package snapshot

import (
	"encoding/json"
	"errors"

	"dagforge/internal/compile"
	"dagforge/internal/evolve"
)

// CurrentSchemaVersion guards the on-disk record shape; CurrentCodecVersion
// guards the JSON encoding of that shape. Both are bumped independently,
// mirroring the teacher's codec.go split.
const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

// ErrVersionMismatch signals a record written by an incompatible version.
var ErrVersionMismatch = errors.New("snapshot: record version mismatch")

// VersionedRecord is embedded in every persisted record.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

func currentVersion() VersionedRecord {
	return VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

func (v VersionedRecord) check() error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

// GenerationRecord is one persisted generation of a run: the distilled
// statistics plus the champion's compiled program, which is representation-
// agnostic and therefore the one part of a genome cheap to serialize
// without knowing whether it came from a tree, CGP, or ICGP population.
type GenerationRecord struct {
	VersionedRecord
	RunID           string           `json:"run_id"`
	Generation      int              `json:"generation"`
	Min             float64          `json:"min"`
	Median          float64          `json:"median"`
	Max             float64          `json:"max"`
	BestFitness     float64          `json:"best_fitness"`
	BestFingerprint string           `json:"best_fingerprint"`
	BestProgram     *compile.Program `json:"best_program,omitempty"`
}

// LineageRecord mirrors evolve.LineageEntry for storage.
type LineageRecord struct {
	VersionedRecord
	evolve.LineageEntry
}

func EncodeGenerationRecord(r GenerationRecord) ([]byte, error) {
	r.VersionedRecord = currentVersion()
	return json.Marshal(r)
}

func DecodeGenerationRecord(data []byte) (GenerationRecord, error) {
	var r GenerationRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return GenerationRecord{}, err
	}
	if err := r.check(); err != nil {
		return GenerationRecord{}, err
	}
	return r, nil
}

func EncodeLineage(entries []evolve.LineageEntry) ([]byte, error) {
	wrapped := make([]LineageRecord, len(entries))
	for i, e := range entries {
		wrapped[i] = LineageRecord{VersionedRecord: currentVersion(), LineageEntry: e}
	}
	return json.Marshal(wrapped)
}

func DecodeLineage(data []byte) ([]evolve.LineageEntry, error) {
	var wrapped []LineageRecord
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	out := make([]evolve.LineageEntry, len(wrapped))
	for i, w := range wrapped {
		if err := w.check(); err != nil {
			return nil, err
		}
		out[i] = w.LineageEntry
	}
	return out, nil
}
