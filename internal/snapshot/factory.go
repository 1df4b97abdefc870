package snapshot

import "fmt"

// NewStore builds a Store from a backend kind ("memory" or "sqlite") and,
// for sqlite, a database path, mirroring the teacher's storage.NewStore
// dispatch.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return newSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("snapshot: unsupported store backend: %s", kind)
	}
}
