// Package idgen isolates the two flavours of global identity the engine
// needs: the ICGP process-wide monotonic node-id counter (§5, §9), and run
// identifiers handed out to snapshot/lineage records.
package idgen

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// NodeIDs is an atomically-incremented id source. §9 calls for isolating
// the counter "behind an atomic type and a function, to permit per-run
// resets in tests" — a package-level atomic.Int64 cannot be reset between
// tests without a data race, so callers hold their own *NodeIDs instead of
// reaching for a package-level singleton.
type NodeIDs struct {
	next atomic.Int64
}

// NewNodeIDs returns a counter that hands out ids starting at 1.
func NewNodeIDs() *NodeIDs {
	return &NodeIDs{}
}

// Next returns the next globally unique id for this counter.
func (n *NodeIDs) Next() int64 {
	return n.next.Add(1)
}

// Reset rewinds the counter to zero. Test-only: production code must never
// reuse an id once issued.
func (n *NodeIDs) Reset() {
	n.next.Store(0)
}

// NewRunID returns a fresh run identifier for snapshot/lineage records.
func NewRunID() string {
	return uuid.NewString()
}
