// Package genome declares the abstract contract shared by the Tree, CGP,
// and ICGP program-graph representations (§3), plus the Options bag and
// cache metadata (§6, §9 "Metadata storage") common to all three.
package genome

import (
	"math"
	"math/rand"
	"sync"

	"dagforge/internal/dagnode"
	"dagforge/internal/langspec"
	"dagforge/internal/typesys"
)

// Input is a declared input descriptor: a display name and a type.
type Input struct {
	Name string
	Type typesys.Type
}

// ERCGen draws a fresh ephemeral random constant (§4.5.1's erc-gen).
type ERCGen func(rng *rand.Rand) (value dagnode.Value, t typesys.Type)

// Options bundles the recognised configuration keys of §6. The zero value
// does not carry the defaults; construct with DefaultOptions().
type Options struct {
	// ERC
	ERCProb float64
	ERCGen  ERCGen // nil defaults to a uniform real in [0,10) at each call site

	// Variation. GeneMutRate names the CGP per-index rate; NodeMutRate
	// names the ICGP per-id rate. Both default to 0.03; a genome variant
	// reads whichever field it owns.
	GeneMutRate float64
	NodeMutRate float64

	// Driver
	NGens         int
	Target        float64
	ProgressEvery int

	// ICGP
	AtrophySteps  int
	ForceRecache  bool
	DataType      string // "int" | "float" | ""

	// Tree
	MaxExprDepth int
	TerminalProb float64

	// RandNode bounded-retry budget shared by all three variants (§4.5.1).
	MaxRandNodeTries int
}

// DefaultOptions returns the §6 default values.
func DefaultOptions() Options {
	return Options{
		ERCProb:          0.0,
		GeneMutRate:      0.03,
		NodeMutRate:      0.03,
		NGens:            100,
		Target:           math.Inf(1),
		ProgressEvery:    1,
		AtrophySteps:     200,
		ForceRecache:     false,
		MaxExprDepth:     8,
		TerminalProb:     0.5,
		MaxRandNodeTries: 32,
	}
}

// Meta is the per-genome cache slot of §3/§9: compiled callable, structural
// fingerprint, and current timestep. It is never part of genome equality
// and is safe to share by pointer since genomes are otherwise immutable
// values between mutations.
type Meta struct {
	mu          sync.Mutex
	Compiled    interface{} // holds a compile.Program once compiled; opaque here to avoid an import cycle
	Fingerprint string
	Timestep    int
}

// Recache replaces the cached callable and fingerprint if fp differs from
// the stored one (or nothing is cached yet), and always when force is set.
// It returns the cached value, freshly compiled or reused.
func (m *Meta) Recache(fp string, force bool, compile func() interface{}) interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !force && m.Fingerprint == fp && m.Compiled != nil {
		return m.Compiled
	}
	m.Compiled = compile()
	m.Fingerprint = fp
	return m.Compiled
}

// Genome is the abstract, representation-agnostic contract of §3 used by
// the population/coevolution drivers, which never need to know whether they
// hold a Tree, CGP, or ICGP genome.
type Genome interface {
	Inputs() []Input
	OutTypes() []typesys.Type
	Lang() *langspec.Language
	Options() Options
	Meta() *Meta
}
