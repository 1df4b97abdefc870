// Package compile turns a genome's active set into an executable straight-
// line program (§4.4). It owns the global primitive registry (grounded on
// the teacher's operator/activation registries) and the numeric semantics
// table every representation's compiler shares.
package compile

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"dagforge/internal/dagnode"
)

// ErrCompile is the defensive error family of §4.4/§7: it indicates a
// broken invariant (unknown primitive, arity mismatch) that well-formed
// variation operators should never produce.
var ErrCompile = errors.New("compile: invariant violation")

// PrimitiveFunc evaluates a function node given its already-evaluated
// argument values, in declared order.
type PrimitiveFunc func(args []dagnode.Value) dagnode.Value

// PrimitiveSpec is a registered primitive: its name, expected arity, and
// implementation. SchemaVersion follows the teacher's registry versioning
// idiom so an incompatible registration is rejected rather than silently
// shadowing an existing one.
type PrimitiveSpec struct {
	Name          string
	Arity         int
	Fn            PrimitiveFunc
	SchemaVersion int
}

const SupportedSchemaVersion = 1

var (
	ErrPrimitiveExists        = errors.New("compile: primitive already registered")
	ErrPrimitiveNotFound      = errors.New("compile: primitive not found")
	ErrPrimitiveVersionSkew   = errors.New("compile: primitive schema version mismatch")
)

var registry = struct {
	mu sync.RWMutex
	m  map[string]PrimitiveSpec
}{m: make(map[string]PrimitiveSpec)}

// Register adds a primitive to the global table. It fails if the name is
// already taken: with ErrPrimitiveVersionSkew when the arity matches but the
// schema version differs, otherwise with ErrPrimitiveExists. This matches
// the teacher's operator-registry duplicate policy.
func Register(spec PrimitiveSpec) error {
	if spec.Name == "" || spec.Fn == nil {
		return fmt.Errorf("%w: primitive spec missing name or function", ErrCompile)
	}
	if spec.SchemaVersion == 0 {
		spec.SchemaVersion = SupportedSchemaVersion
	}
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if existing, ok := registry.m[spec.Name]; ok {
		if existing.Arity != spec.Arity {
			return fmt.Errorf("%w: %q", ErrPrimitiveExists, spec.Name)
		}
		if existing.SchemaVersion != spec.SchemaVersion {
			return fmt.Errorf("%w: %q", ErrPrimitiveVersionSkew, spec.Name)
		}
		return fmt.Errorf("%w: %q", ErrPrimitiveExists, spec.Name)
	}
	registry.m[spec.Name] = spec
	return nil
}

// MustRegister panics on error; used only from init() during bootstrap of
// built-in primitives, mirroring the teacher's MustRegisterActivation.
func MustRegister(spec PrimitiveSpec) {
	if err := Register(spec); err != nil {
		panic(err)
	}
}

// Lookup returns the registered primitive named name.
func Lookup(name string) (PrimitiveSpec, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	spec, ok := registry.m[name]
	if !ok {
		return PrimitiveSpec{}, fmt.Errorf("%w: %q", ErrPrimitiveNotFound, name)
	}
	return spec, nil
}

// ListPrimitives returns every registered primitive name, sorted.
func ListPrimitives() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	names := make([]string, 0, len(registry.m))
	for n := range registry.m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// resetRegistryForTests clears and re-bootstraps the registry. Exported
// only within the package for use by _test.go files that need isolation
// from other tests' Register calls, mirroring the teacher's
// resetActivationRegistryForTests idiom.
func resetRegistryForTests() {
	registry.mu.Lock()
	registry.m = make(map[string]PrimitiveSpec)
	registry.mu.Unlock()
	registerBuiltins()
}

func init() {
	registerBuiltins()
}
