// Package langspec is the consumed operator-vocabulary contract of §4.1:
// an immutable sequence of function and constant specs, validated once at
// construction, plus the random-selection primitives variation operators
// need. The engine never inspects a language's origin — arithmetic, logic,
// or a benchmark's own typed-basic vocabulary all satisfy the same
// contract.
package langspec

import (
	"errors"
	"fmt"
	"math/rand"

	"dagforge/internal/dagnode"
	"dagforge/internal/typesys"
)

// ErrInvalidLanguage is returned when a language fails construction-time
// validation. It is fatal for the run that raised it.
var ErrInvalidLanguage = errors.New("langspec: invalid language")

// FuncSpec is a function-entry: symbol, declared return type, and ordered
// argument types. Arity is len(Args).
type FuncSpec struct {
	Name   string
	Return typesys.Type
	Args   []typesys.Type
}

func (f FuncSpec) Arity() int { return len(f.Args) }

// ConstSpec is a constant-entry: a fixed value and its type.
type ConstSpec struct {
	Value dagnode.Value
	Type  typesys.Type
}

// Entry is either a FuncSpec or a ConstSpec, never both.
type Entry struct {
	Func  *FuncSpec
	Const *ConstSpec
}

func (e Entry) returnType() typesys.Type {
	if e.Func != nil {
		return e.Func.Return
	}
	return e.Const.Type
}

// Language is the immutable, validated operator vocabulary for one run.
type Language struct {
	entries []Entry
}

// New validates entries and returns the language, or ErrInvalidLanguage if
// the vocabulary is empty or any entry is malformed (neither/both of Func
// and Const set, a function with a nil return type or a nil arg type, or a
// constant with a nil type).
func New(entries []Entry) (*Language, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", ErrInvalidLanguage)
	}
	for i, e := range entries {
		if (e.Func == nil) == (e.Const == nil) {
			return nil, fmt.Errorf("%w: entry %d is neither a pure function nor a pure constant spec", ErrInvalidLanguage, i)
		}
		if e.Func != nil {
			if e.Func.Name == "" || e.Func.Return == nil {
				return nil, fmt.Errorf("%w: entry %d: function spec missing name or return type", ErrInvalidLanguage, i)
			}
			for j, a := range e.Func.Args {
				if a == nil {
					return nil, fmt.Errorf("%w: entry %d: arg type %d is nil", ErrInvalidLanguage, i, j)
				}
			}
		} else {
			if e.Const.Type == nil {
				return nil, fmt.Errorf("%w: entry %d: constant spec missing type", ErrInvalidLanguage, i)
			}
		}
	}
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return &Language{entries: cp}, nil
}

// Entries returns the immutable vocabulary in declaration order.
func (l *Language) Entries() []Entry {
	cp := make([]Entry, len(l.entries))
	copy(cp, l.entries)
	return cp
}

// RandomEntry returns a uniformly random entry.
func (l *Language) RandomEntry(rng *rand.Rand) Entry {
	return l.entries[rng.Intn(len(l.entries))]
}

// RandomEntryReturning returns a uniformly random entry whose return type is
// a subtype of want, or ok=false if none exists.
func (l *Language) RandomEntryReturning(rng *rand.Rand, want typesys.Type) (Entry, bool) {
	var candidates []Entry
	for _, e := range l.entries {
		if e.returnType().IsSubtypeOf(want) {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return Entry{}, false
	}
	return candidates[rng.Intn(len(candidates))], true
}
