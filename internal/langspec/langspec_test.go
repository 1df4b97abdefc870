package langspec

import (
	"errors"
	"math/rand"
	"testing"

	"dagforge/internal/dagnode"
	"dagforge/internal/typesys"
)

func floatLang(t *testing.T) *Language {
	t.Helper()
	lang, err := New([]Entry{
		{Func: &FuncSpec{Name: "add", Return: typesys.Float, Args: []typesys.Type{typesys.Float, typesys.Float}}},
		{Const: &ConstSpec{Value: dagnode.Float(0), Type: typesys.Float}},
	})
	if err != nil {
		t.Fatalf("floatLang: %v", err)
	}
	return lang
}

func TestNewRejectsEmptyVocabulary(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrInvalidLanguage) {
		t.Errorf("New(nil) err = %v, want ErrInvalidLanguage", err)
	}
}

func TestNewRejectsEntryWithBothOrNeither(t *testing.T) {
	_, err := New([]Entry{{}})
	if !errors.Is(err, ErrInvalidLanguage) {
		t.Errorf("neither Func nor Const: err = %v, want ErrInvalidLanguage", err)
	}
	_, err = New([]Entry{{
		Func:  &FuncSpec{Name: "add", Return: typesys.Float, Args: []typesys.Type{typesys.Float}},
		Const: &ConstSpec{Value: dagnode.Float(1), Type: typesys.Float},
	}})
	if !errors.Is(err, ErrInvalidLanguage) {
		t.Errorf("both Func and Const: err = %v, want ErrInvalidLanguage", err)
	}
}

func TestNewRejectsMalformedFuncOrConst(t *testing.T) {
	if _, err := New([]Entry{{Func: &FuncSpec{Return: typesys.Float}}}); !errors.Is(err, ErrInvalidLanguage) {
		t.Errorf("missing func name: err = %v, want ErrInvalidLanguage", err)
	}
	if _, err := New([]Entry{{Const: &ConstSpec{Value: dagnode.Float(1)}}}); !errors.Is(err, ErrInvalidLanguage) {
		t.Errorf("missing const type: err = %v, want ErrInvalidLanguage", err)
	}
}

func TestRandomEntryReturningFiltersByType(t *testing.T) {
	lang := floatLang(t)
	rng := rand.New(rand.NewSource(1))
	entry, ok := lang.RandomEntryReturning(rng, typesys.Float)
	if !ok {
		t.Fatal("expected a float-returning entry")
	}
	if entry.Func == nil && entry.Const == nil {
		t.Error("returned entry should be a valid func or const spec")
	}

	if _, ok := lang.RandomEntryReturning(rng, typesys.Bool); ok {
		t.Error("no entry returns bool; expected ok=false")
	}
}

func TestRandomEntryCanReturnConstSpecs(t *testing.T) {
	lang := floatLang(t)
	rng := rand.New(rand.NewSource(2))
	sawConst := false
	for i := 0; i < 200; i++ {
		if lang.RandomEntry(rng).Const != nil {
			sawConst = true
			break
		}
	}
	if !sawConst {
		t.Error("RandomEntry never drew the language's constant entry across 200 tries")
	}
}

func TestEntriesReturnsDefensiveCopy(t *testing.T) {
	lang := floatLang(t)
	entries := lang.Entries()
	entries[0] = Entry{}
	if lang.Entries()[0].Func == nil && lang.Entries()[0].Const == nil {
		t.Error("mutating the slice returned by Entries should not affect the language")
	}
}
