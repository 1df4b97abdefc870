package tree

import (
	"math/rand"
	"testing"

	"dagforge/internal/compile"
	"dagforge/internal/dagnode"
	"dagforge/internal/genome"
	"dagforge/internal/langspec"
	"dagforge/internal/typesys"
)

func floatLanguage(t *testing.T) *langspec.Language {
	t.Helper()
	lang, err := langspec.New([]langspec.Entry{
		{Func: &langspec.FuncSpec{Name: "add", Return: typesys.Float, Args: []typesys.Type{typesys.Float, typesys.Float}}},
		{Func: &langspec.FuncSpec{Name: "mul", Return: typesys.Float, Args: []typesys.Type{typesys.Float, typesys.Float}}},
		{Const: &langspec.ConstSpec{Value: dagnode.Float(1), Type: typesys.Float}},
	})
	if err != nil {
		t.Fatalf("floatLanguage: %v", err)
	}
	return lang
}

func TestRandGenomeRespectsMaxDepth(t *testing.T) {
	lang := floatLanguage(t)
	inputs := []genome.Input{{Name: "x", Type: typesys.Float}}
	opts := genome.DefaultOptions()
	opts.MaxExprDepth = 4
	rng := rand.New(rand.NewSource(1))

	g, err := RandGenome(inputs, nil, []typesys.Type{typesys.Float}, lang, opts, rng)
	if err != nil {
		t.Fatalf("RandGenome: %v", err)
	}
	for _, root := range g.roots {
		if d := root.depth(); d > opts.MaxExprDepth {
			t.Fatalf("root depth %d exceeds MaxExprDepth %d", d, opts.MaxExprDepth)
		}
	}
}

func TestRandGenomeNoCompatibleOutput(t *testing.T) {
	lang := floatLanguage(t)
	inputs := []genome.Input{{Name: "x", Type: typesys.Float}}
	opts := genome.DefaultOptions()
	rng := rand.New(rand.NewSource(2))

	_, err := RandGenome(inputs, nil, []typesys.Type{typesys.Bool}, lang, opts, rng)
	if err == nil {
		t.Fatal("expected NoCompatibleOutput error for a bool output over a float-only language")
	}
}

func TestCompileDeterministic(t *testing.T) {
	lang := floatLanguage(t)
	inputs := []genome.Input{{Name: "x", Type: typesys.Float}}
	opts := genome.DefaultOptions()
	rng := rand.New(rand.NewSource(3))

	g, err := RandGenome(inputs, nil, []typesys.Type{typesys.Float}, lang, opts, rng)
	if err != nil {
		t.Fatalf("RandGenome: %v", err)
	}
	callable := Compile(g)
	out1, err := callable([]dagnode.Value{dagnode.Float(2)})
	if err != nil {
		t.Fatalf("callable: %v", err)
	}
	out2, err := callable([]dagnode.Value{dagnode.Float(2)})
	if err != nil {
		t.Fatalf("callable: %v", err)
	}
	if out1[0].Float != out2[0].Float {
		t.Fatalf("evaluation not deterministic: %v vs %v", out1, out2)
	}

	again := Compile(g)
	// Comparing function values directly is not meaningful in Go; instead
	// verify the cache slot returned the exact same underlying value by
	// checking the fingerprint used to key it did not change.
	if Fingerprint(g) != g.meta.Fingerprint {
		t.Fatalf("fingerprint drifted without mutation")
	}
	_ = again
}

func TestMutateOnFailureReturnsOriginal(t *testing.T) {
	lang := floatLanguage(t)
	inputs := []genome.Input{{Name: "x", Type: typesys.Float}}
	opts := genome.DefaultOptions()
	// With a depth budget of 1 every position can only be regrown as a
	// terminal, and Mutate is given none, so every regrow fails.
	opts.MaxExprDepth = 1
	rng := rand.New(rand.NewSource(4))
	g, err := RandGenome(inputs, nil, []typesys.Type{typesys.Float}, lang, opts, rng)
	if err != nil {
		t.Fatalf("RandGenome: %v", err)
	}
	mutated := Mutate(g, lang, nil, rng)
	if mutated == nil {
		t.Fatal("Mutate returned nil")
	}
	if mutated != g {
		t.Fatal("expected the original genome back when no replacement can be grown")
	}
}

func init() {
	// Ensures the compile registry's built-ins are present even if this
	// package's tests run in isolation.
	_ = compile.ListPrimitives()
}
