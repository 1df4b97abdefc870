package main

import (
	"math/rand"
	"testing"

	"dagforge/internal/genome"
	"dagforge/internal/genome/tree"
	"dagforge/internal/typesys"
)

func TestDemoLanguageBuildsWithoutError(t *testing.T) {
	lang, err := demoLanguage()
	if err != nil {
		t.Fatalf("demoLanguage: %v", err)
	}
	if lang == nil {
		t.Fatal("demoLanguage returned nil language")
	}
	if len(lang.Entries()) == 0 {
		t.Fatal("demoLanguage returned a language with no entries")
	}
}

func TestTargetFitnessScoresRandomGenomeAsNonPositive(t *testing.T) {
	lang, err := demoLanguage()
	if err != nil {
		t.Fatalf("demoLanguage: %v", err)
	}
	inputs := []genome.Input{{Name: "x", Type: typesys.Float}}
	rng := rand.New(rand.NewSource(1))
	g, err := tree.RandGenome(inputs, nil, []typesys.Type{typesys.Float}, lang, genome.DefaultOptions(), rng)
	if err != nil {
		t.Fatalf("RandGenome: %v", err)
	}

	fitness := targetFitness()
	score, err := fitness(g)
	if err != nil {
		t.Fatalf("fitness: %v", err)
	}
	// targetFitness reports -MSE, so any genome (perfect or not) scores
	// at most zero.
	if score > 0 {
		t.Errorf("fitness = %v, want <= 0 (negative mean squared error)", score)
	}
}

func TestTargetFitnessIsDeterministicForTheSameGenome(t *testing.T) {
	lang, err := demoLanguage()
	if err != nil {
		t.Fatalf("demoLanguage: %v", err)
	}
	inputs := []genome.Input{{Name: "x", Type: typesys.Float}}
	rng := rand.New(rand.NewSource(7))
	g, err := tree.RandGenome(inputs, nil, []typesys.Type{typesys.Float}, lang, genome.DefaultOptions(), rng)
	if err != nil {
		t.Fatalf("RandGenome: %v", err)
	}

	fitness := targetFitness()
	first, err := fitness(g)
	if err != nil {
		t.Fatalf("fitness: %v", err)
	}
	second, err := fitness(g)
	if err != nil {
		t.Fatalf("fitness: %v", err)
	}
	if first != second {
		t.Errorf("fitness(g) is not deterministic: %v != %v", first, second)
	}
}
