package icgp

import (
	"math/rand"
	"testing"

	"dagforge/internal/dagnode"
	"dagforge/internal/genome"
	"dagforge/internal/idgen"
	"dagforge/internal/langspec"
	"dagforge/internal/typesys"
)

func floatLanguage(t *testing.T) *langspec.Language {
	t.Helper()
	lang, err := langspec.New([]langspec.Entry{
		{Func: &langspec.FuncSpec{Name: "add", Return: typesys.Float, Args: []typesys.Type{typesys.Float, typesys.Float}}},
		{Func: &langspec.FuncSpec{Name: "mul", Return: typesys.Float, Args: []typesys.Type{typesys.Float, typesys.Float}}},
	})
	if err != nil {
		t.Fatalf("floatLanguage: %v", err)
	}
	return lang
}

func newTestGenome(t *testing.T) (*Genome, *idgen.NodeIDs) {
	t.Helper()
	lang := floatLanguage(t)
	inputs := []genome.Input{{Name: "x", Type: typesys.Float}, {Name: "y", Type: typesys.Float}}
	opts := genome.DefaultOptions()
	ids := idgen.NewNodeIDs()
	rng := rand.New(rand.NewSource(9))
	g, err := RandGenome(inputs, []dagnode.Value{dagnode.Float(1)}, []typesys.Type{typesys.Float}, []typesys.Type{typesys.Float}, lang, 12, opts, ids, rng)
	if err != nil {
		t.Fatalf("RandGenome: %v", err)
	}
	return g, ids
}

func checkInvariants(t *testing.T, g *Genome) {
	t.Helper()
	for id, n := range g.nodes {
		if n.Kind != dagnode.Function {
			continue
		}
		if len(n.In) != n.Arity() {
			t.Fatalf("node %d arity mismatch", id)
		}
		for k, in := range n.In {
			if in >= id {
				t.Fatalf("node %d input %d is not strictly earlier (%d)", id, k, in)
			}
			if !g.nodes[in].Type.IsSubtypeOf(n.ArgTypes[k]) {
				t.Fatalf("node %d input %d type mismatch", id, k)
			}
		}
	}
	active := g.ActiveSet()
	for _, out := range g.outRefs {
		if _, ok := active[out]; !ok {
			t.Fatalf("output ref %d not active", out)
		}
	}
}

func TestRandGenomeInvariants(t *testing.T) {
	g, _ := newTestGenome(t)
	checkInvariants(t, g)
}

func TestMutatePreservesInvariants(t *testing.T) {
	g, _ := newTestGenome(t)
	rng := rand.New(rand.NewSource(21))
	for i := 0; i < 30; i++ {
		g = Mutate(g, rng)
		checkInvariants(t, g)
	}
}

func TestCompileCacheIdentity(t *testing.T) {
	g, _ := newTestGenome(t)
	p1 := Compile(g)
	p2 := Compile(g)
	if p1 != p2 {
		t.Fatal("expected identical cached program pointer")
	}
}

func TestTickAdvancesTimestep(t *testing.T) {
	g, _ := newTestGenome(t)
	next := Tick(g)
	if next.Timestep() != g.Timestep()+1 {
		t.Fatalf("expected timestep to advance by 1, got %d -> %d", g.Timestep(), next.Timestep())
	}
}
