// Package icgp implements the ICGP genome variant of §3: a sorted map of
// nodes keyed by globally unique, monotonically increasing ids, where a
// function node's inputs are absolute ids strictly smaller than its own —
// the "ids strictly increasing along link direction" invariant of §8.
package icgp

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"dagforge/internal/activeset"
	"dagforge/internal/dagnode"
	"dagforge/internal/genome"
	"dagforge/internal/idgen"
	"dagforge/internal/langspec"
	"dagforge/internal/typesys"
)

var (
	ErrNoCompatibleOutput = errors.New("icgp: no compatible output")
	ErrNoTypedNode        = errors.New("icgp: no type-compatible node found")
)

// Genome is the id-keyed node store. ids is kept sorted ascending; new ids
// are always appended since the shared counter only issues increasing
// values, but a discard-and-regrow pass or atrophy can delete interior
// entries, so ids is maintained explicitly rather than derived from the map
// each time.
type Genome struct {
	inputs  []genome.Input
	nodes   map[int64]*dagnode.Node
	ids     []int64 // sorted ascending
	fixed   map[int64]bool
	outRefs []int64
	outType []typesys.Type
	lang    *langspec.Language
	opts    genome.Options
	meta    *genome.Meta
	idgen   *idgen.NodeIDs
	tstep   int
}

func (g *Genome) Inputs() []genome.Input   { return g.inputs }
func (g *Genome) OutTypes() []typesys.Type { return g.outType }
func (g *Genome) Lang() *langspec.Language { return g.lang }
func (g *Genome) Options() genome.Options  { return g.opts }
func (g *Genome) Meta() *genome.Meta       { return g.meta }
func (g *Genome) OutRefs() []int64         { return g.outRefs }
func (g *Genome) Timestep() int            { return g.tstep }
func (g *Genome) IDs() []int64             { return append([]int64(nil), g.ids...) }
func (g *Genome) Node(id int64) *dagnode.Node { return g.nodes[id] }

// InRefs implements activeset.Graph.
func (g *Genome) InRefs(ref int64) []int64 {
	n, ok := g.nodes[ref]
	if !ok || n.Kind != dagnode.Function {
		return nil
	}
	return n.In
}

// ActiveSet implements §4.3 for ICGP.
func (g *Genome) ActiveSet() map[int64]struct{} {
	return activeset.Reachable(g, g.outRefs)
}

// RandGenome implements §4.2's rand-genome for ICGP.
func RandGenome(inputs []genome.Input, constants []dagnode.Value, constTypes []typesys.Type, outTypes []typesys.Type, lang *langspec.Language, initialSize int, opts genome.Options, ids *idgen.NodeIDs, rng *rand.Rand) (*Genome, error) {
	g := &Genome{
		inputs: inputs,
		nodes:  make(map[int64]*dagnode.Node),
		fixed:  make(map[int64]bool),
		outType: outTypes,
		lang:   lang,
		opts:   opts,
		meta:   &genome.Meta{},
		idgen:  ids,
	}
	for _, in := range inputs {
		id := ids.Next()
		g.nodes[id] = &dagnode.Node{Kind: dagnode.Input, Name: in.Name, Type: in.Type}
		g.ids = append(g.ids, id)
		g.fixed[id] = true
	}
	for i, v := range constants {
		id := ids.Next()
		g.nodes[id] = &dagnode.Node{Kind: dagnode.Constant, Value: v, Type: constTypes[i]}
		g.ids = append(g.ids, id)
		g.fixed[id] = true
	}

	for len(g.ids) < initialSize {
		n, err := RandNode(g, nil, rng)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoTypedNode, err)
		}
		id := ids.Next()
		g.nodes[id] = n
		g.ids = append(g.ids, id)
	}

	for _, t := range outTypes {
		id, ok := randomIDOfType(g, g.ids, t, rng)
		if !ok {
			return nil, fmt.Errorf("%w: output type %s", ErrNoCompatibleOutput, t.Name())
		}
		g.outRefs = append(g.outRefs, id)
	}
	return g, nil
}

func randomIDOfType(g *Genome, pool []int64, want typesys.Type, rng *rand.Rand) (int64, bool) {
	var candidates []int64
	for _, id := range pool {
		if g.nodes[id].Type.IsSubtypeOf(want) {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[rng.Intn(len(candidates))], true
}

// clone deep-copies the genome. It shares the idgen counter (ids are
// process-global, not per-genome) but nothing else.
func clone(g *Genome) *Genome {
	cp := &Genome{
		inputs:  g.inputs,
		nodes:   make(map[int64]*dagnode.Node, len(g.nodes)),
		fixed:   g.fixed,
		outType: g.outType,
		lang:    g.lang,
		opts:    g.opts,
		meta:    &genome.Meta{},
		idgen:   g.idgen,
		tstep:   g.tstep,
	}
	for id, n := range g.nodes {
		nn := *n
		nn.In = append([]int64(nil), n.In...)
		nn.ArgTypes = append([]typesys.Type(nil), n.ArgTypes...)
		cp.nodes[id] = &nn
	}
	cp.ids = append([]int64(nil), g.ids...)
	sort.Slice(cp.ids, func(i, j int) bool { return cp.ids[i] < cp.ids[j] })
	cp.outRefs = append([]int64(nil), g.outRefs...)
	return cp
}

// downstreamOf returns every id transitively depending on id (excluding id
// itself), i.e. every node that could not survive were id's return type to
// change incompatibly.
func downstreamOf(g *Genome, id int64) []int64 {
	deps := make(map[int64][]int64) // id -> ids that reference it directly
	for _, other := range g.ids {
		n := g.nodes[other]
		if n.Kind != dagnode.Function {
			continue
		}
		for _, in := range n.In {
			deps[in] = append(deps[in], other)
		}
	}
	seen := make(map[int64]bool)
	var stack []int64
	stack = append(stack, deps[id]...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		stack = append(stack, deps[cur]...)
	}
	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
