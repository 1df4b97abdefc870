// Package cgp implements the CGP genome variant of §3: a flat, indexed
// vector of nodes where a function node's input references are relative
// back-offsets (index - offset gives the source index), guaranteeing
// acyclicity by construction as long as every offset is positive.
package cgp

import (
	"errors"
	"fmt"
	"math/rand"

	"dagforge/internal/activeset"
	"dagforge/internal/dagnode"
	"dagforge/internal/genome"
	"dagforge/internal/langspec"
	"dagforge/internal/typesys"
)

// ErrNoCompatibleOutput mirrors §7: rand-genome could not find a node of a
// demanded output type.
var ErrNoCompatibleOutput = errors.New("cgp: no compatible output")

// ErrNoTypedNode mirrors §7: rand-node exhausted its retry budget.
var ErrNoTypedNode = errors.New("cgp: no type-compatible node found")

// Genome is the flat node vector. Indices [0, len(inputs)) are Input
// nodes, followed by any fixed constants, followed by the grown/mutated
// function and ERC nodes. OutRefs holds absolute indices.
type Genome struct {
	inputs   []genome.Input
	nodes    []*dagnode.Node
	fixedLen int // inputs + constants: never touched by mutation or drift
	outRefs  []int64
	outType  []typesys.Type
	lang     *langspec.Language
	opts     genome.Options
	meta     *genome.Meta
}

func (g *Genome) Inputs() []genome.Input   { return g.inputs }
func (g *Genome) OutTypes() []typesys.Type { return g.outType }
func (g *Genome) Lang() *langspec.Language { return g.lang }
func (g *Genome) Options() genome.Options  { return g.opts }
func (g *Genome) Meta() *genome.Meta       { return g.meta }
func (g *Genome) Len() int                 { return len(g.nodes) }
func (g *Genome) Node(i int) *dagnode.Node { return g.nodes[i] }
func (g *Genome) OutRefs() []int64         { return g.outRefs }

// InRefs implements activeset.Graph: converts index i's relative offsets
// into absolute source indices.
func (g *Genome) InRefs(ref int64) []int64 {
	n := g.nodes[ref]
	if n.Kind != dagnode.Function {
		return nil
	}
	abs := make([]int64, len(n.In))
	for k, offset := range n.In {
		abs[k] = ref - offset
	}
	return abs
}

// ActiveSet implements §4.3 for CGP.
func (g *Genome) ActiveSet() map[int64]struct{} {
	return activeset.Reachable(g, g.outRefs)
}

// RandGenome implements §4.2's rand-genome for CGP: seeds input and
// constant nodes, appends initialSize-|fixed| random function/ERC nodes,
// then initialises outputs by typed random selection over existing nodes.
func RandGenome(inputs []genome.Input, constants []dagnode.Value, constTypes []typesys.Type, outTypes []typesys.Type, lang *langspec.Language, initialSize int, opts genome.Options, rng *rand.Rand) (*Genome, error) {
	g := &Genome{inputs: inputs, outType: outTypes, lang: lang, opts: opts, meta: &genome.Meta{}}
	for _, in := range inputs {
		g.nodes = append(g.nodes, &dagnode.Node{Kind: dagnode.Input, Name: in.Name, Type: in.Type})
	}
	for i, v := range constants {
		g.nodes = append(g.nodes, &dagnode.Node{Kind: dagnode.Constant, Value: v, Type: constTypes[i]})
	}
	g.fixedLen = len(g.nodes)

	for len(g.nodes) < initialSize {
		idx := int64(len(g.nodes))
		n, err := RandNode(g, idx, rng)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoTypedNode, err)
		}
		g.nodes = append(g.nodes, n)
	}

	for _, t := range outTypes {
		ref, ok := randomNodeOfType(g, int64(len(g.nodes)), t, rng)
		if !ok {
			return nil, fmt.Errorf("%w: output type %s", ErrNoCompatibleOutput, t.Name())
		}
		g.outRefs = append(g.outRefs, ref)
	}
	return g, nil
}

func randomNodeOfType(g *Genome, upTo int64, want typesys.Type, rng *rand.Rand) (int64, bool) {
	var candidates []int64
	for i := int64(0); i < upTo; i++ {
		if g.nodes[i].Type.IsSubtypeOf(want) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[rng.Intn(len(candidates))], true
}

func clone(g *Genome) *Genome {
	cp := &Genome{
		inputs:   g.inputs,
		fixedLen: g.fixedLen,
		outType:  g.outType,
		lang:     g.lang,
		opts:     g.opts,
		meta:     &genome.Meta{},
	}
	cp.nodes = make([]*dagnode.Node, len(g.nodes))
	for i, n := range g.nodes {
		nn := *n
		nn.In = append([]int64(nil), n.In...)
		nn.ArgTypes = append([]typesys.Type(nil), n.ArgTypes...)
		cp.nodes[i] = &nn
	}
	cp.outRefs = append([]int64(nil), g.outRefs...)
	return cp
}
