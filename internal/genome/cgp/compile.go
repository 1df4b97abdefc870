package cgp

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"dagforge/internal/compile"
	"dagforge/internal/dagnode"
)

// Compile implements §4.4 for CGP: compute the active set, build a
// topologically-ordered straight-line program (indices are already a valid
// topological order since every link points to a strictly earlier index),
// and cache it against a fingerprint of the active substructure.
func Compile(g *Genome) *compile.Program {
	fp := Fingerprint(g)
	compiled := g.meta.Recache(fp, g.opts.ForceRecache, func() interface{} {
		return build(g)
	})
	return compiled.(*compile.Program)
}

func build(g *Genome) *compile.Program {
	active := g.ActiveSet()
	prog := &compile.Program{OutRefs: append([]int64(nil), g.outRefs...)}
	for i, in := range g.inputs {
		_ = in
		prog.InputRefs = append(prog.InputRefs, int64(i))
	}
	for i := int64(0); i < int64(len(g.nodes)); i++ {
		if _, ok := active[i]; !ok {
			continue
		}
		n := g.nodes[i]
		switch n.Kind {
		case dagnode.Input:
			prog.Steps = append(prog.Steps, compile.Step{Ref: i, IsInput: true})
		case dagnode.Constant, dagnode.ERC:
			prog.Steps = append(prog.Steps, compile.Step{Ref: i, Literal: n.Value})
		case dagnode.Function:
			prog.Steps = append(prog.Steps, compile.Step{Ref: i, Prim: n.Name, ArgRefs: g.InRefs(i)})
		}
	}
	return prog
}

// Fingerprint hashes the active substructure only: two genomes whose active
// sets compile to the same straight-line program share a fingerprint even
// if their inactive nodes differ, matching §4.4's caching contract.
func Fingerprint(g *Genome) string {
	active := g.ActiveSet()
	refs := make([]int64, 0, len(active))
	for r := range active {
		refs = append(refs, r)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })

	var b strings.Builder
	for _, r := range refs {
		n := g.nodes[r]
		fmt.Fprintf(&b, "%d:%d:%s:", r, n.Kind, n.Name)
		for _, in := range g.InRefs(r) {
			b.WriteString(strconv.FormatInt(in, 10))
			b.WriteByte(',')
		}
		writeValue(&b, n.Value)
		b.WriteByte(';')
	}
	for _, o := range g.outRefs {
		b.WriteString("out:")
		b.WriteString(strconv.FormatInt(o, 10))
		b.WriteByte(';')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeValue(b *strings.Builder, v dagnode.Value) {
	switch v.Kind {
	case dagnode.KindInt:
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case dagnode.KindFloat:
		b.WriteString(strconv.FormatFloat(v.Float, 'g', -1, 64))
	case dagnode.KindBool:
		b.WriteString(strconv.FormatBool(v.Bool))
	case dagnode.KindTag:
		b.WriteString(v.Tag)
	}
}
