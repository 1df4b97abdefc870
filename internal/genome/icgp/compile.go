package icgp

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"dagforge/internal/compile"
	"dagforge/internal/dagnode"
)

// Compile implements §4.4 for ICGP. Node identities are stable (mutation
// retires and replaces ids rather than mutating in place), so the cache
// fingerprint only needs to cover the output-ref set: any structural
// change downstream of an output is guaranteed to change that output's id
// via bump (§4.5.3).
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
	// Inputs are addressed by their own stable ids, in ascending id order,
	// which matches the order they were inserted at genome construction.
	inputIDs := make([]int64, 0, len(g.inputs))
	for _, id := range g.ids {
		if g.nodes[id].Kind == dagnode.Input {
			inputIDs = append(inputIDs, id)
		}
	}
	prog.InputRefs = inputIDs

	activeIDs := make([]int64, 0, len(active))
	for id := range active {
		activeIDs = append(activeIDs, id)
	}
	sort.Slice(activeIDs, func(i, j int) bool { return activeIDs[i] < activeIDs[j] })

	for _, id := range activeIDs {
		n := g.nodes[id]
		switch n.Kind {
		case dagnode.Input:
			prog.Steps = append(prog.Steps, compile.Step{Ref: id, IsInput: true})
		case dagnode.Constant, dagnode.ERC:
			prog.Steps = append(prog.Steps, compile.Step{Ref: id, Literal: n.Value})
		case dagnode.Function:
			prog.Steps = append(prog.Steps, compile.Step{Ref: id, Prim: n.Name, ArgRefs: n.In})
		}
	}
	return prog
}

// Fingerprint hashes the ordered output-ref set.
func Fingerprint(g *Genome) string {
	var b strings.Builder
	for _, o := range g.outRefs {
		b.WriteString(strconv.FormatInt(o, 10))
		b.WriteByte(',')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
