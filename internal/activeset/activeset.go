// Package activeset computes the set of node references transitively
// reachable from a genome's outputs (§4.3). It is representation-generic:
// CGP and ICGP both address nodes by an int64 reference (index or id) and
// expose their function-node fan-in through the Graph interface below.
// Tree genomes have no dead nodes by construction (every node in a nested
// expression is an ancestor of some output) and do not use this package.
package activeset

// Graph is the minimal adjacency view active-set analysis needs: for a
// function-node reference, its ordered input references. Non-function
// nodes (Input/Constant/ERC) return nil.
type Graph interface {
	InRefs(ref int64) []int64
}

// Reachable returns the set of refs transitively reachable from outRefs,
// including the output refs themselves.
func Reachable(g Graph, outRefs []int64) map[int64]struct{} {
	active := make(map[int64]struct{}, len(outRefs)*2)
	stack := append([]int64(nil), outRefs...)
	for len(stack) > 0 {
		ref := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := active[ref]; seen {
			continue
		}
		active[ref] = struct{}{}
		for _, in := range g.InRefs(ref) {
			if _, seen := active[in]; !seen {
				stack = append(stack, in)
			}
		}
	}
	return active
}
