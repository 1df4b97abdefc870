package tree

import (
	"math/rand"

	"dagforge/internal/langspec"
)

// trim implements §8's "Tree trim always produces max-depth(expr) ≤
// max-expr-depth": any subtree whose root sits deeper than maxDepth allows
// is replaced by a same-typed terminal drawn from terminals. When terminals
// holds no node of that subtree's type, the subtree is kept as it is, and
// the result can then exceed maxDepth.
func trim(n *Node, maxDepth int, _ *langspec.Language, terminals []*Node, rng *rand.Rand) *Node {
	if maxDepth <= 1 || len(n.Children) == 0 {
		if len(n.Children) == 0 {
			return n
		}
		compat := filterByType(terminals, n.Type)
		if len(compat) == 0 {
			return n
		}
		return compat[rng.Intn(len(compat))].clone()
	}
	for i, c := range n.Children {
		n.Children[i] = trim(c, maxDepth-1, nil, terminals, rng)
	}
	return n
}
