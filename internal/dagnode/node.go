package dagnode

import "dagforge/internal/typesys"

// NodeKind discriminates the four node flavours of §3: Input, Constant,
// Function, ERC.
type NodeKind int

const (
	Input NodeKind = iota
	Constant
	Function
	ERC
)

// Node is the tagged record shared by the CGP and ICGP node stores. Tree
// genomes use their own recursive Node type (internal/genome/tree) since a
// nested expression has no use for index/id back-links. That type mirrors
// the fields below except that it holds Children in place of In and has no
// LastUse, so the two representations read the same way to a maintainer
// moving between them.
//
// In is the ordered vector of input references for Function nodes. Its
// element type is int64 in both back-link flavours: CGP genomes store a
// relative offset there (own index minus In[k] gives the source index),
// ICGP genomes store an absolute node id.
type Node struct {
	Kind     NodeKind
	Name     string // Input display name, or Function symbol
	Type     typesys.Type
	Value    Value // Constant / ERC payload
	ArgTypes []typesys.Type
	In       []int64
	LastUse  int
}

func (n *Node) Arity() int { return len(n.ArgTypes) }
