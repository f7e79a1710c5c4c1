package tree

// Capability is a bitmask of the navigation operations an adapter
// actually implements. An axis an adapter cannot serve is a capability
// gap, distinguishable from an axis that is legitimately empty at some
// node; the evaluator reports it as an explicit unsupported-axis error
// instead of silently returning nothing.
type Capability uint8

const (
	// CapChildren covers the child, descendant and descendant-or-self
	// axes. Every adapter must provide it.
	CapChildren Capability = 1 << iota
	// CapParent covers the parent, ancestor, sibling, following and
	// preceding axes, all of which require upward links.
	CapParent
)

// Has reports whether all bits of want are present.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// Adapter is the capability interface between the evaluator and one
// source-language family's concrete tree shape. Implementations are
// stateless values constructed once per language family; all per-tree
// state (parent indexes, file positions, source text) lives in the
// tree the node handles belong to.
//
// Adapter methods may panic while classifying or inspecting a node;
// the evaluator contains such faults per node. They must not block or
// perform I/O.
type Adapter interface {
	// Language identifies the source-language family, e.g. "go".
	Language() string

	// Capabilities reports which navigation operations the adapter
	// implements.
	Capabilities() Capability

	// Children returns the node's direct children in source order.
	Children(n Node) []Node

	// Parent returns the node's parent, or false at the root (or for
	// adapters without CapParent).
	Parent(n Node) (Node, bool)

	// Kind returns the node's fine-grained kind tag, e.g.
	// "if-statement" or "binary-expression".
	Kind(n Node) string

	// Coarse returns the node's coarse classification, e.g.
	// "statement" or "expression". May equal Kind for nodes without a
	// broader category.
	Coarse(n Node) string

	// Name returns the node's declared identifier, for declarations
	// only. The second return value is false for unnamed nodes.
	Name(n Node) (string, bool)

	// Attribute extracts a named attribute value. Unrecognized keys
	// return false, never an error: absence is a legitimate answer.
	Attribute(n Node, key string) (string, bool)

	// Range returns the node's source extent.
	Range(n Node) Range
}
