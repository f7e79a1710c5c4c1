// Package tree defines the language-neutral capability interface the
// evaluator uses to navigate and inspect a concrete syntax tree, plus
// the registry that maps source-language families to their adapters.
package tree

import "fmt"

// Node is an opaque handle to one node of a concrete syntax tree.
// Handles are produced by an Adapter and must be comparable: the
// evaluator deduplicates result sets by handle equality, and an
// adapter must hand out equal handles for the same underlying node.
// Two syntactically identical nodes at distinct source locations are
// different nodes.
type Node any

// Position is a line/column location in a source file, 1-based.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is the source extent of a node. Every node exposed through an
// adapter carries a range.
type Range struct {
	Filename string   `json:"file"`
	Start    Position `json:"start"`
	End      Position `json:"end"`
}

func (r Range) String() string {
	return fmt.Sprintf("%s:%d:%d", r.Filename, r.Start.Line, r.Start.Column)
}
