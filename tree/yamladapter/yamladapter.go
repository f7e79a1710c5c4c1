// Package yamladapter adapts YAML document trees to the tree.Adapter
// interface. YAML is structurally different from the statement-
// oriented grammars: its nodes model no upward links, so the parent,
// ancestor, sibling, following and preceding axes are a declared
// capability gap (the adapter omits tree.CapParent) rather than a
// silent empty answer.
package yamladapter

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cygnusbill/treepath/tree"
)

// Document is one parsed YAML file.
type Document struct {
	filename string
	root     *yaml.Node
}

// Parse decodes a YAML document from src.
func Parse(filename string, src []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return &Document{filename: filename, root: &root}, nil
}

// Root returns the document node as an adapter handle.
func (d *Document) Root() tree.Node {
	return node{doc: d, n: d.root}
}

// node pairs a yaml node with its document and, for mapping values,
// the key it hangs under. Handles are comparable values.
type node struct {
	doc *Document
	n   *yaml.Node
	key string
}

// Adapter implements tree.Adapter for YAML documents.
type Adapter struct{}

var _ tree.Adapter = Adapter{}

// New returns the YAML adapter.
func New() Adapter { return Adapter{} }

func (Adapter) Language() string { return "yaml" }

func (Adapter) Capabilities() tree.Capability {
	return tree.CapChildren
}

// Children flattens mapping entries into their value nodes, carrying
// the key as the child's name, so /server/port navigates a config the
// way /class/method navigates code.
func (Adapter) Children(n tree.Node) []tree.Node {
	h := n.(node)
	switch h.n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		out := make([]tree.Node, len(h.n.Content))
		for i, c := range h.n.Content {
			out[i] = node{doc: h.doc, n: c}
		}
		return out
	case yaml.MappingNode:
		out := make([]tree.Node, 0, len(h.n.Content)/2)
		for i := 0; i+1 < len(h.n.Content); i += 2 {
			key, value := h.n.Content[i], h.n.Content[i+1]
			out = append(out, node{doc: h.doc, n: value, key: key.Value})
		}
		return out
	default:
		return nil
	}
}

// Parent is unimplemented: yaml nodes carry no upward links. The
// missing CapParent bit lets the evaluator refuse parent-family axes
// explicitly instead of answering with a misleading empty set.
func (Adapter) Parent(tree.Node) (tree.Node, bool) {
	return nil, false
}

func (Adapter) Kind(n tree.Node) string {
	switch n.(node).n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "node"
	}
}

func (a Adapter) Coarse(n tree.Node) string {
	switch n.(node).n.Kind {
	case yaml.ScalarNode, yaml.AliasNode:
		return "value"
	default:
		return a.Kind(n)
	}
}

// Name is the mapping key the node hangs under; sequence items and
// the document itself are unnamed.
func (Adapter) Name(n tree.Node) (string, bool) {
	h := n.(node)
	if h.key == "" {
		return "", false
	}
	return h.key, true
}

func (Adapter) Attribute(n tree.Node, key string) (string, bool) {
	h := n.(node)
	switch key {
	case tree.AttrName:
		if h.key == "" {
			return "", false
		}
		return h.key, true
	case tree.AttrKind:
		return Adapter{}.Kind(n), true
	case tree.AttrValue, tree.AttrText:
		if h.n.Kind == yaml.ScalarNode {
			return h.n.Value, true
		}
		return "", false
	case tree.AttrTag:
		return h.n.Tag, true
	case tree.AttrAnchor:
		if h.n.Anchor == "" {
			return "", false
		}
		return h.n.Anchor, true
	default:
		return "", false
	}
}

func (Adapter) Range(n tree.Node) tree.Range {
	h := n.(node)
	pos := tree.Position{Line: h.n.Line, Column: h.n.Column}
	return tree.Range{Filename: h.doc.filename, Start: pos, End: pos}
}
