// Package goadapter adapts Go syntax trees to the language-neutral
// tree.Adapter interface. Gno shares Go's grammar, so one adapter
// serves both: .gno sources parse with the standard Go parser.
package goadapter

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/cygnusbill/treepath/tree"
)

// Tree is one parsed source file together with the per-tree state the
// adapter navigates: parent and child indexes built once at parse
// time, and the raw source for text extraction.
type Tree struct {
	filename string
	src      []byte
	fset     *token.FileSet
	file     *ast.File
	parents  map[ast.Node]ast.Node
	children map[ast.Node][]ast.Node
}

// Parse builds a Tree from a file. With non-nil src the file is not
// read from disk.
func Parse(filename string, src []byte) (*Tree, error) {
	if src == nil {
		content, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", filename, err)
		}
		src = content
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	t := &Tree{
		filename: filename,
		src:      src,
		fset:     fset,
		file:     file,
		parents:  make(map[ast.Node]ast.Node),
		children: make(map[ast.Node][]ast.Node),
	}
	t.index()
	return t, nil
}

// index records every node's parent and ordered children in one walk.
func (t *Tree) index() {
	var stack []ast.Node
	ast.Inspect(t.file, func(n ast.Node) bool {
		if n == nil {
			stack = stack[:len(stack)-1]
			return true
		}
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			t.parents[n] = parent
			t.children[parent] = append(t.children[parent], n)
		}
		stack = append(stack, n)
		return true
	})
}

// Root returns the file node as an adapter handle.
func (t *Tree) Root() tree.Node {
	return node{t: t, n: t.file}
}

// Filename returns the path the tree was parsed from.
func (t *Tree) Filename() string {
	return t.filename
}

// NodeAt returns the innermost node enclosing the given 1-based
// line/column, for callers that evaluate relative queries against a
// cursor position.
func (t *Tree) NodeAt(line, column int) (tree.Node, bool) {
	tf := t.fset.File(t.file.Pos())
	if tf == nil || line < 1 || line > tf.LineCount() {
		return nil, false
	}
	pos := tf.LineStart(line) + token.Pos(column-1)
	if pos < t.file.Pos() || pos > t.file.End() {
		return nil, false
	}

	path, _ := astutil.PathEnclosingInterval(t.file, pos, pos)
	if len(path) == 0 {
		return nil, false
	}
	return node{t: t, n: path[0]}, true
}

// textOf slices the node's source text out of the original input.
func (t *Tree) textOf(n ast.Node) string {
	start := t.fset.Position(n.Pos()).Offset
	end := t.fset.Position(n.End()).Offset
	if start < 0 || end > len(t.src) || start > end {
		return ""
	}
	return string(t.src[start:end])
}

// node is the adapter handle: a (tree, ast node) pair. Handles are
// values so that two handles for the same underlying node compare
// equal, which is what result deduplication relies on.
type node struct {
	t *Tree
	n ast.Node
}
