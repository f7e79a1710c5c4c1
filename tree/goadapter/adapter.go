package goadapter

import (
	"go/ast"
	"go/token"
	"strings"

	"github.com/cygnusbill/treepath/tree"
)

// Adapter implements tree.Adapter for Go and Gno sources. It is a
// stateless value; construct it once and share it freely.
type Adapter struct{}

var _ tree.Adapter = Adapter{}

// New returns the Go adapter.
func New() Adapter { return Adapter{} }

func (Adapter) Language() string { return "go" }

func (Adapter) Capabilities() tree.Capability {
	return tree.CapChildren | tree.CapParent
}

func (Adapter) Children(n tree.Node) []tree.Node {
	h := n.(node)
	kids := h.t.children[h.n]
	out := make([]tree.Node, len(kids))
	for i, k := range kids {
		out[i] = node{t: h.t, n: k}
	}
	return out
}

func (Adapter) Parent(n tree.Node) (tree.Node, bool) {
	h := n.(node)
	parent, ok := h.t.parents[h.n]
	if !ok {
		return nil, false
	}
	return node{t: h.t, n: parent}, true
}

func (Adapter) Kind(n tree.Node) string {
	return fineKind(n.(node).n)
}

func (Adapter) Coarse(n tree.Node) string {
	return coarseKind(n.(node).n)
}

func (Adapter) Name(n tree.Node) (string, bool) {
	return declaredName(n.(node).n)
}

func (Adapter) Range(n tree.Node) tree.Range {
	h := n.(node)
	start := h.t.fset.Position(h.n.Pos())
	end := h.t.fset.Position(h.n.End())
	return tree.Range{
		Filename: start.Filename,
		Start:    tree.Position{Line: start.Line, Column: start.Column},
		End:      tree.Position{Line: end.Line, Column: end.Column},
	}
}

func (a Adapter) Attribute(n tree.Node, key string) (string, bool) {
	h := n.(node)
	switch key {
	case tree.AttrName:
		return declaredName(h.n)
	case tree.AttrKind:
		return fineKind(h.n), true
	case tree.AttrText:
		return h.t.textOf(h.n), true
	case tree.AttrPublic:
		if name, ok := declaredName(h.n); ok {
			return boolValue(ast.IsExported(name)), true
		}
		return "", false
	case tree.AttrPrivate:
		if name, ok := declaredName(h.n); ok {
			return boolValue(!ast.IsExported(name)), true
		}
		return "", false
	case tree.AttrType:
		return typeText(h)
	case tree.AttrReturns:
		if fn, ok := h.n.(*ast.FuncDecl); ok && fn.Type.Results != nil {
			return h.t.textOf(fn.Type.Results), true
		}
		return "", false
	case tree.AttrReceiver:
		if fn, ok := h.n.(*ast.FuncDecl); ok && fn.Recv != nil && len(fn.Recv.List) > 0 {
			return h.t.textOf(fn.Recv.List[0].Type), true
		}
		return "", false
	case tree.AttrOperator:
		return operatorText(h.n)
	case tree.AttrValue:
		if lit, ok := h.n.(*ast.BasicLit); ok {
			return lit.Value, true
		}
		return "", false
	case tree.AttrLeft:
		return operandText(h, true)
	case tree.AttrRight:
		return operandText(h, false)
	case tree.AttrTag:
		if field, ok := h.n.(*ast.Field); ok && field.Tag != nil {
			return field.Tag.Value, true
		}
		return "", false
	default:
		// Unrecognized keys are absent, never an error.
		return "", false
	}
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func typeText(h node) (string, bool) {
	switch n := h.n.(type) {
	case *ast.Field:
		return h.t.textOf(n.Type), true
	case *ast.ValueSpec:
		if n.Type != nil {
			return h.t.textOf(n.Type), true
		}
	case *ast.TypeSpec:
		return h.t.textOf(n.Type), true
	case *ast.FuncDecl:
		return h.t.textOf(n.Type), true
	}
	return "", false
}

func operatorText(n ast.Node) (string, bool) {
	switch expr := n.(type) {
	case *ast.BinaryExpr:
		return expr.Op.String(), true
	case *ast.UnaryExpr:
		return expr.Op.String(), true
	case *ast.AssignStmt:
		return expr.Tok.String(), true
	case *ast.IncDecStmt:
		return expr.Tok.String(), true
	}
	return "", false
}

func operandText(h node, left bool) (string, bool) {
	switch expr := h.n.(type) {
	case *ast.BinaryExpr:
		if left {
			return h.t.textOf(expr.X), true
		}
		return h.t.textOf(expr.Y), true
	case *ast.AssignStmt:
		var parts []string
		exprs := expr.Rhs
		if left {
			exprs = expr.Lhs
		}
		for _, e := range exprs {
			parts = append(parts, h.t.textOf(e))
		}
		return strings.Join(parts, ", "), true
	}
	return "", false
}

// declaredName returns the identifier a declaration introduces.
// Non-declarations have no name.
func declaredName(n ast.Node) (string, bool) {
	switch decl := n.(type) {
	case *ast.File:
		return decl.Name.Name, true
	case *ast.FuncDecl:
		return decl.Name.Name, true
	case *ast.TypeSpec:
		return decl.Name.Name, true
	case *ast.Field:
		if len(decl.Names) > 0 {
			return decl.Names[0].Name, true
		}
	case *ast.ValueSpec:
		if len(decl.Names) > 0 {
			return decl.Names[0].Name, true
		}
	case *ast.ImportSpec:
		if decl.Name != nil {
			return decl.Name.Name, true
		}
		return strings.Trim(decl.Path.Value, `"`), true
	case *ast.LabeledStmt:
		return decl.Label.Name, true
	}
	return "", false
}

// fineKind maps an ast node to its fine-grained kind tag.
func fineKind(n ast.Node) string {
	switch decl := n.(type) {
	case *ast.File:
		return "file"
	case *ast.FuncDecl:
		if decl.Recv != nil {
			return "method"
		}
		return "func"
	case *ast.FuncLit:
		return "func-lit"
	case *ast.GenDecl:
		switch decl.Tok {
		case token.IMPORT:
			return "import-decl"
		case token.CONST:
			return "const-decl"
		case token.VAR:
			return "var-decl"
		default:
			return "type-decl"
		}
	case *ast.TypeSpec:
		switch decl.Type.(type) {
		case *ast.StructType:
			return "struct"
		case *ast.InterfaceType:
			return "interface"
		default:
			return "type"
		}
	case *ast.ValueSpec:
		return "value-spec"
	case *ast.ImportSpec:
		return "import"
	case *ast.Field:
		return "field"
	case *ast.FieldList:
		return "field-list"

	case *ast.BlockStmt:
		return "block"
	case *ast.IfStmt:
		return "if-statement"
	case *ast.ForStmt:
		return "for-statement"
	case *ast.RangeStmt:
		return "range-statement"
	case *ast.ReturnStmt:
		return "return-statement"
	case *ast.SwitchStmt:
		return "switch-statement"
	case *ast.TypeSwitchStmt:
		return "type-switch-statement"
	case *ast.SelectStmt:
		return "select-statement"
	case *ast.CaseClause:
		return "case-clause"
	case *ast.CommClause:
		return "comm-clause"
	case *ast.GoStmt:
		return "go-statement"
	case *ast.DeferStmt:
		return "defer-statement"
	case *ast.AssignStmt:
		return "assign-statement"
	case *ast.ExprStmt:
		return "expression-statement"
	case *ast.DeclStmt:
		return "declaration-statement"
	case *ast.BranchStmt:
		return "branch-statement"
	case *ast.LabeledStmt:
		return "labeled-statement"
	case *ast.SendStmt:
		return "send-statement"
	case *ast.IncDecStmt:
		return "incdec-statement"
	case *ast.EmptyStmt:
		return "empty-statement"

	case *ast.BinaryExpr:
		return "binary-expression"
	case *ast.UnaryExpr:
		return "unary-expression"
	case *ast.CallExpr:
		return "call-expression"
	case *ast.SelectorExpr:
		return "selector-expression"
	case *ast.IndexExpr:
		return "index-expression"
	case *ast.SliceExpr:
		return "slice-expression"
	case *ast.StarExpr:
		return "star-expression"
	case *ast.ParenExpr:
		return "paren-expression"
	case *ast.TypeAssertExpr:
		return "type-assert-expression"
	case *ast.CompositeLit:
		return "composite-literal"
	case *ast.KeyValueExpr:
		return "key-value-expression"
	case *ast.BasicLit:
		return "literal"
	case *ast.Ident:
		return "identifier"
	case *ast.Ellipsis:
		return "ellipsis"

	case *ast.ArrayType:
		return "array-type"
	case *ast.MapType:
		return "map-type"
	case *ast.ChanType:
		return "chan-type"
	case *ast.FuncType:
		return "func-type"
	case *ast.StructType:
		return "struct-type"
	case *ast.InterfaceType:
		return "interface-type"

	case *ast.Comment, *ast.CommentGroup:
		return "comment"
	default:
		return "node"
	}
}

// coarseKind maps an ast node to its broad structural category.
func coarseKind(n ast.Node) string {
	switch n.(type) {
	case *ast.File:
		return "file"
	case ast.Stmt:
		return "statement"
	case ast.Expr:
		return "expression"
	case ast.Decl, *ast.TypeSpec, *ast.ValueSpec, *ast.ImportSpec:
		return "declaration"
	case *ast.Field:
		return "field"
	case *ast.Comment, *ast.CommentGroup:
		return "comment"
	default:
		return "node"
	}
}
