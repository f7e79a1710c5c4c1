// Package query implements the path-expression language used to locate
// nodes inside a parsed source tree.
//
// A path expression is a sequence of steps separated by '/' (child) or
// '//' (descendant). Each step names an axis, a node test, and zero or
// more bracketed predicates:
//
//	//method[@async and @public]
//	/child::class[@name='Bar']
//	//if-statement[.//throw-statement]
//	//block/statement[last()-1]
//
// The package is self-contained: it knows nothing about concrete syntax
// trees. Lexing and parsing produce an immutable PathExpression that the
// evaluator executes against a tree through a tree.Adapter.
package query
