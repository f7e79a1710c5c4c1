package eval

import (
	"path"
	"strings"

	"github.com/cygnusbill/treepath/query"
	"github.com/cygnusbill/treepath/tree"
)

// evalPredicate tests one boolean predicate against one candidate
// node. Adapter faults during attribute extraction are contained and
// read as "attribute absent", i.e. predicate false for that node.
// Position predicates never reach here; the step loop consumes them.
func (c *evalContext) evalPredicate(p query.Predicate, n tree.Node) bool {
	switch pred := p.(type) {
	case *query.AndPredicate:
		return c.evalPredicate(pred.Left, n) && c.evalPredicate(pred.Right, n)

	case *query.OrPredicate:
		return c.evalPredicate(pred.Left, n) || c.evalPredicate(pred.Right, n)

	case *query.NotPredicate:
		return !c.evalPredicate(pred.Inner, n)

	case *query.AttributePredicate:
		return c.evalAttribute(pred, n)

	case *query.BooleanAttributePredicate:
		value, ok := c.safeAttribute(n, pred.Name)
		return ok && strings.EqualFold(value, "true")

	case *query.NamePredicate:
		name, ok := c.safeName(n)
		return ok && matchPattern(pred.Pattern, name)

	case *query.NestedPathPredicate:
		// A malformed or failing nested sub-path is predicate-false
		// for this candidate, never fatal for the outer query.
		results, err := c.evalNested(pred.Path, n)
		return err == nil && len(results) > 0

	case *query.CallPredicate:
		return c.evalCall(pred, n)

	default:
		return false
	}
}

func (c *evalContext) evalAttribute(pred *query.AttributePredicate, n tree.Node) bool {
	// @contains is virtual: a substring test over the node's source
	// text rather than a stored attribute.
	if pred.Name == tree.AttrContains && (pred.Op == query.OpEqual || pred.Op == query.OpContains) {
		text, ok := c.safeAttribute(n, tree.AttrText)
		return ok && strings.Contains(text, pred.Value)
	}

	value, ok := c.safeAttribute(n, pred.Name)
	if !ok {
		return false
	}

	switch pred.Op {
	case query.OpEqual:
		return strings.EqualFold(value, pred.Value)
	case query.OpNotEqual:
		return !strings.EqualFold(value, pred.Value)
	case query.OpContains:
		return strings.Contains(strings.ToLower(value), strings.ToLower(pred.Value))
	case query.OpLess:
		return strings.ToLower(value) < strings.ToLower(pred.Value)
	case query.OpLessEq:
		return strings.ToLower(value) <= strings.ToLower(pred.Value)
	case query.OpGreater:
		return strings.ToLower(value) > strings.ToLower(pred.Value)
	case query.OpGreaterEq:
		return strings.ToLower(value) >= strings.ToLower(pred.Value)
	default:
		return false
	}
}

// evalNested runs a sub-path with the candidate as context node,
// sharing the outer call's visit budget.
func (c *evalContext) evalNested(expr *query.PathExpression, n tree.Node) ([]tree.Node, error) {
	context, err := c.resolveContext(expr, n)
	if err != nil {
		return nil, err
	}
	return c.evalPath(expr, context)
}

// evalCall implements the argumented string functions. Unknown
// functions and wrong arities are false, mirroring how unknown
// attributes read as absent.
func (c *evalContext) evalCall(pred *query.CallPredicate, n tree.Node) bool {
	if len(pred.Args) != 2 {
		return false
	}
	left, ok := c.resolveArg(pred.Args[0], n)
	if !ok {
		return false
	}
	right, ok := c.resolveArg(pred.Args[1], n)
	if !ok {
		return false
	}

	switch pred.Func {
	case "contains":
		return strings.Contains(left, right)
	case "starts-with":
		return strings.HasPrefix(left, right)
	case "ends-with":
		return strings.HasSuffix(left, right)
	default:
		return false
	}
}

func (c *evalContext) resolveArg(arg query.Arg, n tree.Node) (string, bool) {
	switch arg.Kind {
	case query.ArgAttribute:
		return c.safeAttribute(n, arg.Value)
	case query.ArgSelf:
		return c.safeAttribute(n, tree.AttrText)
	default:
		return arg.Value, true
	}
}

// matchTest applies a step's node test to one candidate. When the test
// text is ambiguous the kind tag wins: exact (coarse or fine) kind
// match first, then an exact case-insensitive name match, then a glob
// match for texts containing wildcards. A bare '*' matches any node.
func (c *evalContext) matchTest(test query.NodeTest, n tree.Node) bool {
	switch test.Kind {
	case query.TestAny:
		return true

	case query.TestWildcard:
		name, ok := c.safeName(n)
		return ok && matchPattern(test.Text, name)

	case query.TestTag:
		if strings.EqualFold(test.Text, c.safeKind(n)) ||
			strings.EqualFold(test.Text, c.safeCoarse(n)) {
			return true
		}
		name, ok := c.safeName(n)
		return ok && strings.EqualFold(test.Text, name)

	case query.TestName:
		name, ok := c.safeName(n)
		return ok && strings.EqualFold(test.Text, name)

	default:
		return false
	}
}

// matchPattern compares case-insensitively; patterns containing '*' or
// '?' match as globs.
func matchPattern(pattern, s string) bool {
	if !strings.ContainsAny(pattern, "*?") {
		return strings.EqualFold(pattern, s)
	}
	ok, err := path.Match(strings.ToLower(pattern), strings.ToLower(s))
	return err == nil && ok
}

// Per-node fault containment for classification and attribute
// extraction: a panicking adapter call answers "absent" for that node.

func (c *evalContext) safeAttribute(n tree.Node, key string) (value string, ok bool) {
	defer func() {
		if recover() != nil {
			value, ok = "", false
		}
	}()
	return c.adapter.Attribute(n, key)
}

func (c *evalContext) safeName(n tree.Node) (name string, ok bool) {
	defer func() {
		if recover() != nil {
			name, ok = "", false
		}
	}()
	return c.adapter.Name(n)
}

func (c *evalContext) safeKind(n tree.Node) (kind string) {
	defer func() {
		if recover() != nil {
			kind = ""
		}
	}()
	return c.adapter.Kind(n)
}

func (c *evalContext) safeCoarse(n tree.Node) (coarse string) {
	defer func() {
		if recover() != nil {
			coarse = ""
		}
	}()
	return c.adapter.Coarse(n)
}
