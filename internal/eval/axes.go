package eval

import (
	"fmt"

	"github.com/cygnusbill/treepath/query"
	"github.com/cygnusbill/treepath/tree"
)

// applyAxis expands one context node along an axis. Descendant and
// whole-document walks use explicit work stacks, never native
// recursion, so deep trees cannot overflow the call stack.
func (c *evalContext) applyAxis(axis query.Axis, n tree.Node) ([]tree.Node, error) {
	switch axis {
	case query.AxisSelf:
		return []tree.Node{n}, nil

	case query.AxisChild:
		children := c.safeChildren(n)
		for range children {
			if err := c.visit(); err != nil {
				return nil, err
			}
		}
		return children, nil

	case query.AxisDescendant:
		return c.descendants(n, false)

	case query.AxisDescendantOrSelf:
		return c.descendants(n, true)

	case query.AxisParent:
		if parent, ok := c.safeParent(n); ok {
			if err := c.visit(); err != nil {
				return nil, err
			}
			return []tree.Node{parent}, nil
		}
		return nil, nil

	case query.AxisAncestor:
		return c.ancestors(n, false)

	case query.AxisAncestorOrSelf:
		return c.ancestors(n, true)

	case query.AxisFollowingSibling:
		return c.siblings(n, true)

	case query.AxisPrecedingSibling:
		return c.siblings(n, false)

	case query.AxisFollowing:
		return c.documentOrder(n, true)

	case query.AxisPreceding:
		return c.documentOrder(n, false)

	default:
		return nil, fmt.Errorf("unhandled axis %s", axis)
	}
}

type workItem struct {
	node  tree.Node
	depth int
}

// descendants walks the subtree under n in pre-order with an explicit
// stack; emitting on pop with children pushed in reverse keeps source
// order. With includeSelf, n leads the result.
func (c *evalContext) descendants(n tree.Node, includeSelf bool) ([]tree.Node, error) {
	var out []tree.Node
	stack := []workItem{{node: n, depth: 0}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.node != n || includeSelf {
			if err := c.visit(); err != nil {
				return nil, err
			}
			out = append(out, item.node)
		}
		if c.limits.MaxDepth > 0 && item.depth >= c.limits.MaxDepth {
			return nil, fmt.Errorf("%w: depth %d reached", ErrLimitExceeded, c.limits.MaxDepth)
		}

		children := c.safeChildren(item.node)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, workItem{node: children[i], depth: item.depth + 1})
		}
	}
	return out, nil
}

// ancestors climbs parent links to the root, nearest first.
func (c *evalContext) ancestors(n tree.Node, includeSelf bool) ([]tree.Node, error) {
	var out []tree.Node
	if includeSelf {
		out = append(out, n)
	}
	current := n
	for {
		parent, ok := c.safeParent(current)
		if !ok {
			return out, nil
		}
		if err := c.visit(); err != nil {
			return nil, err
		}
		out = append(out, parent)
		current = parent
	}
}

// siblings returns the same-parent siblings after (following=true) or
// before n, in source order. A parentless node has no siblings.
func (c *evalContext) siblings(n tree.Node, following bool) ([]tree.Node, error) {
	parent, ok := c.safeParent(n)
	if !ok {
		return nil, nil
	}

	var out []tree.Node
	seenSelf := false
	for _, sibling := range c.safeChildren(parent) {
		if sibling == n {
			seenSelf = true
			continue
		}
		if seenSelf == following {
			if err := c.visit(); err != nil {
				return nil, err
			}
			out = append(out, sibling)
		}
	}
	return out, nil
}

// documentOrder serves the following and preceding axes using whole-
// document order relative to the tree root: following excludes n's own
// descendants, preceding excludes n's ancestors.
func (c *evalContext) documentOrder(n tree.Node, following bool) ([]tree.Node, error) {
	root := n
	for {
		parent, ok := c.safeParent(root)
		if !ok {
			break
		}
		root = parent
	}

	exclude := make(map[tree.Node]bool)
	exclude[n] = true
	if following {
		subtree, err := c.descendants(n, false)
		if err != nil {
			return nil, err
		}
		for _, d := range subtree {
			exclude[d] = true
		}
	} else {
		anc, err := c.ancestors(n, false)
		if err != nil {
			return nil, err
		}
		for _, a := range anc {
			exclude[a] = true
		}
	}

	var out []tree.Node
	after := false
	stack := []tree.Node{root}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current == n {
			after = true
		} else if after == following && !exclude[current] {
			if err := c.visit(); err != nil {
				return nil, err
			}
			out = append(out, current)
		}

		children := c.safeChildren(current)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return out, nil
}

// safeChildren contains per-node adapter faults: a panic while
// expanding one node yields no children for it instead of aborting
// the query.
func (c *evalContext) safeChildren(n tree.Node) (children []tree.Node) {
	defer func() {
		if recover() != nil {
			children = nil
		}
	}()
	return c.adapter.Children(n)
}

func (c *evalContext) safeParent(n tree.Node) (parent tree.Node, ok bool) {
	defer func() {
		if recover() != nil {
			parent, ok = nil, false
		}
	}()
	return c.adapter.Parent(n)
}
