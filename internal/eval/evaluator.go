// Package eval executes compiled path expressions against a syntax
// tree through a tree.Adapter. Evaluation is a pure, synchronous
// traversal: the Evaluator holds no state across calls, so independent
// evaluations may run concurrently, even against the same tree.
package eval

import (
	"errors"
	"fmt"

	"github.com/cygnusbill/treepath/query"
	"github.com/cygnusbill/treepath/tree"
)

var (
	// ErrAxisUnsupported marks a step whose axis the selected adapter
	// does not implement. This is a capability gap, not an empty
	// result, and callers can detect it with errors.Is.
	ErrAxisUnsupported = errors.New("axis not supported by adapter")

	// ErrLimitExceeded is returned when an evaluation configured with
	// Limits visits more nodes, or recurses deeper, than allowed.
	ErrLimitExceeded = errors.New("evaluation limit exceeded")
)

// Limits caps the work one evaluation may perform. The engine itself
// imposes no bound; callers needing bounded latency against
// pathologically large or deep trees set one here. The zero value
// means unbounded.
type Limits struct {
	MaxVisited int // nodes produced by axis navigation
	MaxDepth   int // tree depth reached by descendant traversal
}

// Evaluator executes path expressions against trees served by one
// adapter. It is cheap to construct and safe for concurrent use.
type Evaluator struct {
	adapter tree.Adapter
	limits  Limits
}

// New returns an unbounded Evaluator for the given adapter.
func New(adapter tree.Adapter) *Evaluator {
	return &Evaluator{adapter: adapter}
}

// NewWithLimits returns an Evaluator that fails with ErrLimitExceeded
// once an evaluation outgrows the given limits.
func NewWithLimits(adapter tree.Adapter, limits Limits) *Evaluator {
	return &Evaluator{adapter: adapter, limits: limits}
}

// Evaluate runs a compiled expression with the given start node and
// returns the matching nodes, distinct by identity, in
// first-encountered order. A well-formed query matching nothing is a
// successful empty result. For absolute expressions the start node is
// first resolved to its tree root (when the adapter can navigate
// upward); a fault during that resolution is fatal, unlike per-node
// faults during traversal, which are contained.
func (e *Evaluator) Evaluate(expr *query.PathExpression, start tree.Node) ([]tree.Node, error) {
	if expr == nil || len(expr.Steps) == 0 {
		return nil, errors.New("empty path expression")
	}
	if start == nil {
		return nil, errors.New("nil context node")
	}

	c := &evalContext{Evaluator: e}
	context, err := c.resolveContext(expr, start)
	if err != nil {
		return nil, err
	}
	return c.evalPath(expr, context)
}

// evalContext carries the per-call counters. Everything mutable about
// one evaluation lives here, keeping the Evaluator itself stateless.
type evalContext struct {
	*Evaluator
	visited int
}

// resolveContext picks the node evaluation starts from. Absolute
// expressions start at the tree root; relative ones at the caller's
// context node. Adapter faults here abort the whole query.
func (c *evalContext) resolveContext(expr *query.PathExpression, start tree.Node) (n tree.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = nil, fmt.Errorf("resolving context node: adapter fault: %v", r)
		}
	}()

	if !expr.Absolute || !c.adapter.Capabilities().Has(tree.CapParent) {
		// Without upward links the caller's node is the best root
		// available; conventionally callers pass the tree root for
		// absolute queries.
		return start, nil
	}
	for {
		parent, ok := c.adapter.Parent(start)
		if !ok {
			return start, nil
		}
		start = parent
	}
}

func (c *evalContext) evalPath(expr *query.PathExpression, context tree.Node) ([]tree.Node, error) {
	nodes := []tree.Node{context}
	for i := range expr.Steps {
		var err error
		nodes, err = c.evalStep(&expr.Steps[i], nodes)
		if err != nil {
			return nil, err
		}
		if len(nodes) == 0 {
			return nil, nil
		}
	}
	return nodes, nil
}

// evalStep applies one step: axis navigation, node-test filter, then
// the predicates in declared order. Position predicates consume the
// whole indexed candidate list; every other predicate is tested per
// candidate. The result is deduplicated by identity, preserving
// first-encountered order.
func (c *evalContext) evalStep(step *query.Step, input []tree.Node) ([]tree.Node, error) {
	if need := requiredCapability(step.Axis); !c.adapter.Capabilities().Has(need) {
		return nil, fmt.Errorf("%w: %s axis, %s adapter",
			ErrAxisUnsupported, step.Axis, c.adapter.Language())
	}

	var candidates []tree.Node
	for _, n := range input {
		expanded, err := c.applyAxis(step.Axis, n)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, expanded...)
	}

	filtered := candidates[:0]
	for _, n := range candidates {
		if c.matchTest(step.Test, n) {
			filtered = append(filtered, n)
		}
	}
	candidates = filtered

	for _, pred := range step.Predicates {
		if pos, ok := pred.(*query.PositionPredicate); ok {
			candidates = selectPosition(pos, candidates)
			continue
		}
		kept := candidates[:0]
		for _, n := range candidates {
			if c.evalPredicate(pred, n) {
				kept = append(kept, n)
			}
		}
		candidates = kept
	}

	return dedupe(candidates), nil
}

// selectPosition resolves a 1-based position against the current
// candidate list: N, last() = length, last()-K = length-K.
// Out-of-range positions yield an empty list.
func selectPosition(p *query.PositionPredicate, candidates []tree.Node) []tree.Node {
	pos := p.Offset
	if p.Last {
		pos = len(candidates) - p.Offset
	}
	if pos < 1 || pos > len(candidates) {
		return nil
	}
	return candidates[pos-1 : pos]
}

// dedupe drops nodes already seen, comparing handles by identity.
func dedupe(nodes []tree.Node) []tree.Node {
	if len(nodes) < 2 {
		return nodes
	}
	seen := make(map[tree.Node]bool, len(nodes))
	out := nodes[:0]
	for _, n := range nodes {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func requiredCapability(axis query.Axis) tree.Capability {
	switch axis {
	case query.AxisParent, query.AxisAncestor, query.AxisAncestorOrSelf,
		query.AxisFollowingSibling, query.AxisPrecedingSibling,
		query.AxisFollowing, query.AxisPreceding:
		return tree.CapChildren | tree.CapParent
	default:
		return tree.CapChildren
	}
}

// visit charges one navigated node against the visit budget.
func (c *evalContext) visit() error {
	c.visited++
	if c.limits.MaxVisited > 0 && c.visited > c.limits.MaxVisited {
		return fmt.Errorf("%w: more than %d nodes visited", ErrLimitExceeded, c.limits.MaxVisited)
	}
	return nil
}
