package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cygnusbill/treepath/tree"
)

func TestAxisUnsupported(t *testing.T) {
	t.Parallel()
	f := newFixture()
	adapter := newFakeAdapter()
	adapter.caps = tree.CapChildren
	e := New(adapter)

	for _, q := range []string{
		"..",
		"ancestor::class",
		"ancestor-or-self::*",
		"following-sibling::*",
		"preceding-sibling::*",
		"following::*",
		"preceding::*",
	} {
		q := q
		t.Run(q, func(t *testing.T) {
			t.Parallel()
			_, err := e.Evaluate(mustParse(t, q), f.block)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrAxisUnsupported)
		})
	}

	// downward axes keep working without parent links
	assert.Equal(t,
		[]tree.Node{f.alpha, f.beta, f.getName, f.main, f.getID},
		evalQuery(t, e, "//method", f.root))
}

func TestVisitLimit(t *testing.T) {
	t.Parallel()
	f := newFixture()
	e := NewWithLimits(newFakeAdapter(), Limits{MaxVisited: 3})

	_, err := e.Evaluate(mustParse(t, "//*"), f.root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	// a query finishing under the budget succeeds
	small := NewWithLimits(newFakeAdapter(), Limits{MaxVisited: 100})
	assert.Equal(t, []tree.Node{f.foo, f.bar}, evalQuery(t, small, "/class", f.root))
}

func TestDepthLimit(t *testing.T) {
	t.Parallel()
	f := newFixture()
	e := NewWithLimits(newFakeAdapter(), Limits{MaxDepth: 2})

	_, err := e.Evaluate(mustParse(t, "//*"), f.root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	deep := NewWithLimits(newFakeAdapter(), Limits{MaxDepth: 10})
	_, err = deep.Evaluate(mustParse(t, "//*"), f.root)
	assert.NoError(t, err)
}

func TestChildFaultContained(t *testing.T) {
	t.Parallel()
	f := newFixture()
	adapter := newFakeAdapter()
	adapter.panicChildrenOf = f.foo
	e := New(adapter)

	// the faulting subtree drops out; the rest of the tree still answers
	assert.Equal(t,
		[]tree.Node{f.main, f.getID},
		evalQuery(t, e, "//method", f.root))
}

func TestParentFaultContained(t *testing.T) {
	t.Parallel()
	f := newFixture()
	adapter := newFakeAdapter()
	adapter.panicParentOf = f.beta
	e := New(adapter)

	// relative queries never climb, so the fault only hits the parent axis
	assert.Empty(t, evalQuery(t, e, "..", f.beta))
	assert.Equal(t, []tree.Node{f.foo}, evalQuery(t, e, "..", f.alpha))
}

func TestContextResolutionFaultIsFatal(t *testing.T) {
	t.Parallel()
	f := newFixture()
	adapter := newFakeAdapter()
	adapter.panicParentOf = f.beta
	e := New(adapter)

	// climbing to the root for an absolute query hits the fault head-on
	_, err := e.Evaluate(mustParse(t, "/class"), f.beta)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolving context node")
}
