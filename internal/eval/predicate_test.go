package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cygnusbill/treepath/tree"
)

func TestBooleanPredicates(t *testing.T) {
	t.Parallel()
	f := newFixture()
	e := New(newFakeAdapter())

	tests := []struct {
		name     string
		q        string
		expected []tree.Node
	}{
		{
			name:     "boolean attribute",
			q:        "//method[@public]",
			expected: []tree.Node{f.alpha, f.getName},
		},
		{
			name:     "negated boolean attribute",
			q:        "//method[not(@async)]",
			expected: []tree.Node{f.alpha, f.getName, f.main, f.getID},
		},
		{
			name:     "conjunction",
			q:        "//method[@public and not(@async)]",
			expected: []tree.Node{f.alpha, f.getName},
		},
		{
			name:     "disjunction",
			q:        "//method[@async or @name='Main']",
			expected: []tree.Node{f.beta, f.main},
		},
		{
			name:     "grouping",
			q:        "//method[not(@public or @async)]",
			expected: []tree.Node{f.main, f.getID},
		},
		{
			name:     "absent attribute is false",
			q:        "//method[@receiver]",
			expected: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, evalQuery(t, e, tt.q, f.root))
		})
	}
}

func TestAttributeComparisons(t *testing.T) {
	t.Parallel()
	f := newFixture()
	e := New(newFakeAdapter())

	tests := []struct {
		name     string
		q        string
		expected []tree.Node
	}{
		{
			name:     "equality is case insensitive",
			q:        "//class[@name='foo']",
			expected: []tree.Node{f.foo},
		},
		{
			name:     "inequality",
			q:        "//class[@name!='Foo']",
			expected: []tree.Node{f.bar},
		},
		{
			name:     "unquoted value",
			q:        "//*[@kind=class]",
			expected: []tree.Node{f.foo, f.bar},
		},
		{
			name:     "substring operator",
			q:        "//method[@text~='DB.QUERY']",
			expected: []tree.Node{f.main},
		},
		{
			name:     "virtual contains attribute",
			q:        "//method[@contains='panic']",
			expected: []tree.Node{f.getName},
		},
		{
			name:     "virtual contains is case sensitive",
			q:        "//method[@contains='PANIC']",
			expected: nil,
		},
		{
			name:     "ordered comparison",
			q:        "/class/method[@name>='g']",
			expected: []tree.Node{f.getName, f.main, f.getID},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, evalQuery(t, e, tt.q, f.root))
		})
	}
}

func TestNamePredicates(t *testing.T) {
	t.Parallel()
	f := newFixture()
	e := New(newFakeAdapter())

	assert.Equal(t, []tree.Node{f.main}, evalQuery(t, e, "//method[Main]", f.root))
	assert.Equal(t,
		[]tree.Node{f.getName, f.getID},
		evalQuery(t, e, "//method[Get*]", f.root))
	assert.Equal(t,
		[]tree.Node{f.getName, f.getID},
		evalQuery(t, e, "//Get*", f.root))
	assert.Empty(t, evalQuery(t, e, "//method[Set*]", f.root))
}

func TestNestedPathPredicates(t *testing.T) {
	t.Parallel()
	f := newFixture()
	e := New(newFakeAdapter())

	assert.Equal(t,
		[]tree.Node{f.getName},
		evalQuery(t, e, "//method[.//throw-statement]", f.root))
	assert.Equal(t,
		[]tree.Node{f.foo},
		evalQuery(t, e, "//class[.//throw-statement]", f.root))
	assert.Equal(t,
		[]tree.Node{f.alpha, f.beta, f.getName, f.main, f.getID},
		evalQuery(t, e, "//method[//class]", f.root))
	assert.Equal(t,
		[]tree.Node{f.block},
		evalQuery(t, e, "//block[../block]", f.root))
}

func TestCallPredicates(t *testing.T) {
	t.Parallel()
	f := newFixture()
	e := New(newFakeAdapter())

	tests := []struct {
		name     string
		q        string
		expected []tree.Node
	}{
		{
			name:     "contains over attribute",
			q:        "//method[contains(@name, 'et')]",
			expected: []tree.Node{f.beta, f.getName, f.getID},
		},
		{
			name:     "starts-with",
			q:        "//method[starts-with(@name, 'Get')]",
			expected: []tree.Node{f.getName, f.getID},
		},
		{
			name:     "ends-with",
			q:        "//method[ends-with(@name, 'Name')]",
			expected: []tree.Node{f.getName},
		},
		{
			name:     "self argument",
			q:        "//method[contains(., 'db.Query')]",
			expected: []tree.Node{f.main},
		},
		{
			name:     "calls are case sensitive",
			q:        "//method[starts-with(@name, 'get')]",
			expected: nil,
		},
		{
			name:     "unknown function is false",
			q:        "//method[matches(@name, 'Get')]",
			expected: nil,
		},
		{
			name:     "wrong arity is false",
			q:        "//method[contains(@name)]",
			expected: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, evalQuery(t, e, tt.q, f.root))
		})
	}
}
