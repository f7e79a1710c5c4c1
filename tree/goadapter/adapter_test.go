package goadapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cygnusbill/treepath/internal/eval"
	"github.com/cygnusbill/treepath/query"
	"github.com/cygnusbill/treepath/tree"
)

const sampleSrc = `package sample

import "fmt"

const answer = 42

type User struct {
	ID   int
	name string
}

type Store interface {
	Get(id int) (*User, error)
}

func (u *User) GetName() string {
	if u == nil {
		return ""
	}
	return u.name
}

func helper(count int) {
	for i := 0; i < count; i++ {
		fmt.Println(i)
	}
}

func Main() {
	x := answer + 1
	_ = x
}
`

func parseSample(t *testing.T) *Tree {
	t.Helper()
	tr, err := Parse("sample.go", []byte(sampleSrc))
	require.NoError(t, err)
	return tr
}

func runQuery(t *testing.T, tr *Tree, q string) []tree.Node {
	t.Helper()
	expr, err := query.Parse(q)
	require.NoError(t, err)
	nodes, err := eval.New(New()).Evaluate(expr, tr.Root())
	require.NoError(t, err)
	return nodes
}

func names(t *testing.T, nodes []tree.Node) []string {
	t.Helper()
	a := New()
	var out []string
	for _, n := range nodes {
		name, _ := a.Name(n)
		out = append(out, name)
	}
	return out
}

func TestParseRoot(t *testing.T) {
	t.Parallel()
	tr := parseSample(t)
	a := New()

	root := tr.Root()
	assert.Equal(t, "file", a.Kind(root))
	name, ok := a.Name(root)
	require.True(t, ok)
	assert.Equal(t, "sample", name)
	assert.Equal(t, "sample.go", tr.Filename())
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	_, err := Parse("broken.go", []byte("package {"))
	assert.Error(t, err)

	_, err = Parse("missing-dir/nope.go", nil)
	assert.Error(t, err)
}

func TestKindQueries(t *testing.T) {
	t.Parallel()
	tr := parseSample(t)

	tests := []struct {
		q        string
		expected []string
	}{
		{q: "//struct", expected: []string{"User"}},
		{q: "//interface", expected: []string{"Store"}},
		{q: "//method", expected: []string{"GetName"}},
		{q: "//func", expected: []string{"helper", "Main"}},
		{q: "//import", expected: []string{"fmt"}},
		{q: "//value-spec", expected: []string{"answer"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.q, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, names(t, runQuery(t, tr, tt.q)))
		})
	}

	assert.Len(t, runQuery(t, tr, "//if-statement"), 1)
	assert.Len(t, runQuery(t, tr, "//for-statement"), 1)
	assert.Len(t, runQuery(t, tr, "//return-statement"), 2)
}

func TestCoarseKindQueries(t *testing.T) {
	t.Parallel()
	tr := parseSample(t)

	// every statement in the file, via the coarse category
	stmts := runQuery(t, tr, "//statement")
	assert.NotEmpty(t, stmts)
	a := New()
	for _, n := range stmts {
		assert.Equal(t, "statement", a.Coarse(n))
	}
}

func TestVisibilityAttributes(t *testing.T) {
	t.Parallel()
	tr := parseSample(t)

	assert.Equal(t, []string{"User"},
		names(t, runQuery(t, tr, "//struct[@public]")))
	assert.Equal(t, []string{"Main"},
		names(t, runQuery(t, tr, "//func[@public]")))
	assert.Equal(t, []string{"helper"},
		names(t, runQuery(t, tr, "//func[@private]")))
	// unexported struct field plus lowercase parameter names
	assert.Equal(t, []string{"name", "id", "count"},
		names(t, runQuery(t, tr, "//field[@private]")))
}

func TestFunctionAttributes(t *testing.T) {
	t.Parallel()
	tr := parseSample(t)
	a := New()

	methods := runQuery(t, tr, "//method")
	require.Len(t, methods, 1)
	getName := methods[0]

	recv, ok := a.Attribute(getName, tree.AttrReceiver)
	require.True(t, ok)
	assert.Equal(t, "*User", recv)

	returns, ok := a.Attribute(getName, tree.AttrReturns)
	require.True(t, ok)
	assert.Equal(t, "string", returns)

	_, ok = a.Attribute(getName, tree.AttrOperator)
	assert.False(t, ok)
}

func TestExpressionAttributes(t *testing.T) {
	t.Parallel()
	tr := parseSample(t)
	a := New()

	sums := runQuery(t, tr, "//binary-expression[@operator='+']")
	require.Len(t, sums, 1)

	left, ok := a.Attribute(sums[0], tree.AttrLeft)
	require.True(t, ok)
	assert.Equal(t, "answer", left)
	right, ok := a.Attribute(sums[0], tree.AttrRight)
	require.True(t, ok)
	assert.Equal(t, "1", right)

	comparisons := runQuery(t, tr, "//binary-expression[@operator='<']")
	assert.Len(t, comparisons, 1)

	nilChecks := runQuery(t, tr, "//binary-expression[@operator='==' and @right-text='nil']")
	require.Len(t, nilChecks, 1)
	left, ok = a.Attribute(nilChecks[0], tree.AttrLeft)
	require.True(t, ok)
	assert.Equal(t, "u", left)
}

func TestStatementPositions(t *testing.T) {
	t.Parallel()
	tr := parseSample(t)
	a := New()

	first := runQuery(t, tr, "//block/statement[1]")
	require.Len(t, first, 1)
	assert.Equal(t, "if-statement", a.Kind(first[0]))

	last := runQuery(t, tr, "//block/statement[last()]")
	require.Len(t, last, 1)
	assert.Equal(t, "assign-statement", a.Kind(last[0]))
}

func TestTextAttribute(t *testing.T) {
	t.Parallel()
	tr := parseSample(t)

	assert.Equal(t, []string{"Main"},
		names(t, runQuery(t, tr, "//func[@contains='answer + 1']")))
	assert.Equal(t, []string{"helper"},
		names(t, runQuery(t, tr, "//func[contains(., 'fmt.Println')]")))
}

func TestFieldTag(t *testing.T) {
	t.Parallel()
	src := "package t\n\ntype User struct {\n\tID int `json:\"id\"`\n}\n"
	tr, err := Parse("tagged.go", []byte(src))
	require.NoError(t, err)

	fields := runQuery(t, tr, "//field[@tag]")
	// @tag alone tests for the value "true", so filter by content instead
	assert.Empty(t, fields)

	fields = runQuery(t, tr, "//field[@tag~='json']")
	require.Len(t, fields, 1)
	assert.Equal(t, []string{"ID"}, names(t, fields))
}

func TestParentNavigation(t *testing.T) {
	t.Parallel()
	tr := parseSample(t)

	// the enclosing function of every return statement
	assert.Equal(t, []string{"GetName"},
		names(t, runQuery(t, tr, "//return-statement/ancestor::method")))

	// climbing from a nested node reaches the file
	files := runQuery(t, tr, "//if-statement/ancestor::file")
	require.Len(t, files, 1)
	assert.Equal(t, tr.Root(), files[0])
}

func TestNodeAt(t *testing.T) {
	t.Parallel()
	tr := parseSample(t)

	// inside GetName's body
	n, ok := tr.NodeAt(20, 9)
	require.True(t, ok)

	expr, err := query.Parse("ancestor-or-self::method")
	require.NoError(t, err)
	enclosing, err := eval.New(New()).Evaluate(expr, n)
	require.NoError(t, err)
	assert.Equal(t, []string{"GetName"}, names(t, enclosing))

	_, ok = tr.NodeAt(1000, 1)
	assert.False(t, ok)
}

func TestRangeReporting(t *testing.T) {
	t.Parallel()
	tr := parseSample(t)
	a := New()

	methods := runQuery(t, tr, "//method")
	require.Len(t, methods, 1)
	r := a.Range(methods[0])
	assert.Equal(t, "sample.go", r.Filename)
	assert.Equal(t, 16, r.Start.Line)
	assert.Equal(t, 1, r.Start.Column)
	assert.Greater(t, r.End.Line, r.Start.Line)
}

func TestGnoSourceParses(t *testing.T) {
	t.Parallel()
	tr, err := Parse("realm.gno", []byte("package realm\n\nfunc Render(path string) string {\n\treturn path\n}\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Render"}, names(t, runQuery(t, tr, "//func")))
}
