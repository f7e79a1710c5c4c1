package treepath

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cygnusbill/treepath/internal/eval"
)

const sampleGo = `package sample

type Greeter struct {
	prefix string
}

func (g Greeter) Greet(name string) string {
	return g.prefix + name
}

func main() {
	g := Greeter{prefix: "hi "}
	_ = g.Greet("you")
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCompile(t *testing.T) {
	t.Parallel()

	expr, err := Compile("//method[@public]")
	require.NoError(t, err)
	require.Len(t, expr.Steps, 1)

	_, err = Compile("//class[@name=")
	assert.Error(t, err)
}

func TestQueryFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeFile(t, dir, "sample.go", sampleGo)

	engine := NewEngine()
	matches, err := engine.QueryFile(path, "//method")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "method", matches[0].Kind)
	assert.Equal(t, "Greet", matches[0].Name)
	assert.Equal(t, path, matches[0].Location.Filename)
	assert.Equal(t, 7, matches[0].Location.Start.Line)
	assert.Contains(t, matches[0].Preview, "func (g Greeter) Greet")
}

func TestQuerySource(t *testing.T) {
	t.Parallel()
	engine := NewEngine()

	matches, err := engine.QuerySource("inmem.go", []byte(sampleGo), "//struct")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Greeter", matches[0].Name)

	// queries matching nothing succeed with no matches
	matches, err = engine.QuerySource("inmem.go", []byte(sampleGo), "//interface")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestQueryAt(t *testing.T) {
	t.Parallel()
	engine := NewEngine()

	// line 8 is the return inside Greet
	matches, err := engine.QueryAt("inmem.go", []byte(sampleGo), "ancestor-or-self::method", 8, 9)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Greet", matches[0].Name)

	_, err = engine.QueryAt("inmem.go", []byte(sampleGo), ".", 1000, 1)
	assert.Error(t, err)
}

func TestQueryYAML(t *testing.T) {
	t.Parallel()
	engine := NewEngine()

	matches, err := engine.QuerySource("app.yaml", []byte("server:\n  port: 8080\n"), "//server/port")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "port", matches[0].Name)
	assert.Equal(t, "8080", matches[0].Preview)
}

func TestUnsupportedFileKind(t *testing.T) {
	t.Parallel()
	engine := NewEngine()

	_, err := engine.QueryFile("notes.txt", "//x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file kind")

	assert.True(t, engine.Supported("a.go"))
	assert.True(t, engine.Supported("a.gno"))
	assert.True(t, engine.Supported("a.yaml"))
	assert.False(t, engine.Supported("a.txt"))
}

func TestForceLanguage(t *testing.T) {
	t.Parallel()
	engine := NewEngine()
	engine.ForceLanguage("go")

	// extension says nothing, the forced adapter still parses it
	matches, err := engine.QuerySource("snippet.txt", []byte(sampleGo), "//struct")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Greeter", matches[0].Name)

	engine.ForceLanguage("fortran")
	_, err = engine.QuerySource("snippet.txt", []byte(sampleGo), "//struct")
	assert.Error(t, err)
}

func TestEngineLimits(t *testing.T) {
	t.Parallel()
	engine := NewEngine()
	engine.SetLimits(Limits{MaxVisited: 2})

	_, err := engine.QuerySource("inmem.go", []byte(sampleGo), "//*")
	require.Error(t, err)
	assert.ErrorIs(t, err, eval.ErrLimitExceeded)
}

func TestProcessPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "one.go", sampleGo)
	writeFile(t, dir, "two.go", "package sample\n\nfunc Helper() {}\n")
	writeFile(t, dir, "skip.txt", "not source")
	sub := filepath.Join(dir, "vendor")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeFile(t, sub, "dep.go", "package dep\n\nfunc Vendored() {}\n")

	engine := NewEngine()
	matches, err := ProcessPath(context.Background(), nil, engine, "//func", dir, []string{"vendor"})
	require.NoError(t, err)

	var names []string
	for _, m := range matches {
		names = append(names, m.Name)
	}
	assert.ElementsMatch(t, []string{"main", "Helper"}, names)
}

func TestProcessPathKeepsMatchesPastBadFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "bad.go", "package broken\n\nfunc {\n")
	writeFile(t, dir, "good.go", "package sample\n\nfunc Kept() {}\n")
	writeFile(t, dir, "worse.go", "package broken\n\ntype !\n")

	// Files that fail to parse are skipped; every other file's matches
	// must still come through, regardless of completion order.
	matches, err := ProcessPath(context.Background(), nil, NewEngine(), "//func", dir, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Kept", matches[0].Name)
}

func TestProcessPathSingleFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeFile(t, dir, "one.go", sampleGo)

	matches, err := ProcessPath(context.Background(), nil, NewEngine(), "//struct", path, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Greeter", matches[0].Name)
}

func TestPreview(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "one line", preview("one line"))
	assert.Equal(t, "first ...", preview("first\nsecond"))

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, preview(string(long)), maxPreviewLen+3)

	// Truncation must not split a rune; "x" shifts every two-byte rune
	// onto an odd offset so the cut lands mid-rune.
	wide := "x" + strings.Repeat("é", maxPreviewLen)
	got := preview(wide)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, maxPreviewLen-1+3, len(got))
}
