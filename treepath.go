// Package treepath locates nodes inside parsed source trees using a
// declarative, XPath-inspired query language. It wires the query
// compiler and evaluator to the per-language tree adapters and exposes
// the convenience API the treepath command is built on.
package treepath

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cygnusbill/treepath/internal/eval"
	"github.com/cygnusbill/treepath/query"
	"github.com/cygnusbill/treepath/tree"
	"github.com/cygnusbill/treepath/tree/goadapter"
	"github.com/cygnusbill/treepath/tree/yamladapter"
)

// Match is one query result, displayable with a kind tag, an optional
// name, and a source range.
type Match struct {
	Kind     string     `json:"kind"`
	Name     string     `json:"name,omitempty"`
	Location tree.Range `json:"location"`
	Preview  string     `json:"preview,omitempty"`
}

// Limits caps the work one evaluation may perform; the zero value is
// unbounded. See the treepath query --max-nodes flag.
type Limits struct {
	MaxVisited int
	MaxDepth   int
}

// Source is a parsed tree ready for evaluation.
type Source interface {
	Root() tree.Node
}

// Locator is implemented by sources that can resolve a cursor position
// to the innermost enclosing node, for context-relative queries.
type Locator interface {
	NodeAt(line, column int) (tree.Node, bool)
}

// Loader parses raw bytes into a Source for one language family.
type Loader func(filename string, src []byte) (Source, error)

// Compile parses a query string into a reusable path expression.
// Compiled expressions are immutable and safe to share.
func Compile(q string) (*query.PathExpression, error) {
	return query.Parse(q)
}

// Engine binds the adapter registry, per-language loaders and
// evaluation limits. Construct one at process start and share it; it
// holds no per-query state.
type Engine struct {
	registry *tree.Registry
	loaders  map[string]Loader
	limits   Limits
	cache    *query.Cache
	forced   string
}

// NewEngine returns an Engine with the built-in language families
// registered: Go/Gno and YAML.
func NewEngine() *Engine {
	e := &Engine{
		registry: tree.NewRegistry(),
		loaders:  make(map[string]Loader),
		cache:    query.NewCache(),
	}
	e.Register(goadapter.New(), loadGo, ".go", ".gno")
	e.Register(yamladapter.New(), loadYAML, ".yaml", ".yml")
	return e
}

func loadGo(filename string, src []byte) (Source, error) {
	return goadapter.Parse(filename, src)
}

func loadYAML(filename string, src []byte) (Source, error) {
	return yamladapter.Parse(filename, src)
}

// Register adds a language family: its adapter, its loader, and the
// file extensions it claims.
func (e *Engine) Register(a tree.Adapter, load Loader, extensions ...string) {
	e.registry.Register(a, extensions...)
	e.loaders[strings.ToLower(a.Language())] = load
}

// SetLimits bounds subsequent evaluations. The engine itself imposes
// no bound; this is the external cap for callers that need one.
func (e *Engine) SetLimits(l Limits) {
	e.limits = l
}

// ForceLanguage overrides extension-based adapter selection: every
// file is parsed with the named language family's adapter. An empty
// name restores extension lookup.
func (e *Engine) ForceLanguage(lang string) {
	e.forced = strings.ToLower(lang)
}

// Supported reports whether the file's extension maps to a registered
// language family.
func (e *Engine) Supported(filename string) bool {
	_, ok := e.registry.ForFile(filename)
	return ok
}

// Extensions returns every file extension with a registered adapter.
func (e *Engine) Extensions() []string {
	return e.registry.Extensions()
}

// QueryFile compiles q and evaluates it against the tree parsed from
// the given file.
func (e *Engine) QueryFile(filename, q string) ([]Match, error) {
	return e.QuerySource(filename, nil, q)
}

// QuerySource is QueryFile over in-memory content. With nil src the
// file is read from disk.
func (e *Engine) QuerySource(filename string, src []byte, q string) ([]Match, error) {
	return e.queryAt(filename, src, q, 0, 0)
}

// QueryAt evaluates q with the innermost node enclosing line:column as
// the context node, so relative queries can start from a cursor
// position rather than the tree root.
func (e *Engine) QueryAt(filename string, src []byte, q string, line, column int) ([]Match, error) {
	return e.queryAt(filename, src, q, line, column)
}

func (e *Engine) queryAt(filename string, src []byte, q string, line, column int) ([]Match, error) {
	// one walk over many files recompiles the same query constantly;
	// the cache makes that a map lookup
	expr, err := e.cache.Parse(q)
	if err != nil {
		return nil, err
	}

	adapter, source, err := e.Load(filename, src)
	if err != nil {
		return nil, err
	}

	context := source.Root()
	if line > 0 {
		locator, ok := source.(Locator)
		if !ok {
			return nil, fmt.Errorf("%s trees do not support position lookup", adapter.Language())
		}
		node, ok := locator.NodeAt(line, column)
		if !ok {
			return nil, fmt.Errorf("no node at %s:%d:%d", filename, line, column)
		}
		context = node
	}

	ev := eval.NewWithLimits(adapter, eval.Limits{
		MaxVisited: e.limits.MaxVisited,
		MaxDepth:   e.limits.MaxDepth,
	})
	nodes, err := ev.Evaluate(expr, context)
	if err != nil {
		return nil, err
	}
	return e.collect(adapter, nodes), nil
}

// Load resolves the adapter for filename and parses the content into a
// Source. With nil src the file is read from disk.
func (e *Engine) Load(filename string, src []byte) (tree.Adapter, Source, error) {
	var adapter tree.Adapter
	var ok bool
	if e.forced != "" {
		adapter, ok = e.registry.ForLanguage(e.forced)
		if !ok {
			return nil, nil, fmt.Errorf("no adapter for language %q", e.forced)
		}
	} else if adapter, ok = e.registry.ForFile(filename); !ok {
		return nil, nil, fmt.Errorf("unsupported file kind: %s", filename)
	}
	load, ok := e.loaders[strings.ToLower(adapter.Language())]
	if !ok {
		return nil, nil, fmt.Errorf("no loader registered for %s", adapter.Language())
	}
	source, err := load(filename, src)
	if err != nil {
		return nil, nil, err
	}
	return adapter, source, nil
}

func (e *Engine) collect(adapter tree.Adapter, nodes []tree.Node) []Match {
	matches := make([]Match, 0, len(nodes))
	for _, n := range nodes {
		m := Match{
			Kind:     adapter.Kind(n),
			Location: adapter.Range(n),
		}
		if name, ok := adapter.Name(n); ok {
			m.Name = name
		}
		if text, ok := adapter.Attribute(n, tree.AttrText); ok {
			m.Preview = preview(text)
		}
		matches = append(matches, m)
	}
	return matches
}

const maxPreviewLen = 120

// preview renders a node's text as a single trimmed line.
func preview(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i] + " ..."
	}
	text = strings.TrimSpace(text)
	if len(text) > maxPreviewLen {
		cut := maxPreviewLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return text
}
