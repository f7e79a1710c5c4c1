package query

import (
	"fmt"
	"strings"
)

// Axis is the directional relation a step uses to navigate from a
// context node to a candidate node-set.
type Axis uint8

const (
	AxisChild Axis = iota
	AxisDescendant
	AxisDescendantOrSelf
	AxisParent
	AxisAncestor
	AxisAncestorOrSelf
	AxisFollowingSibling
	AxisPrecedingSibling
	AxisFollowing
	AxisPreceding
	AxisSelf
)

var axisNames = map[string]Axis{
	"child":              AxisChild,
	"descendant":         AxisDescendant,
	"descendant-or-self": AxisDescendantOrSelf,
	"parent":             AxisParent,
	"ancestor":           AxisAncestor,
	"ancestor-or-self":   AxisAncestorOrSelf,
	"following-sibling":  AxisFollowingSibling,
	"preceding-sibling":  AxisPrecedingSibling,
	"following":          AxisFollowing,
	"preceding":          AxisPreceding,
	"self":               AxisSelf,
}

// LookupAxis resolves an axis specifier name. The second return value
// is false for unknown axis names.
func LookupAxis(name string) (Axis, bool) {
	a, ok := axisNames[name]
	return a, ok
}

func (a Axis) String() string {
	for name, axis := range axisNames {
		if axis == a {
			return name
		}
	}
	return fmt.Sprintf("axis(%d)", uint8(a))
}

// NodeTestKind tags the variant of a node test.
type NodeTestKind uint8

const (
	// TestAny matches every node regardless of kind ('*').
	TestAny NodeTestKind = iota
	// TestWildcard matches node names against a glob pattern
	// containing '*' or '?'.
	TestWildcard
	// TestTag matches the node's kind tag exactly, falling back to an
	// exact case-insensitive match on the node's name.
	TestTag
	// TestName matches the node's name only, never its kind. The
	// parser does not produce this variant; it exists for
	// programmatically built expressions.
	TestName
)

// NodeTest filters a navigated candidate set by node kind or name.
type NodeTest struct {
	Kind NodeTestKind
	Text string
}

func (t NodeTest) String() string {
	if t.Kind == TestAny {
		return "*"
	}
	return t.Text
}

// CompareOp is the operator of an attribute comparison predicate.
type CompareOp uint8

const (
	OpEqual     CompareOp = iota // =   case-insensitive equality
	OpNotEqual                   // !=  case-insensitive inequality
	OpContains                   // ~=  substring containment
	OpLess                       // <   case-insensitive lexicographic
	OpLessEq                     // <=
	OpGreater                    // >
	OpGreaterEq                  // >=
)

func (op CompareOp) String() string {
	switch op {
	case OpEqual:
		return "="
	case OpNotEqual:
		return "!="
	case OpContains:
		return "~="
	case OpLess:
		return "<"
	case OpLessEq:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEq:
		return ">="
	default:
		return "?"
	}
}

// Predicate is a bracketed boolean condition narrowing a step's
// candidate set. Implementations form a small boolean-expression AST.
type Predicate interface {
	String() string
	predicate()
}

var (
	_ Predicate = (*PositionPredicate)(nil)
	_ Predicate = (*AttributePredicate)(nil)
	_ Predicate = (*BooleanAttributePredicate)(nil)
	_ Predicate = (*NamePredicate)(nil)
	_ Predicate = (*AndPredicate)(nil)
	_ Predicate = (*OrPredicate)(nil)
	_ Predicate = (*NotPredicate)(nil)
	_ Predicate = (*NestedPathPredicate)(nil)
	_ Predicate = (*CallPredicate)(nil)
)

// PositionPredicate selects a single candidate by 1-based position.
// With Last set, the position counts back from the end of the
// candidate list: last() is {Last: true, Offset: 0}, last()-2 is
// {Last: true, Offset: 2}. Unlike every other predicate it consumes
// the whole candidate list rather than being tested per node.
type PositionPredicate struct {
	Last   bool
	Offset int // 1-based index, or the K in last()-K
}

func (p *PositionPredicate) predicate() {}
func (p *PositionPredicate) String() string {
	if !p.Last {
		return fmt.Sprintf("%d", p.Offset)
	}
	if p.Offset == 0 {
		return "last()"
	}
	return fmt.Sprintf("last()-%d", p.Offset)
}

// AttributePredicate compares a node attribute against a literal.
type AttributePredicate struct {
	Name  string
	Op    CompareOp
	Value string
}

func (p *AttributePredicate) predicate() {}
func (p *AttributePredicate) String() string {
	return fmt.Sprintf("@%s%s'%s'", p.Name, p.Op, p.Value)
}

// BooleanAttributePredicate holds iff the attribute's value equals
// "true", compared case-insensitively.
type BooleanAttributePredicate struct {
	Name string
}

func (p *BooleanAttributePredicate) predicate() {}
func (p *BooleanAttributePredicate) String() string {
	return "@" + p.Name
}

// NamePredicate matches a node's name against a bare identifier or
// glob pattern, e.g. [Main] or [Get*].
type NamePredicate struct {
	Pattern string
}

func (p *NamePredicate) predicate()     {}
func (p *NamePredicate) String() string { return p.Pattern }

// AndPredicate is the conjunction of two predicates. Evaluation may
// short-circuit.
type AndPredicate struct {
	Left, Right Predicate
}

func (p *AndPredicate) predicate() {}
func (p *AndPredicate) String() string {
	return fmt.Sprintf("%s and %s", p.Left, p.Right)
}

// OrPredicate is the disjunction of two predicates. Evaluation may
// short-circuit.
type OrPredicate struct {
	Left, Right Predicate
}

func (p *OrPredicate) predicate() {}
func (p *OrPredicate) String() string {
	return fmt.Sprintf("%s or %s", p.Left, p.Right)
}

// NotPredicate negates its inner predicate.
type NotPredicate struct {
	Inner Predicate
}

func (p *NotPredicate) predicate() {}
func (p *NotPredicate) String() string {
	return fmt.Sprintf("not(%s)", p.Inner)
}

// NestedPathPredicate holds for a node iff evaluating the sub-path
// with that node as context yields at least one result.
type NestedPathPredicate struct {
	Path *PathExpression
}

func (p *NestedPathPredicate) predicate() {}
func (p *NestedPathPredicate) String() string {
	return "." + p.Path.String()
}

// ArgKind tags a function-call argument variant.
type ArgKind uint8

const (
	ArgLiteral ArgKind = iota // quoted string or number
	ArgAttribute              // @name
	ArgSelf                   // '.', the node's own text
)

// Arg is one argument of a CallPredicate.
type Arg struct {
	Kind  ArgKind
	Value string // literal text or attribute name
}

func (a Arg) String() string {
	switch a.Kind {
	case ArgAttribute:
		return "@" + a.Value
	case ArgSelf:
		return "."
	default:
		return "'" + a.Value + "'"
	}
}

// CallPredicate is a string-function call such as
// contains(@name, 'User') or starts-with(@name, 'Get').
type CallPredicate struct {
	Func string
	Args []Arg
}

func (p *CallPredicate) predicate() {}
func (p *CallPredicate) String() string {
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", p.Func, strings.Join(args, ", "))
}

// Step is one axis + node-test + predicate-list unit of a path.
// Predicates apply left to right, each narrowing the candidate set
// produced by the axis and node test.
type Step struct {
	Axis       Axis
	Test       NodeTest
	Predicates []Predicate
}

func (s Step) String() string {
	var b strings.Builder
	b.WriteString(s.Axis.String())
	b.WriteString("::")
	b.WriteString(s.Test.String())
	for _, p := range s.Predicates {
		b.WriteString("[")
		b.WriteString(p.String())
		b.WriteString("]")
	}
	return b.String()
}

// PathExpression is an ordered sequence of steps. It is immutable once
// built and may be cached and reused across evaluations; a valid
// expression always has at least one step.
type PathExpression struct {
	Absolute bool
	Steps    []Step
}

func (p *PathExpression) String() string {
	var b strings.Builder
	if p.Absolute {
		b.WriteString("/")
	}
	for i, s := range p.Steps {
		if i > 0 {
			b.WriteString("/")
		}
		b.WriteString(s.String())
	}
	return b.String()
}
