package query

import (
	"strconv"
	"strings"
)

// Parser consumes the token list produced by the Lexer and builds an
// immutable PathExpression.
type Parser struct {
	tokens  []Token
	current int
}

// Parse tokenizes and parses a query string in one call. It returns a
// *LexError or *ParseError on malformed input; a query producing no
// parseable step is a parse failure, never an empty-result success.
func Parse(input string) (*PathExpression, error) {
	tokens, err := NewLexer(input).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

// NewParser creates a parser over an already-tokenized query.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse builds the path-expression AST.
//
//	Path      := '/'? Step*
//	Step      := ( '//' | '/' | Axis '::' )? NodeTest? Predicate*
//	Predicate := '[' OrExpr ']'
func (p *Parser) Parse() (*PathExpression, error) {
	expr, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, parseErrorf(tok, "end of query")
	}
	return expr, nil
}

// parsePath parses a full path expression. Top-level paths and nested
// sub-paths share this code; a leading '/' always makes the path
// absolute.
func (p *Parser) parsePath() (*PathExpression, error) {
	expr := &PathExpression{}
	axis := AxisChild

	switch p.peek().Type {
	case TokenSlash:
		p.advance()
		expr.Absolute = true
	case TokenDoubleSlash:
		p.advance()
		expr.Absolute = true
		axis = AxisDescendant
	}

	for {
		step, err := p.parseStep(axis)
		if err != nil {
			return nil, err
		}
		expr.Steps = append(expr.Steps, step)

		switch p.peek().Type {
		case TokenSlash:
			p.advance()
			axis = AxisChild
		case TokenDoubleSlash:
			p.advance()
			axis = AxisDescendant
		default:
			return expr, nil
		}
	}
}

// parseStep parses one step. defaultAxis is the axis implied by the
// separator that preceded the step ('/' gives child, '//' descendant).
func (p *Parser) parseStep(defaultAxis Axis) (Step, error) {
	step := Step{Axis: defaultAxis, Test: NodeTest{Kind: TestAny}}
	contributed := false

	switch tok := p.peek(); tok.Type {
	case TokenAxis:
		a, ok := LookupAxis(tok.Value)
		if !ok {
			return step, parseErrorf(tok, "axis name")
		}
		p.advance()
		step.Axis = a
		contributed = true
	case TokenDot:
		p.advance()
		step.Axis = AxisSelf
		contributed = true
	case TokenDotDot:
		p.advance()
		step.Axis = AxisParent
		contributed = true
	}

	if tok := p.peek(); tok.Type == TokenName {
		p.advance()
		step.Test = classifyNodeTest(tok.Value)
		contributed = true
	}

	for p.peek().Type == TokenBracketOpen {
		pred, err := p.parsePredicate()
		if err != nil {
			return step, err
		}
		step.Predicates = append(step.Predicates, pred)
		contributed = true
	}

	// Steps are never silently dropped: a step contributing neither an
	// axis marker, a node test, nor a predicate fails parsing.
	if !contributed {
		return step, parseErrorf(p.peek(), "node test")
	}
	return step, nil
}

func classifyNodeTest(text string) NodeTest {
	if text == "*" {
		return NodeTest{Kind: TestAny}
	}
	if strings.ContainsAny(text, "*?") {
		return NodeTest{Kind: TestWildcard, Text: text}
	}
	return NodeTest{Kind: TestTag, Text: text}
}

// parsePredicate parses one bracketed predicate. Position expressions
// must stand alone inside their brackets; everything else is a boolean
// expression over the candidate node.
func (p *Parser) parsePredicate() (Predicate, error) {
	open := p.peek()
	if open.Type != TokenBracketOpen {
		return nil, parseErrorf(open, "[")
	}
	p.advance()

	pred, err := p.parsePositionOrBool()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Type != TokenBracketClose {
		return nil, parseErrorf(tok, "]")
	}
	p.advance()
	return pred, nil
}

// parsePositionOrBool recognizes the two position forms ([N] and
// [last()] / [last()-K]) before falling back to the boolean grammar.
func (p *Parser) parsePositionOrBool() (Predicate, error) {
	tok := p.peek()

	if tok.Type == TokenNumber && p.peekAt(1).Type == TokenBracketClose {
		p.advance()
		return &PositionPredicate{Offset: atoi(tok.Value)}, nil
	}

	if tok.Type == TokenFunction && tok.Value == "last" {
		p.advance()
		if err := p.expect(TokenParenOpen); err != nil {
			return nil, err
		}
		if err := p.expect(TokenParenClose); err != nil {
			return nil, err
		}
		pos := &PositionPredicate{Last: true}
		if p.peek().Type == TokenMinus {
			p.advance()
			num := p.peek()
			if num.Type != TokenNumber {
				return nil, parseErrorf(num, "number after last()-")
			}
			p.advance()
			pos.Offset = atoi(num.Value)
		}
		return pos, nil
	}

	return p.parseOrExpr()
}

// OrExpr := AndExpr ( 'or' AndExpr )*
func (p *Parser) parseOrExpr() (Predicate, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenOr {
		p.advance()
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = &OrPredicate{Left: left, Right: right}
	}
	return left, nil
}

// AndExpr := NotExpr ( 'and' NotExpr )*
func (p *Parser) parseAndExpr() (Predicate, error) {
	left, err := p.parseNotExpr()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenAnd {
		p.advance()
		right, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		left = &AndPredicate{Left: left, Right: right}
	}
	return left, nil
}

// NotExpr := 'not'? Primary
func (p *Parser) parseNotExpr() (Predicate, error) {
	if p.peek().Type == TokenNot {
		p.advance()
		inner, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &NotPredicate{Inner: inner}, nil
	}
	return p.parsePrimary()
}

// Primary := '(' OrExpr ')' | '@' Name (Op Value)? | Function Args |
// NestedPath | Name
func (p *Parser) parsePrimary() (Predicate, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenParenOpen:
		p.advance()
		inner, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenParenClose); err != nil {
			return nil, err
		}
		return inner, nil

	case TokenAt:
		return p.parseAttribute()

	case TokenFunction:
		return p.parseCall()

	case TokenDot, TokenDotDot, TokenSlash, TokenDoubleSlash:
		sub, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		return &NestedPathPredicate{Path: sub}, nil

	case TokenName:
		p.advance()
		return &NamePredicate{Pattern: tok.Value}, nil

	case TokenNumber:
		return nil, parseErrorf(tok, "position predicate to stand alone")

	default:
		return nil, parseErrorf(tok, "predicate expression")
	}
}

// parseAttribute parses '@' Name with an optional comparison.
func (p *Parser) parseAttribute() (Predicate, error) {
	p.advance() // '@'
	name := p.peek()
	if name.Type != TokenName {
		return nil, parseErrorf(name, "attribute name")
	}
	p.advance()

	var op CompareOp
	switch p.peek().Type {
	case TokenEqual:
		op = OpEqual
	case TokenNotEqual:
		op = OpNotEqual
	case TokenContains:
		op = OpContains
	case TokenLess:
		op = OpLess
	case TokenLessEqual:
		op = OpLessEq
	case TokenGreater:
		op = OpGreater
	case TokenGreaterEqual:
		op = OpGreaterEq
	default:
		return &BooleanAttributePredicate{Name: name.Value}, nil
	}
	p.advance()

	value := p.peek()
	switch value.Type {
	case TokenString, TokenNumber, TokenName:
		p.advance()
		return &AttributePredicate{Name: name.Value, Op: op, Value: value.Value}, nil
	default:
		return nil, parseErrorf(value, "comparison value")
	}
}

// parseCall parses an argumented string function such as
// contains(@name, 'User'). The zero-argument last() never reaches
// here; it is handled as a position predicate.
func (p *Parser) parseCall() (Predicate, error) {
	name := p.peek()
	p.advance()
	if err := p.expect(TokenParenOpen); err != nil {
		return nil, err
	}

	call := &CallPredicate{Func: name.Value}
	for p.peek().Type != TokenParenClose {
		if len(call.Args) > 0 {
			if err := p.expect(TokenComma); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	p.advance() // ')'
	return call, nil
}

func (p *Parser) parseArg() (Arg, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenAt:
		p.advance()
		name := p.peek()
		if name.Type != TokenName {
			return Arg{}, parseErrorf(name, "attribute name")
		}
		p.advance()
		return Arg{Kind: ArgAttribute, Value: name.Value}, nil
	case TokenString, TokenNumber, TokenName:
		p.advance()
		return Arg{Kind: ArgLiteral, Value: tok.Value}, nil
	case TokenDot:
		p.advance()
		return Arg{Kind: ArgSelf}, nil
	default:
		return Arg{}, parseErrorf(tok, "function argument")
	}
}

func (p *Parser) peek() Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(ahead int) Token {
	if p.current+ahead >= len(p.tokens) {
		return Token{Type: TokenEOF, Position: -1}
	}
	return p.tokens[p.current+ahead]
}

func (p *Parser) advance() {
	if p.current < len(p.tokens) {
		p.current++
	}
}

func (p *Parser) expect(tt TokenType) error {
	tok := p.peek()
	if tok.Type != tt {
		return parseErrorf(tok, "%s", tt)
	}
	p.advance()
	return nil
}

// atoi converts a digit-only token value; the lexer guarantees the
// input is a run of decimal digits.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
