package query

import "fmt"

// LexError reports an unrecognized or malformed piece of input. It is
// fatal: no parsing or evaluation happens after a lex failure.
type LexError struct {
	Message  string
	Char     byte // offending character, 0 when the input simply ended
	Position int  // byte offset into the query string
}

func (e *LexError) Error() string {
	if e.Char != 0 {
		return fmt.Sprintf("lex error at offset %d: %s %q", e.Position, e.Message, string(e.Char))
	}
	return fmt.Sprintf("lex error at offset %d: %s", e.Position, e.Message)
}

// ParseError reports a grammar violation: unexpected token, unmatched
// bracket, missing operand, or an unknown axis name. It is fatal; a
// query that fails to parse is never evaluated.
type ParseError struct {
	Expected string
	Found    Token
}

func (e *ParseError) Error() string {
	found := e.Found.Value
	if found == "" {
		found = e.Found.Type.String()
	}
	return fmt.Sprintf("parse error at offset %d: expected %s, found %q",
		e.Found.Position, e.Expected, found)
}

func parseErrorf(found Token, format string, args ...any) *ParseError {
	return &ParseError{
		Expected: fmt.Sprintf(format, args...),
		Found:    found,
	}
}
