package query

// TokenType defines the different types of tokens produced by the lexer.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota

	// Separators and grouping
	TokenSlash        // /
	TokenDoubleSlash  // //
	TokenBracketOpen  // [
	TokenBracketClose // ]
	TokenParenOpen    // (
	TokenParenClose   // )

	// Basic symbols
	TokenAt     // @
	TokenComma  // ,
	TokenDot    // .
	TokenDotDot // ..
	TokenMinus  // -

	// Comparison operators
	TokenEqual        // =
	TokenNotEqual     // !=
	TokenContains     // ~=
	TokenLess         // <
	TokenLessEqual    // <=
	TokenGreater      // >
	TokenGreaterEqual // >=

	// Literals and names
	TokenName     // method, if-statement, Get*, *
	TokenString   // 'value' or "value"
	TokenNumber   // 1, 42
	TokenAxis     // identifier immediately followed by '::'
	TokenFunction // identifier immediately followed by '('

	// Keywords
	TokenAnd // and
	TokenOr  // or
	TokenNot // not
)

// String returns a human-readable representation of the token type,
// used in parse-error messages.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "end of query"
	case TokenSlash:
		return "/"
	case TokenDoubleSlash:
		return "//"
	case TokenBracketOpen:
		return "["
	case TokenBracketClose:
		return "]"
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	case TokenAt:
		return "@"
	case TokenComma:
		return ","
	case TokenDot:
		return "."
	case TokenDotDot:
		return ".."
	case TokenMinus:
		return "-"
	case TokenEqual:
		return "="
	case TokenNotEqual:
		return "!="
	case TokenContains:
		return "~="
	case TokenLess:
		return "<"
	case TokenLessEqual:
		return "<="
	case TokenGreater:
		return ">"
	case TokenGreaterEqual:
		return ">="
	case TokenName:
		return "name"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenAxis:
		return "axis"
	case TokenFunction:
		return "function"
	case TokenAnd:
		return "and"
	case TokenOr:
		return "or"
	case TokenNot:
		return "not"
	default:
		return "unknown"
	}
}

// Token is a single lexical token with its literal text and the byte
// offset where it starts in the query string.
type Token struct {
	Type     TokenType
	Value    string
	Position int
}

// lookupKeyword maps reserved words to their token types. Returns
// TokenName for everything else.
func lookupKeyword(s string) TokenType {
	switch s {
	case "and":
		return TokenAnd
	case "or":
		return TokenOr
	case "not":
		return TokenNot
	default:
		return TokenName
	}
}
