package query

// Lexer scans a raw query string and produces the token list consumed
// by the Parser. The token list is always terminated by a TokenEOF.
type Lexer struct {
	input    string
	position int
	tokens   []Token
}

// NewLexer returns a new Lexer for the given query string.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		tokens: make([]Token, 0, 16),
	}
}

// Tokenize processes the entire input and returns the ordered token
// list. It fails with a *LexError on the first unrecognized character
// or unterminated string literal.
func (l *Lexer) Tokenize() ([]Token, error) {
	for l.position < len(l.input) {
		start := l.position
		c := l.input[l.position]
		switch {
		case isSpace(c):
			l.position++

		case c == '/':
			// Greedy lookahead distinguishes the descendant marker
			// '//' from the child separator '/'.
			if l.peek(1) == '/' {
				l.addToken(TokenDoubleSlash, "//", start)
				l.position += 2
			} else {
				l.addToken(TokenSlash, "/", start)
				l.position++
			}

		case c == '[':
			l.addToken(TokenBracketOpen, "[", start)
			l.position++
		case c == ']':
			l.addToken(TokenBracketClose, "]", start)
			l.position++
		case c == '(':
			l.addToken(TokenParenOpen, "(", start)
			l.position++
		case c == ')':
			l.addToken(TokenParenClose, ")", start)
			l.position++
		case c == '@':
			l.addToken(TokenAt, "@", start)
			l.position++
		case c == ',':
			l.addToken(TokenComma, ",", start)
			l.position++
		case c == '-':
			l.addToken(TokenMinus, "-", start)
			l.position++

		case c == '.':
			// '..' is the parent shortcut and must not be split into
			// two self tokens.
			if l.peek(1) == '.' {
				l.addToken(TokenDotDot, "..", start)
				l.position += 2
			} else {
				l.addToken(TokenDot, ".", start)
				l.position++
			}

		case c == '=':
			l.addToken(TokenEqual, "=", start)
			l.position++
		case c == '!':
			if l.peek(1) != '=' {
				return nil, &LexError{Message: "unexpected character", Char: c, Position: start}
			}
			l.addToken(TokenNotEqual, "!=", start)
			l.position += 2
		case c == '~':
			if l.peek(1) != '=' {
				return nil, &LexError{Message: "unexpected character", Char: c, Position: start}
			}
			l.addToken(TokenContains, "~=", start)
			l.position += 2
		case c == '<':
			if l.peek(1) == '=' {
				l.addToken(TokenLessEqual, "<=", start)
				l.position += 2
			} else {
				l.addToken(TokenLess, "<", start)
				l.position++
			}
		case c == '>':
			if l.peek(1) == '=' {
				l.addToken(TokenGreaterEqual, ">=", start)
				l.position += 2
			} else {
				l.addToken(TokenGreater, ">", start)
				l.position++
			}

		case c == '\'' || c == '"':
			if err := l.lexString(c, start); err != nil {
				return nil, err
			}

		case isDigit(c):
			l.lexNumber(start)

		case isNameStart(c):
			l.lexName(start)

		default:
			return nil, &LexError{Message: "unexpected character", Char: c, Position: start}
		}
	}

	l.addToken(TokenEOF, "", l.position)
	return l.tokens, nil
}

// lexString scans a quoted literal. Either quote character may be used
// and a backslash escapes the following character.
func (l *Lexer) lexString(quote byte, start int) error {
	l.position++ // consume opening quote
	var value []byte
	for l.position < len(l.input) {
		c := l.input[l.position]
		switch c {
		case quote:
			l.position++
			l.addToken(TokenString, string(value), start)
			return nil
		case '\\':
			if l.position+1 >= len(l.input) {
				return &LexError{Message: "unterminated string literal", Position: start}
			}
			l.position++
			value = append(value, l.input[l.position])
			l.position++
		default:
			value = append(value, c)
			l.position++
		}
	}
	return &LexError{Message: "unterminated string literal", Position: start}
}

// lexNumber scans a run of decimal digits into one integer token.
func (l *Lexer) lexNumber(start int) {
	for l.position < len(l.input) && isDigit(l.input[l.position]) {
		l.position++
	}
	l.addToken(TokenNumber, l.input[start:l.position], start)
}

// lexName scans an identifier, wildcard pattern, keyword, axis
// specifier, or function marker. An identifier immediately followed by
// "::" becomes a TokenAxis; one immediately followed by '(' becomes a
// TokenFunction. Keywords take precedence over both.
func (l *Lexer) lexName(start int) {
	for l.position < len(l.input) && isNamePart(l.input[l.position]) {
		l.position++
	}
	text := l.input[start:l.position]

	if kw := lookupKeyword(text); kw != TokenName {
		l.addToken(kw, text, start)
		return
	}

	if l.peek(0) == ':' && l.peek(1) == ':' {
		l.addToken(TokenAxis, text, start)
		l.position += 2
		return
	}

	if l.peek(0) == '(' {
		l.addToken(TokenFunction, text, start)
		return
	}

	l.addToken(TokenName, text, start)
}

func (l *Lexer) peek(ahead int) byte {
	if l.position+ahead >= len(l.input) {
		return 0
	}
	return l.input[l.position+ahead]
}

func (l *Lexer) addToken(tt TokenType, value string, pos int) {
	l.tokens = append(l.tokens, Token{Type: tt, Value: value, Position: pos})
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNameStart(c byte) bool {
	return c == '_' || c == '*' || c == '?' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNamePart(c byte) bool {
	return isNameStart(c) || isDigit(c) || c == '-'
}
