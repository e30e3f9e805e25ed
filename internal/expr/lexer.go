package expr

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType represents the type of a lexer token.
type TokenType int

const (
	TokenEOF    TokenType = iota
	TokenIdent            // identifiers like "status", "进度", "and", "contains"
	TokenNumber           // numeric literal
	TokenString           // quoted string literal
	TokenEq               // ==
	TokenNeq              // !=
	TokenLt               // <
	TokenLte              // <=
	TokenGt               // >
	TokenGte              // >=
	TokenPlus             // +
	TokenMinus            // -
	TokenStar             // *
	TokenSlash            // /
	TokenBang             // !
	TokenLParen           // (
	TokenRParen           // )
	TokenComma            // ,
	TokenDot              // .
	TokenError            // unrecognized input
)

// Token represents a lexer token.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// Lexer tokenizes an expression string.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos}
	}

	start := l.pos
	ch := l.input[l.pos]

	switch ch {
	case '(':
		l.pos++
		return Token{Type: TokenLParen, Value: "(", Pos: start}
	case ')':
		l.pos++
		return Token{Type: TokenRParen, Value: ")", Pos: start}
	case ',':
		l.pos++
		return Token{Type: TokenComma, Value: ",", Pos: start}
	case '.':
		l.pos++
		return Token{Type: TokenDot, Value: ".", Pos: start}
	case '+':
		l.pos++
		return Token{Type: TokenPlus, Value: "+", Pos: start}
	case '-':
		l.pos++
		return Token{Type: TokenMinus, Value: "-", Pos: start}
	case '*':
		l.pos++
		return Token{Type: TokenStar, Value: "*", Pos: start}
	case '/':
		l.pos++
		return Token{Type: TokenSlash, Value: "/", Pos: start}
	case '=':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return Token{Type: TokenEq, Value: "==", Pos: start}
		}
		l.pos++
		return Token{Type: TokenError, Value: "=", Pos: start}
	case '!':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return Token{Type: TokenNeq, Value: "!=", Pos: start}
		}
		l.pos++
		return Token{Type: TokenBang, Value: "!", Pos: start}
	case '<':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return Token{Type: TokenLte, Value: "<=", Pos: start}
		}
		l.pos++
		return Token{Type: TokenLt, Value: "<", Pos: start}
	case '>':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return Token{Type: TokenGte, Value: ">=", Pos: start}
		}
		l.pos++
		return Token{Type: TokenGt, Value: ">", Pos: start}
	case '"', '\'':
		return l.scanString(ch)
	}

	if ch >= '0' && ch <= '9' {
		return l.scanNumber()
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	if isIdentStart(r) {
		return l.scanIdent()
	}

	l.pos++
	return Token{Type: TokenError, Value: string(ch), Pos: start}
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		l.pos += size
	}
}

func (l *Lexer) scanNumber() Token {
	start := l.pos
	seenDot := false
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch >= '0' && ch <= '9' {
			l.pos++
			continue
		}
		// A dot is part of the number only when followed by a digit,
		// so "1.due" lexes as number, dot, ident.
		if ch == '.' && !seenDot && l.pos+1 < len(l.input) &&
			l.input[l.pos+1] >= '0' && l.input[l.pos+1] <= '9' {
			seenDot = true
			l.pos++
			continue
		}
		break
	}
	return Token{Type: TokenNumber, Value: l.input[start:l.pos], Pos: start}
}

func (l *Lexer) scanString(quote byte) Token {
	start := l.pos
	l.pos++ // opening quote

	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\\' && l.pos+1 < len(l.input) {
			next := l.input[l.pos+1]
			if next == quote || next == '\\' {
				sb.WriteByte(next)
				l.pos += 2
				continue
			}
		}
		if ch == quote {
			l.pos++
			return Token{Type: TokenString, Value: sb.String(), Pos: start}
		}
		sb.WriteByte(ch)
		l.pos++
	}

	// Unterminated string.
	return Token{Type: TokenError, Value: l.input[start:], Pos: start}
}

func (l *Lexer) scanIdent() Token {
	start := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !isIdentChar(r) {
			break
		}
		l.pos += size
	}
	return Token{Type: TokenIdent, Value: l.input[start:l.pos], Pos: start}
}

// isIdentStart allows any unicode letter or underscore, so property names
// like "进度" are first-class identifiers.
func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentChar(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
