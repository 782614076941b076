// Package lexer tokenizes funxy-types source into internal/token.Token
// values for internal/parser, grounded on the teacher's internal/lexer:
// the same rune-at-a-time readChar/peekChar scanning technique and
// per-character switch dispatch, resized to this grammar's much
// smaller token set (internal/token.go has no string-interpolation,
// compound-assignment, or CONCAT tokens the teacher's lexer handles).
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/funxy-types/internal/token"
)

type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           rune
	line         int
	column       int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

func newToken(t token.Type, ch rune, line, col int) token.Token {
	return token.Token{Type: t, Lexeme: string(ch), Line: line, Column: col}
}

// NextToken scans and returns the next token, advancing past it.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	line, col := l.line, l.column

	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Lexeme: "", Line: line, Column: col}
	case '\n':
		tok := newToken(token.NEWLINE, l.ch, line, col)
		l.readChar()
		return tok
	case '#':
		l.skipLineComment()
		return l.NextToken()
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok := token.Token{Type: token.EQ, Lexeme: "==", Line: line, Column: col}
			l.readChar()
			return tok
		}
		if l.peekChar() == '>' {
			l.readChar()
			tok := token.Token{Type: token.PROCARROW, Lexeme: "=>", Line: line, Column: col}
			l.readChar()
			return tok
		}
		tok := newToken(token.ASSIGN, l.ch, line, col)
		l.readChar()
		return tok
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			tok := token.Token{Type: token.ARROW, Lexeme: "->", Line: line, Column: col}
			l.readChar()
			return tok
		}
		tok := newToken(token.MINUS, l.ch, line, col)
		l.readChar()
		return tok
	case ':':
		if l.peekChar() == '-' {
			l.readChar()
			tok := token.Token{Type: token.COLONMINUS, Lexeme: ":-", Line: line, Column: col}
			l.readChar()
			return tok
		}
		tok := newToken(token.COLON, l.ch, line, col)
		l.readChar()
		return tok
	case '.':
		if l.peekChar() == '.' {
			l.readChar()
			tok := token.Token{Type: token.DOTDOT, Lexeme: "..", Line: line, Column: col}
			l.readChar()
			return tok
		}
		tok := newToken(token.DOT, l.ch, line, col)
		l.readChar()
		return tok
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok := token.Token{Type: token.NEQ, Lexeme: "!=", Line: line, Column: col}
			l.readChar()
			return tok
		}
		tok := newToken(token.BANG, l.ch, line, col)
		l.readChar()
		return tok
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok := token.Token{Type: token.LTE, Lexeme: "<=", Line: line, Column: col}
			l.readChar()
			return tok
		}
		tok := newToken(token.LT, l.ch, line, col)
		l.readChar()
		return tok
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok := token.Token{Type: token.GTE, Lexeme: ">=", Line: line, Column: col}
			l.readChar()
			return tok
		}
		tok := newToken(token.GT, l.ch, line, col)
		l.readChar()
		return tok
	case '+', '*', '/', '%', ',', '|', '&', '?', '(', ')', '{', '}', '[', ']':
		tok := l.singleCharToken(line, col)
		l.readChar()
		return tok
	case '"':
		return l.readString(line, col)
	default:
		if unicode.IsDigit(l.ch) {
			return l.readNumber(line, col)
		}
		if isIdentStart(l.ch) {
			return l.readIdentifier(line, col)
		}
		tok := newToken(token.ILLEGAL, l.ch, line, col)
		l.readChar()
		return tok
	}
}

var singleCharTypes = map[rune]token.Type{
	'+': token.PLUS, '*': token.STAR, '/': token.SLASH, '%': token.PERCENT,
	',': token.COMMA, '|': token.PIPE, '&': token.AMP, '?': token.QUESTION,
	'(': token.LPAREN, ')': token.RPAREN, '{': token.LBRACE, '}': token.RBRACE,
	'[': token.LBRACKET, ']': token.RBRACKET,
}

func (l *Lexer) singleCharToken(line, col int) token.Token {
	return newToken(singleCharTypes[l.ch], l.ch, line, col)
}

func isIdentStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isIdentPart(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '!'
}

func (l *Lexer) readIdentifier(line, col int) token.Token {
	var b strings.Builder
	for isIdentPart(l.ch) {
		b.WriteRune(l.ch)
		l.readChar()
	}
	lit := b.String()
	if kind, ok := token.Keywords[lit]; ok {
		return token.Token{Type: kind, Lexeme: lit, Line: line, Column: col}
	}
	typ := token.IDENT
	if r := []rune(lit)[0]; unicode.IsUpper(r) {
		typ = token.TYPEIDENT
	}
	return token.Token{Type: typ, Lexeme: lit, Line: line, Column: col}
}

func (l *Lexer) readNumber(line, col int) token.Token {
	var b strings.Builder
	for unicode.IsDigit(l.ch) || l.ch == '_' {
		if l.ch != '_' {
			b.WriteRune(l.ch)
		}
		l.readChar()
	}
	isFloat := false
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		isFloat = true
		b.WriteRune(l.ch)
		l.readChar()
		for unicode.IsDigit(l.ch) {
			b.WriteRune(l.ch)
			l.readChar()
		}
	}
	lit := b.String()
	if l.ch == 'u' && !isFloat {
		l.readChar()
		return token.Token{Type: token.NAT, Lexeme: lit + "_u", Line: line, Column: col}
	}
	if isFloat {
		return token.Token{Type: token.FLOAT, Lexeme: lit, Line: line, Column: col}
	}
	return token.Token{Type: token.INT, Lexeme: lit, Line: line, Column: col}
}

func (l *Lexer) readString(line, col int) token.Token {
	l.readChar() // consume opening quote
	var b strings.Builder
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
		}
		b.WriteRune(l.ch)
		l.readChar()
	}
	l.readChar() // consume closing quote
	return token.Token{Type: token.STRING, Lexeme: b.String(), Line: line, Column: col}
}

// IntValue parses an INT token's lexeme. Used by internal/parser.
func IntValue(lexeme string) (int64, error) {
	return strconv.ParseInt(lexeme, 10, 64)
}

// NatValue parses a NAT token's lexeme (trimming the trailing _u).
func NatValue(lexeme string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSuffix(lexeme, "_u"), 10, 64)
}

// FloatValue parses a FLOAT token's lexeme.
func FloatValue(lexeme string) (float64, error) {
	return strconv.ParseFloat(lexeme, 64)
}
