// Package parser builds an internal/ast.Program from internal/lexer
// tokens. Grounded on the teacher's internal/parser package structure
// (one file per syntactic concern, Pratt-style expression parsing) but
// resized to the grammar internal/ast actually has nodes for: the
// teacher's parser covers a much larger surface (traits, packages,
// string interpolation, compound assignment) that this AST has no
// nodes to receive, so those forms are not reachable here.
package parser

import (
	"fmt"

	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/lexer"
	"github.com/funvibe/funxy-types/internal/token"
)

type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	errors    []string
	errTokens []token.Token
}

func New(input string) *Parser {
	p := &Parser{l: lexer.New(input)}
	p.next()
	p.next()
	return p
}

func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, fmt.Sprintf("%d:%d: %s", p.cur.Line, p.cur.Column, msg))
	p.errTokens = append(p.errTokens, p.cur)
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) expect(t token.Type) bool {
	if p.curIs(t) {
		p.next()
		return true
	}
	p.errorf("expected %s, got %s (%q)", t, p.cur.Type, p.cur.Lexeme)
	return false
}

// checkpoint is a saved parser position used to backtrack out of a
// speculative parse. `IDENT (` is ambiguous between a parenthesized
// function declaration (`f(x: Int) -> Int = x`) and a plain call
// expression (`f(1, 2)`) — there is no bounded lookahead that
// disambiguates them, so the declaration path is attempted first and
// rolled back to an expression parse if it produces an error.
type checkpoint struct {
	lex  *lexer.Lexer
	cur  token.Token
	peek token.Token
	errs int
}

func (p *Parser) mark() checkpoint {
	l := *p.l
	return checkpoint{lex: &l, cur: p.cur, peek: p.peek, errs: len(p.errors)}
}

func (p *Parser) reset(cp checkpoint) {
	l := *cp.lex
	p.l = &l
	p.cur, p.peek = cp.cur, cp.peek
	p.errors = p.errors[:cp.errs]
	p.errTokens = p.errTokens[:cp.errs]
}

// curIsKeyword reports whether the current token is an identifier whose
// lexeme matches a contextual (not reserved-token) keyword like "type"
// or "end" — internal/token has no reserved slot for these since they
// only matter in statement/block position, never as identifiers that
// collide with a binding.
func (p *Parser) curIsKeyword(word string) bool {
	return p.cur.Type == token.IDENT && p.cur.Lexeme == word
}

func (p *Parser) skipNewlines() {
	for p.curIs(token.NEWLINE) {
		p.next()
	}
}

// ParseProgram parses every top-level statement until EOF.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Token: p.cur}
	p.skipNewlines()
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.skipNewlines()
	}
	return prog
}

func (p *Parser) parseStatement() ast.Statement {
	switch {
	case p.curIsKeyword("type"):
		return p.parseRecordTypeDeclaration()
	case p.curIs(token.IDENT) && p.startsDeclaration():
		return p.parseDeclaration()
	default:
		return p.parseExpressionStatement()
	}
}

// startsDeclaration looks ahead (without consuming) to decide whether
// the current IDENT begins a var/const/function declaration rather
// than a plain expression statement: a bare name followed directly by
// `=`, `:-`, `:`, `(` (function params), another IDENT (bare
// space-separated params), `->` or `=>` is a declaration; anything else (an
// operator, a dot, end of statement) is an expression.
func (p *Parser) startsDeclaration() bool {
	switch p.peek.Type {
	case token.ASSIGN, token.COLONMINUS, token.COLON, token.LPAREN, token.IDENT, token.ARROW, token.PROCARROW:
		return true
	default:
		return false
	}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.cur
	expr := p.parseExpression(lowest)
	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}
