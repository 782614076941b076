package parser

import (
	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/token"
)

// parseTypeSpec parses the subset of type-spec surface syntax this
// parser supports: bare and module-qualified names, tuple specs, and
// record specs. A NamedTypeSpec's Args are never filled in, and
// internal/ast's fuller grammar (intervals, refinements, quantified
// bound-sets, ref/refMut) has no surface syntax here; those nodes are
// only ever built by hand in tests.
func (p *Parser) parseTypeSpec() ast.TypeSpec {
	switch p.cur.Type {
	case token.LPAREN:
		return p.parseTupleTypeSpec()
	case token.LBRACE:
		return p.parseRecordTypeSpec()
	case token.TYPEIDENT, token.IDENT:
		return p.parseNamedTypeSpec()
	default:
		p.errorf("expected a type, got %s (%q)", p.cur.Type, p.cur.Lexeme)
		tok := p.cur
		p.next()
		return &ast.NamedTypeSpec{Token: tok, Name: tok.Lexeme}
	}
}

func (p *Parser) parseNamedTypeSpec() ast.TypeSpec {
	tok := p.cur
	name := p.cur.Lexeme
	p.next()

	module := ""
	for p.curIs(token.DOT) {
		p.next()
		if !p.curIs(token.TYPEIDENT) && !p.curIs(token.IDENT) {
			p.errorf("expected a name after '.', got %s", p.cur.Type)
			break
		}
		module = name
		name = p.cur.Lexeme
		p.next()
	}

	return &ast.NamedTypeSpec{Token: tok, Module: module, Name: name}
}

func (p *Parser) parseTupleTypeSpec() ast.TypeSpec {
	tok := p.cur
	p.next() // consume (
	var elems []ast.TypeSpec
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		elems = append(elems, p.parseTypeSpec())
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return &ast.TupleTypeSpec{Token: tok, Elements: elems}
}

func (p *Parser) parseRecordTypeSpec() ast.TypeSpec {
	tok := p.cur
	p.next() // consume {
	fields := map[string]ast.TypeSpec{}
	var order []string
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if !p.curIs(token.IDENT) {
			p.errorf("expected field name, got %s", p.cur.Type)
			break
		}
		name := p.cur.Lexeme
		p.next()
		p.expect(token.COLON)
		fields[name] = p.parseTypeSpec()
		order = append(order, name)
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}
	p.expect(token.RBRACE)
	return &ast.RecordTypeSpec{Token: tok, Fields: fields, Order: order}
}
