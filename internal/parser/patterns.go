package parser

import (
	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/token"
)

// parsePattern parses one match-arm/destructuring pattern, covering
// every shape internal/checker/patterns.go's bindPattern switches on.
func (p *Parser) parsePattern() ast.Pattern {
	var pat ast.Pattern
	switch p.cur.Type {
	case token.IDENT:
		if p.cur.Lexeme == "_" {
			tok := p.cur
			p.next()
			pat = &ast.WildcardPattern{Token: tok}
			break
		}
		pat = p.parseIdentifierPattern()
	case token.LPAREN:
		pat = p.parseTuplePattern()
	case token.LBRACE:
		pat = p.parseRecordPattern()
	case token.INT, token.NAT, token.FLOAT, token.STRING, token.TRUE, token.FALSE, token.NONE, token.MINUS:
		pat = p.parseLiteralPattern()
	default:
		p.errorf("unexpected token %s (%q) in pattern", p.cur.Type, p.cur.Lexeme)
		tok := p.cur
		p.next()
		pat = &ast.WildcardPattern{Token: tok}
	}

	if p.curIs(token.COLON) {
		tok := p.cur
		p.next()
		ann := p.parseTypeSpec()
		if ip, ok := pat.(*ast.IdentifierPattern); ok {
			ip.Annotation = ann
			return ip
		}
		return &ast.TypedPattern{Token: tok, Inner: pat, Annotation: ann}
	}
	return pat
}

func (p *Parser) parseIdentifierPattern() ast.Pattern {
	tok := p.cur
	name := p.cur.Lexeme
	p.next()
	return &ast.IdentifierPattern{Token: tok, Name: name}
}

func (p *Parser) parseLiteralPattern() ast.Pattern {
	tok := p.cur
	val := p.parseExpression(prefixPrec)
	return &ast.LiteralPattern{Token: tok, Value: val}
}

func (p *Parser) parseTuplePattern() ast.Pattern {
	tok := p.cur
	p.next() // consume (
	var elems []ast.Pattern
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		elems = append(elems, p.parsePattern())
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return &ast.TuplePattern{Token: tok, Elements: elems}
}

func (p *Parser) parseRecordPattern() ast.Pattern {
	tok := p.cur
	p.next() // consume {
	fields := map[string]ast.Pattern{}
	var order []string
	rest := ""
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.DOTDOT) {
			p.next()
			if p.curIs(token.IDENT) {
				rest = p.cur.Lexeme
				p.next()
			}
			break
		}
		if !p.curIs(token.IDENT) {
			p.errorf("expected field name, got %s", p.cur.Type)
			break
		}
		name := p.cur.Lexeme
		p.next()
		p.expect(token.COLON)
		fields[name] = p.parsePattern()
		order = append(order, name)
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}
	p.expect(token.RBRACE)
	return &ast.RecordPattern{Token: tok, Fields: fields, Order: order, Rest: rest}
}
