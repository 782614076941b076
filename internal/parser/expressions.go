package parser

import (
	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/lexer"
	"github.com/funvibe/funxy-types/internal/token"
)

// Operator precedence levels, lowest to highest — the same ladder the
// teacher's Pratt parser climbs, trimmed to the operator set
// internal/checker/expressions.go actually dispatches on.
const (
	lowest = iota
	orPrec
	andPrec
	equalsPrec
	comparePrec
	sumPrec
	productPrec
	prefixPrec
	callPrec
	dotPrec
)

var precedences = map[token.Type]int{
	token.PIPE:    orPrec,
	token.AMP:     andPrec,
	token.EQ:      equalsPrec,
	token.NEQ:     equalsPrec,
	token.LT:      comparePrec,
	token.LTE:     comparePrec,
	token.GT:      comparePrec,
	token.GTE:     comparePrec,
	token.PLUS:    sumPrec,
	token.MINUS:   sumPrec,
	token.STAR:    productPrec,
	token.SLASH:   productPrec,
	token.PERCENT: productPrec,
	token.LPAREN:  callPrec,
	token.DOT:     dotPrec,
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return lowest
}

// parseExpression is a standard Pratt loop: parse one prefix form, then
// keep absorbing infix/postfix operators while the token now sitting
// at p.cur (parsePrefix always leaves p.cur on the token following the
// primary it parsed) binds tighter than minPrec.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for !p.curIs(token.NEWLINE) && !p.curIs(token.EOF) && minPrec < p.curPrecedence() {
		switch p.cur.Type {
		case token.LPAREN:
			left = p.parseCallArgs(left, nil)
		case token.DOT:
			left = p.parseFieldOrMethod(left)
		default:
			left = p.parseInfix(left)
		}
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	switch p.cur.Type {
	case token.IDENT:
		return p.parseIdentifier()
	case token.TYPEIDENT:
		return p.parseIdentifier()
	case token.INT:
		return p.parseIntegerLiteral()
	case token.NAT:
		return p.parseNatLiteral()
	case token.FLOAT:
		return p.parseFloatLiteral()
	case token.STRING:
		lit := &ast.StringLiteral{Token: p.cur, Value: p.cur.Lexeme}
		p.next()
		return lit
	case token.TRUE:
		lit := &ast.BoolLiteral{Token: p.cur, Value: true}
		p.next()
		return lit
	case token.FALSE:
		lit := &ast.BoolLiteral{Token: p.cur, Value: false}
		p.next()
		return lit
	case token.NONE:
		lit := &ast.NoneLiteral{Token: p.cur}
		p.next()
		return lit
	case token.BANG, token.MINUS:
		return p.parseUnary()
	case token.LPAREN:
		return p.parseParenOrTuple()
	case token.LBRACE:
		return p.parseRecordLiteral()
	case token.MATCH:
		return p.parseMatchExpression()
	case token.DO:
		return p.parseBlockExpression()
	default:
		p.errorf("unexpected token %s (%q) in expression", p.cur.Type, p.cur.Lexeme)
		p.next()
		return nil
	}
}

func (p *Parser) parseIdentifier() ast.Expression {
	id := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	p.next()
	return id
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.cur
	v, err := lexer.IntValue(tok.Lexeme)
	if err != nil {
		p.errorf("invalid integer literal %q: %s", tok.Lexeme, err)
	}
	p.next()
	return &ast.IntegerLiteral{Token: tok, Value: v}
}

func (p *Parser) parseNatLiteral() ast.Expression {
	tok := p.cur
	v, err := lexer.NatValue(tok.Lexeme)
	if err != nil {
		p.errorf("invalid nat literal %q: %s", tok.Lexeme, err)
	}
	p.next()
	return &ast.NatLiteral{Token: tok, Value: v}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.cur
	v, err := lexer.FloatValue(tok.Lexeme)
	if err != nil {
		p.errorf("invalid float literal %q: %s", tok.Lexeme, err)
	}
	p.next()
	return &ast.FloatLiteral{Token: tok, Value: v}
}

func (p *Parser) parseUnary() ast.Expression {
	tok := p.cur
	op := p.cur.Lexeme
	p.next()
	operand := p.parseExpression(prefixPrec)
	return &ast.UnaryExpression{Token: tok, Operator: op, Operand: operand}
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	tok := p.cur
	op := p.cur.Lexeme
	prec := precedences[p.cur.Type]
	p.next()
	right := p.parseExpression(prec)
	return &ast.BinaryExpression{Token: tok, Operator: op, Left: left, Right: right}
}

// parseParenOrTuple handles `(expr)` grouping and `(e1, e2, ...)` tuple
// literals: a single parenthesized expression with no trailing comma is
// just that expression, anything else becomes a TupleLiteral.
func (p *Parser) parseParenOrTuple() ast.Expression {
	tok := p.cur
	p.next() // consume (
	if p.curIs(token.RPAREN) {
		p.next()
		return &ast.TupleLiteral{Token: tok}
	}
	first := p.parseExpression(lowest)
	elems := []ast.Expression{first}
	for p.curIs(token.COMMA) {
		p.next()
		elems = append(elems, p.parseExpression(lowest))
	}
	p.expect(token.RPAREN)
	if len(elems) == 1 {
		return elems[0]
	}
	return &ast.TupleLiteral{Token: tok, Elements: elems}
}

func (p *Parser) parseRecordLiteral() ast.Expression {
	tok := p.cur
	p.next() // consume {
	fields := map[string]ast.Expression{}
	var order []string
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if !p.curIs(token.IDENT) {
			p.errorf("expected field name, got %s", p.cur.Type)
			break
		}
		name := p.cur.Lexeme
		p.next()
		p.expect(token.COLON)
		val := p.parseExpression(lowest)
		fields[name] = val
		order = append(order, name)
		if p.curIs(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RBRACE)
	return &ast.RecordLiteral{Token: tok, Fields: fields, Order: order}
}

// parseCallArgs is entered with p.cur == LPAREN (the caller has already
// advanced past the callee/receiver).
func (p *Parser) parseCallArgs(callee ast.Expression, receiver ast.Expression) ast.Expression {
	tok := p.cur
	p.next() // consume (
	var args []ast.Expression
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		args = append(args, p.parseExpression(lowest))
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return &ast.CallExpression{Token: tok, Callee: callee, Receiver: receiver, Args: args}
}

// parseFieldOrMethod is entered with p.cur == DOT.
func (p *Parser) parseFieldOrMethod(base ast.Expression) ast.Expression {
	tok := p.cur
	p.next() // consume .
	if !p.curIs(token.IDENT) {
		p.errorf("expected field/method name after '.', got %s", p.cur.Type)
		return base
	}
	name := p.cur.Lexeme
	nameTok := p.cur
	p.next()
	if p.curIs(token.LPAREN) {
		return p.parseCallArgs(&ast.Identifier{Token: nameTok, Value: name}, base)
	}
	return &ast.FieldAccess{Token: tok, Base: base, Field: name}
}

func (p *Parser) parseBlockExpression() ast.Expression {
	tok := p.cur
	p.next() // consume 'do'
	p.expect(token.COLON)
	p.skipNewlines()
	var stmts []ast.Statement
	for !p.curIsKeyword("end") && !p.curIs(token.EOF) {
		stmts = append(stmts, p.parseStatement())
		p.skipNewlines()
	}
	if p.curIsKeyword("end") {
		p.next()
	} else {
		p.errorf("expected 'end' to close block, got %s", p.cur.Type)
	}
	return &ast.BlockExpression{Token: tok, Statements: stmts}
}

func (p *Parser) parseMatchExpression() ast.Expression {
	tok := p.cur
	p.next() // consume 'match'
	subject := p.parseExpression(lowest)
	p.expect(token.LBRACE)
	p.skipNewlines()
	var arms []*ast.MatchArm
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		arms = append(arms, p.parseMatchArm())
		p.skipNewlines()
		if p.curIs(token.COMMA) {
			p.next()
			p.skipNewlines()
		}
	}
	p.expect(token.RBRACE)
	return &ast.MatchExpression{Token: tok, Subject: subject, Arms: arms}
}

func (p *Parser) parseMatchArm() *ast.MatchArm {
	tok := p.cur
	pat := p.parsePattern()
	var guard ast.Expression
	if p.curIs(token.IF) {
		p.next()
		guard = p.parseExpression(lowest)
	}
	p.expect(token.ARROW)
	body := p.parseExpression(lowest)
	return &ast.MatchArm{Token: tok, Pattern: pat, Guard: guard, Body: body}
}
