package parser

import (
	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/token"
)

// parseDeclaration is entered with p.cur an IDENT already confirmed (by
// startsDeclaration) to begin a var/const/function declaration.
func (p *Parser) parseDeclaration() ast.Statement {
	if p.peek.Type == token.LPAREN {
		return p.parseParenHeaded()
	}

	tok := p.cur
	name := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	p.next()

	if p.curIs(token.IDENT) {
		return p.finishFunctionDeclaration(tok, name, false)
	}

	var annotation ast.TypeSpec
	if p.curIs(token.COLON) {
		p.next()
		annotation = p.parseTypeSpec()
	}

	switch p.cur.Type {
	case token.ASSIGN:
		p.next()
		val := p.parseExpression(lowest)
		return &ast.VarDeclaration{Token: tok, Name: name, Annotation: annotation, Value: val}
	case token.COLONMINUS:
		p.next()
		val := p.parseExpression(lowest)
		return &ast.ConstDeclaration{Token: tok, Name: name, Annotation: annotation, Value: val}
	case token.ARROW, token.PROCARROW:
		// A bare name with no params at all, still given a return-type
		// arrow: `f -> Int = 0`. Treated as a zero-param function.
		return p.finishFunctionSignature(tok, name, nil, nil)
	default:
		p.errorf("expected '=', ':-', or function parameters after %q, got %s", name.Value, p.cur.Type)
		return &ast.ExpressionStatement{Token: tok, Expression: name}
	}
}

// parseParenHeaded speculatively parses `name(...)` as an annotated
// function declaration; if that produces a parse error (because the
// parens actually held call arguments, not a parameter list), it rolls
// back to the checkpoint and reparses the whole thing as a plain
// expression statement instead. See checkpoint's doc comment.
func (p *Parser) parseParenHeaded() ast.Statement {
	cp := p.mark()
	tok := p.cur
	name := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	p.next()

	errsBefore := len(p.errors)
	stmt := p.finishFunctionDeclaration(tok, name, true)
	if len(p.errors) > errsBefore {
		p.reset(cp)
		return p.parseExpressionStatement()
	}
	return stmt
}

// finishFunctionDeclaration parses a function's parameter list — either
// parenthesized-with-annotations (`(x: Int, y: Int)`) or bare
// space-separated names (`x y`) — then hands off to
// finishFunctionSignature for the arrow/return-type/body tail shared by
// both forms.
func (p *Parser) finishFunctionDeclaration(tok token.Token, name *ast.Identifier, parenthesized bool) ast.Statement {
	var params []*ast.Param
	var varArgs *ast.Param

	if parenthesized {
		p.next() // consume (
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			if p.curIs(token.DOTDOT) {
				p.next()
				varArgs = p.parseParam()
			} else {
				params = append(params, p.parseParam())
			}
			if p.curIs(token.COMMA) {
				p.next()
				continue
			}
			break
		}
		p.expect(token.RPAREN)
	} else {
		for p.curIs(token.IDENT) {
			params = append(params, &ast.Param{Name: &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}})
			p.next()
		}
	}

	return p.finishFunctionSignature(tok, name, params, varArgs)
}

func (p *Parser) finishFunctionSignature(tok token.Token, name *ast.Identifier, params []*ast.Param, varArgs *ast.Param) ast.Statement {
	fd := &ast.FunctionDeclaration{Token: tok, Name: name, Params: params, VarArgs: varArgs}

	switch p.cur.Type {
	case token.ARROW:
		p.next()
		fd.ReturnType = p.parseTypeSpec()
	case token.PROCARROW:
		fd.IsProc = true
		p.next()
		fd.ReturnType = p.parseTypeSpec()
	}

	if !p.expect(token.ASSIGN) {
		return fd
	}
	fd.Body = p.parseExpression(lowest)
	return fd
}

func (p *Parser) parseParam() *ast.Param {
	if !p.curIs(token.IDENT) {
		p.errorf("expected parameter name, got %s", p.cur.Type)
		return &ast.Param{}
	}
	param := &ast.Param{Name: &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}}
	p.next()
	if p.curIs(token.COLON) {
		p.next()
		param.Annotation = p.parseTypeSpec()
	}
	if p.curIs(token.ASSIGN) {
		p.next()
		param.Default = p.parseExpression(lowest)
	}
	return param
}

// parseRecordTypeDeclaration: `type Name = { field: TypeSpec, ... }`.
// "type" has no reserved token of its own (see curIsKeyword), since the
// only place it is meaningful is statement position.
func (p *Parser) parseRecordTypeDeclaration() ast.Statement {
	tok := p.cur
	p.next() // consume 'type'
	if !p.curIs(token.TYPEIDENT) {
		p.errorf("expected a type name after 'type', got %s", p.cur.Type)
	}
	name := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	p.next()
	p.expect(token.ASSIGN)

	rtd := &ast.RecordTypeDeclaration{Token: tok, Name: name, Fields: map[string]ast.TypeSpec{}}
	p.expect(token.LBRACE)
	p.skipNewlines()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if !p.curIs(token.IDENT) {
			p.errorf("expected field name, got %s", p.cur.Type)
			break
		}
		fieldName := p.cur.Lexeme
		p.next()
		p.expect(token.COLON)
		rtd.Fields[fieldName] = p.parseTypeSpec()
		rtd.Order = append(rtd.Order, fieldName)
		p.skipNewlines()
		if p.curIs(token.COMMA) {
			p.next()
			p.skipNewlines()
		}
	}
	p.expect(token.RBRACE)
	return rtd
}
