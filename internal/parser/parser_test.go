package parser

import (
	"testing"

	"github.com/funvibe/funxy-types/internal/ast"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(src)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	return prog
}

func TestParsesUnannotatedFunctionDeclaration(t *testing.T) {
	prog := parseProgram(t, "id x = x")
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	fd, ok := prog.Statements[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected *ast.FunctionDeclaration, got %T", prog.Statements[0])
	}
	if fd.Name.Value != "id" {
		t.Fatalf("expected name id, got %s", fd.Name.Value)
	}
	if len(fd.Params) != 1 || fd.Params[0].Name.Value != "x" {
		t.Fatalf("expected one param named x, got %#v", fd.Params)
	}
	body, ok := fd.Body.(*ast.Identifier)
	if !ok || body.Value != "x" {
		t.Fatalf("expected body identifier x, got %#v", fd.Body)
	}
}

func TestParsesAnnotatedFunctionDeclaration(t *testing.T) {
	prog := parseProgram(t, "add(x: Int, y: Int) -> Int = x + y")
	fd := prog.Statements[0].(*ast.FunctionDeclaration)
	if len(fd.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fd.Params))
	}
	for _, param := range fd.Params {
		nt, ok := param.Annotation.(*ast.NamedTypeSpec)
		if !ok || nt.Name != "Int" {
			t.Fatalf("expected Int annotation, got %#v", param.Annotation)
		}
	}
	ret, ok := fd.ReturnType.(*ast.NamedTypeSpec)
	if !ok || ret.Name != "Int" {
		t.Fatalf("expected Int return type, got %#v", fd.ReturnType)
	}
	if fd.IsProc {
		t.Fatalf("expected Func (->), not Proc")
	}
	bin, ok := fd.Body.(*ast.BinaryExpression)
	if !ok || bin.Operator != "+" {
		t.Fatalf("expected x + y body, got %#v", fd.Body)
	}
}

func TestParsesProcDeclaration(t *testing.T) {
	prog := parseProgram(t, "bump(x: Int) => Int = x")
	fd := prog.Statements[0].(*ast.FunctionDeclaration)
	if !fd.IsProc {
		t.Fatalf("expected Proc (=>)")
	}
}

func TestParsesVarAndConstDeclarations(t *testing.T) {
	prog := parseProgram(t, "pi :- 3.14\ncounter = 0")
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Statements))
	}
	cd, ok := prog.Statements[0].(*ast.ConstDeclaration)
	if !ok || cd.Name.Value != "pi" {
		t.Fatalf("expected const pi, got %#v", prog.Statements[0])
	}
	vd, ok := prog.Statements[1].(*ast.VarDeclaration)
	if !ok || vd.Name.Value != "counter" {
		t.Fatalf("expected var counter, got %#v", prog.Statements[1])
	}
}

func TestParsesAnnotatedVarDeclaration(t *testing.T) {
	prog := parseProgram(t, "total: Int = 0")
	vd := prog.Statements[0].(*ast.VarDeclaration)
	nt, ok := vd.Annotation.(*ast.NamedTypeSpec)
	if !ok || nt.Name != "Int" {
		t.Fatalf("expected Int annotation, got %#v", vd.Annotation)
	}
}

func TestParsesRecordTypeDeclaration(t *testing.T) {
	prog := parseProgram(t, "type Point = {\nx: Int,\ny: Int\n}")
	rtd, ok := prog.Statements[0].(*ast.RecordTypeDeclaration)
	if !ok {
		t.Fatalf("expected *ast.RecordTypeDeclaration, got %T", prog.Statements[0])
	}
	if rtd.Name.Value != "Point" {
		t.Fatalf("expected Point, got %s", rtd.Name.Value)
	}
	if len(rtd.Order) != 2 || rtd.Order[0] != "x" || rtd.Order[1] != "y" {
		t.Fatalf("expected fields x, y in order, got %v", rtd.Order)
	}
}

func TestParsesCallAndMethodCall(t *testing.T) {
	prog := parseProgram(t, "f(1, 2).g(3)")
	es := prog.Statements[0].(*ast.ExpressionStatement)
	outer, ok := es.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected outer call, got %#v", es.Expression)
	}
	if outer.Receiver == nil {
		t.Fatalf("expected a receiver for the .g(3) call")
	}
	inner, ok := outer.Receiver.(*ast.CallExpression)
	if !ok || inner.Receiver != nil {
		t.Fatalf("expected f(1, 2) as a plain inner call, got %#v", outer.Receiver)
	}
	if len(inner.Args) != 2 || len(outer.Args) != 1 {
		t.Fatalf("expected 2 then 1 args, got %d then %d", len(inner.Args), len(outer.Args))
	}
}

func TestParsesTupleAndRecordLiterals(t *testing.T) {
	prog := parseProgram(t, "(1, 2, 3)")
	es := prog.Statements[0].(*ast.ExpressionStatement)
	tup, ok := es.Expression.(*ast.TupleLiteral)
	if !ok || len(tup.Elements) != 3 {
		t.Fatalf("expected 3-tuple, got %#v", es.Expression)
	}

	prog2 := parseProgram(t, `{x: 1, y: 2}`)
	es2 := prog2.Statements[0].(*ast.ExpressionStatement)
	rec, ok := es2.Expression.(*ast.RecordLiteral)
	if !ok || len(rec.Order) != 2 {
		t.Fatalf("expected 2-field record, got %#v", es2.Expression)
	}
}

func TestParsesMatchExpression(t *testing.T) {
	prog := parseProgram(t, "match n {\n0 -> 1,\nx -> x\n}")
	es := prog.Statements[0].(*ast.ExpressionStatement)
	me, ok := es.Expression.(*ast.MatchExpression)
	if !ok {
		t.Fatalf("expected match expression, got %#v", es.Expression)
	}
	if len(me.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(me.Arms))
	}
	if _, ok := me.Arms[0].Pattern.(*ast.LiteralPattern); !ok {
		t.Fatalf("expected literal pattern in first arm, got %#v", me.Arms[0].Pattern)
	}
	if _, ok := me.Arms[1].Pattern.(*ast.IdentifierPattern); !ok {
		t.Fatalf("expected identifier pattern in second arm, got %#v", me.Arms[1].Pattern)
	}
}

func TestParsesBlockExpression(t *testing.T) {
	prog := parseProgram(t, "run x = do:\ny = x + 1\ny\nend")
	fd := prog.Statements[0].(*ast.FunctionDeclaration)
	block, ok := fd.Body.(*ast.BlockExpression)
	if !ok {
		t.Fatalf("expected block body, got %#v", fd.Body)
	}
	if len(block.Statements) != 2 {
		t.Fatalf("expected 2 statements in block, got %d", len(block.Statements))
	}
}

func TestParsesVarArgsParam(t *testing.T) {
	prog := parseProgram(t, "sum(..rest: Int) -> Int = rest")
	fd := prog.Statements[0].(*ast.FunctionDeclaration)
	if fd.VarArgs == nil || fd.VarArgs.Name.Value != "rest" {
		t.Fatalf("expected varargs param rest, got %#v", fd.VarArgs)
	}
}
