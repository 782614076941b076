package checker

import (
	"testing"

	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/diagnostics"
	"github.com/funvibe/funxy-types/internal/symbols"
	"github.com/funvibe/funxy-types/internal/token"
	"github.com/funvibe/funxy-types/internal/types"
)

func freshModule(name string) *symbols.Context {
	symbols.ResetPrelude()
	return symbols.NewModuleContext(name)
}

func tok(lexeme string) token.Token {
	return token.Token{Lexeme: lexeme, Line: 1, Column: 1}
}

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Token: tok(name), Value: name}
}

func namedType(name string) *ast.NamedTypeSpec {
	return &ast.NamedTypeSpec{Token: tok(name), Name: name}
}

func TestCheckUnannotatedIdentityIsGeneralized(t *testing.T) {
	scope := freshModule("m")
	bag := diagnostics.NewBag()

	fd := &ast.FunctionDeclaration{
		Token:  tok("id"),
		Name:   ident("id"),
		Params: []*ast.Param{{Name: ident("x")}},
		Body:   ident("x"),
	}
	prog := &ast.Program{Statements: []ast.Statement{fd}}

	New(scope, bag, "m.fx").Check(prog)

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Errors())
	}
	info, _, ok := scope.GetVar("id")
	if !ok {
		t.Fatalf("expected id to be registered")
	}
	q, ok := info.Type.(types.Quantified)
	if !ok {
		t.Fatalf("expected id's type to be generalized into a Quantified, got %T", info.Type)
	}
	if len(q.Inner.Params) != 1 {
		t.Fatalf("expected one parameter in the generalized signature, got %d", len(q.Inner.Params))
	}
}

func TestCheckPolymorphicIdentityCallNarrowsToSingleton(t *testing.T) {
	scope := freshModule("m")
	bag := diagnostics.NewBag()

	fd := &ast.FunctionDeclaration{
		Token:  tok("id"),
		Name:   ident("id"),
		Params: []*ast.Param{{Name: ident("x")}},
		Body:   ident("x"),
	}
	call := &ast.CallExpression{
		Token:  tok("id"),
		Callee: ident("id"),
		Args:   []ast.Expression{&ast.IntegerLiteral{Token: tok("1"), Value: 1}},
	}
	stmt := &ast.ExpressionStatement{Token: tok("id"), Expression: call}
	prog := &ast.Program{Statements: []ast.Statement{fd, stmt}}

	checker := New(scope, bag, "m.fx")
	checker.Check(prog)

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Errors())
	}
	info, _, ok := scope.GetVar("id")
	if !ok {
		t.Fatalf("expected id to be registered")
	}
	if _, ok := info.Type.(types.Quantified); !ok {
		t.Fatalf("expected id's declared type to stay a Quantified T -> T, got %T", info.Type)
	}
	callType := checker.TypeOf[call]
	if callType == nil {
		t.Fatalf("expected the call expression to have a recorded type")
	}
	if callType.String() != "{1}" {
		t.Fatalf("expected `id 1` to narrow to the singleton {1} at the call site, got %s", callType)
	}
}

func TestCheckAnnotatedAddFunctionNoErrors(t *testing.T) {
	scope := freshModule("m")
	bag := diagnostics.NewBag()

	fd := &ast.FunctionDeclaration{
		Token: tok("add"),
		Name:  ident("add"),
		Params: []*ast.Param{
			{Name: ident("x"), Annotation: namedType("Int")},
			{Name: ident("y"), Annotation: namedType("Int")},
		},
		ReturnType: namedType("Int"),
		Body: &ast.BinaryExpression{
			Token:    tok("+"),
			Operator: "+",
			Left:     ident("x"),
			Right:    ident("y"),
		},
	}
	prog := &ast.Program{Statements: []ast.Statement{fd}}

	New(scope, bag, "m.fx").Check(prog)

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Errors())
	}
	info, _, ok := scope.GetVar("add")
	if !ok {
		t.Fatalf("expected add to be registered")
	}
	q, ok := info.Type.(types.Quantified)
	if !ok {
		t.Fatalf("expected add's type to be a Quantified wrapper, got %T", info.Type)
	}
	if len(q.Bounds.Names()) != 0 {
		t.Fatalf("expected no quantified variables for a fully-annotated signature, got %v", q.Bounds.Names())
	}
	if q.Inner.Return.String() != types.PInt().String() {
		t.Fatalf("expected Int return type, got %s", q.Inner.Return)
	}
}

func TestCheckUnknownIdentifierReportsNameError(t *testing.T) {
	scope := freshModule("m")
	bag := diagnostics.NewBag()

	fd := &ast.FunctionDeclaration{
		Token:  tok("bogus"),
		Name:   ident("bogus"),
		Params: []*ast.Param{{Name: ident("x")}},
		Body:   ident("y"),
	}
	prog := &ast.Program{Statements: []ast.Statement{fd}}

	New(scope, bag, "m.fx").Check(prog)

	if !bag.HasErrors() {
		t.Fatalf("expected a NameError for the unbound identifier y")
	}
	if bag.Errors()[0].Code != diagnostics.NameError {
		t.Fatalf("expected NameError, got %s", bag.Errors()[0].Code)
	}
}

func TestCheckMutualRecursionResolvesForwardReference(t *testing.T) {
	scope := freshModule("m")
	bag := diagnostics.NewBag()

	// isEven n = isOdd(n)
	isEven := &ast.FunctionDeclaration{
		Token:  tok("isEven"),
		Name:   ident("isEven"),
		Params: []*ast.Param{{Name: ident("n")}},
		Body: &ast.CallExpression{
			Token:  tok("isOdd"),
			Callee: ident("isOdd"),
			Args:   []ast.Expression{ident("n")},
		},
	}
	// isOdd n = isEven(n)
	isOdd := &ast.FunctionDeclaration{
		Token:  tok("isOdd"),
		Name:   ident("isOdd"),
		Params: []*ast.Param{{Name: ident("n")}},
		Body: &ast.CallExpression{
			Token:  tok("isEven"),
			Callee: ident("isEven"),
			Args:   []ast.Expression{ident("n")},
		},
	}
	prog := &ast.Program{Statements: []ast.Statement{isEven, isOdd}}

	New(scope, bag, "m.fx").Check(prog)

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics for mutually recursive declarations: %v", bag.Errors())
	}
	if _, _, ok := scope.GetVar("isEven"); !ok {
		t.Fatalf("expected isEven to be registered")
	}
	if _, _, ok := scope.GetVar("isOdd"); !ok {
		t.Fatalf("expected isOdd to be registered")
	}
}

func TestCheckRecordTypeDeclarationAndFieldAccess(t *testing.T) {
	scope := freshModule("m")
	bag := diagnostics.NewBag()

	rtd := &ast.RecordTypeDeclaration{
		Token:  tok("Point"),
		Name:   ident("Point"),
		Fields: map[string]ast.TypeSpec{"x": namedType("Int"), "y": namedType("Int")},
		Order:  []string{"x", "y"},
	}
	access := &ast.FunctionDeclaration{
		Token:  tok("getX"),
		Name:   ident("getX"),
		Params: []*ast.Param{{Name: ident("p")}},
		Body: &ast.FieldAccess{
			Token: tok("."),
			Base:  ident("p"),
			Field: "x",
		},
	}
	prog := &ast.Program{Statements: []ast.Statement{rtd, access}}

	New(scope, bag, "m.fx").Check(prog)

	// p has no annotation, so its type is an unconstrained free-var;
	// field access against it falls through both Record-literal and
	// ResolveProj branches and reports a NameError — this pins the
	// current behavior for unannotated structural access.
	if !bag.HasErrors() {
		t.Fatalf("expected a diagnostic for field access on an unconstrained parameter")
	}

	if _, ok := scope.LookupNominal("Point"); !ok {
		t.Fatalf("expected Point to be registered as a nominal type")
	}
}

func TestCheckNatAnnotatedLiteralNarrowsAndClosesUnderAdd(t *testing.T) {
	scope := freshModule("m")
	bag := diagnostics.NewBag()

	x := &ast.VarDeclaration{
		Token:      tok("x"),
		Name:       ident("x"),
		Annotation: namedType("Nat"),
		Value:      &ast.IntegerLiteral{Token: tok("3"), Value: 3},
	}
	y := &ast.VarDeclaration{
		Token: tok("y"),
		Name:  ident("y"),
		Value: &ast.BinaryExpression{
			Token:    tok("+"),
			Operator: "+",
			Left:     ident("x"),
			Right:    &ast.IntegerLiteral{Token: tok("1"), Value: 1},
		},
	}
	prog := &ast.Program{Statements: []ast.Statement{x, y}}

	New(scope, bag, "m.fx").Check(prog)

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics assigning a non-negative Int literal to a Nat-annotated variable: %v", bag.Errors())
	}
	xInfo, _, ok := scope.GetVar("x")
	if !ok {
		t.Fatalf("expected x to be registered")
	}
	if xInfo.Type.String() != types.PNat().String() {
		t.Fatalf("expected x: Nat, got %s", xInfo.Type)
	}
	yInfo, _, ok := scope.GetVar("y")
	if !ok {
		t.Fatalf("expected y to be registered")
	}
	if yInfo.Type.String() != types.PNat().String() {
		t.Fatalf("expected y: Nat (closure under + over Nat), got %s", yInfo.Type)
	}
}

func TestCheckVarAndConstDeclarationTypeMismatch(t *testing.T) {
	scope := freshModule("m")
	bag := diagnostics.NewBag()

	vd := &ast.VarDeclaration{
		Token:      tok("n"),
		Name:       ident("n"),
		Annotation: namedType("Str"),
		Value:      &ast.IntegerLiteral{Token: tok("3"), Value: 3},
	}
	prog := &ast.Program{Statements: []ast.Statement{vd}}

	New(scope, bag, "m.fx").Check(prog)

	if !bag.HasErrors() {
		t.Fatalf("expected a type error assigning an Int literal to a Str-annotated variable")
	}
	if bag.Errors()[0].Code != diagnostics.TypeError {
		t.Fatalf("expected TypeError, got %s", bag.Errors()[0].Code)
	}
}

func TestCheckMatchExpressionBindsPatternAndJoinsArms(t *testing.T) {
	scope := freshModule("m")
	bag := diagnostics.NewBag()

	fd := &ast.FunctionDeclaration{
		Token: tok("describe"),
		Name:  ident("describe"),
		Params: []*ast.Param{
			{Name: ident("n"), Annotation: namedType("Int")},
		},
		Body: &ast.MatchExpression{
			Token:   tok("match"),
			Subject: ident("n"),
			Arms: []*ast.MatchArm{
				{
					Token:   tok("_"),
					Pattern: &ast.IdentifierPattern{Token: tok("m"), Name: "m"},
					Body:    ident("m"),
				},
			},
		},
	}
	prog := &ast.Program{Statements: []ast.Statement{fd}}

	New(scope, bag, "m.fx").Check(prog)

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Errors())
	}
}
