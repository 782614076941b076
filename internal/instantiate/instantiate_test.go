package instantiate

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

func TestTranslateNamedResolvesBuiltin(t *testing.T) {
	scope := freshModule("m")
	bag := diagnostics.NewBag()
	in := New(scope, types.NewTyVarContext(0), bag, "m.fx")

	got := in.TranslateTypeSpec(&ast.NamedTypeSpec{Token: tok("Nat"), Name: "Nat"})
	if got.String() != types.PNat().String() {
		t.Fatalf("expected Nat, got %s", got.String())
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Errors())
	}
}

func TestTranslateNamedReportsNameErrorWithSuggestion(t *testing.T) {
	scope := freshModule("m")
	bag := diagnostics.NewBag()
	in := New(scope, types.NewTyVarContext(0), bag, "m.fx")

	in.TranslateTypeSpec(&ast.NamedTypeSpec{Token: tok("Nqt"), Name: "Nqt"})
	if !bag.HasErrors() {
		t.Fatalf("expected a NameError for an unresolvable bare identifier")
	}
	if bag.Errors()[0].Code != diagnostics.NameError {
		t.Fatalf("expected NameError, got %v", bag.Errors()[0].Code)
	}
}

func TestInstantiateBoundSetSandwichedCyclicity(t *testing.T) {
	scope := freshModule("m")
	bag := diagnostics.NewBag()
	tv := types.NewTyVarContext(0)
	in := New(scope, tv, bag, "m.fx")

	bounds := []*ast.BoundSpec{
		{Token: tok("T"), Subject: "T", Kind: ast.SandwichedBound},
	}
	bs := in.InstantiateBoundSet(bounds)
	if len(bs.Names()) != 1 || bs.Names()[0] != "T" {
		t.Fatalf("expected bound set with subject T, got %v", bs.Names())
	}
	if _, ok := tv.GetTyVar("T"); !ok {
		t.Fatalf("expected T to be pushed into the TyVarContext")
	}
}

func TestInstantiateSignatureUnannotatedParamGetsFreeVar(t *testing.T) {
	scope := freshModule("m")
	bag := diagnostics.NewBag()
	tv := types.NewTyVarContext(0)
	in := New(scope, tv, bag, "m.fx")

	fd := &ast.FunctionDeclaration{
		Token: tok("id"),
		Name:  &ast.Identifier{Token: tok("id"), Value: "id"},
		Params: []*ast.Param{
			{Name: &ast.Identifier{Token: tok("x"), Value: "x"}},
		},
	}
	subr := in.InstantiateSignature(fd, false)
	if len(subr.Params) != 1 {
		t.Fatalf("expected 1 param, got %d", len(subr.Params))
	}
	fv, ok := subr.Params[0].(types.FreeVarType)
	if !ok {
		t.Fatalf("expected unannotated param to be a FreeVarType, got %T", subr.Params[0])
	}
	if fv.Cell.Level() != tv.Level()+1 {
		t.Fatalf("expected function-local param level %d, got %d", tv.Level()+1, fv.Cell.Level())
	}
}

func TestInstantiateSignaturePreRegisterUsesCurrentLevel(t *testing.T) {
	scope := freshModule("m")
	bag := diagnostics.NewBag()
	tv := types.NewTyVarContext(2)
	in := New(scope, tv, bag, "m.fx")

	fd := &ast.FunctionDeclaration{
		Token: tok("f"),
		Name:  &ast.Identifier{Token: tok("f"), Value: "f"},
		Params: []*ast.Param{
			{Name: &ast.Identifier{Token: tok("x"), Value: "x"}},
		},
	}
	subr := in.InstantiateSignature(fd, true)
	fv := subr.Params[0].(types.FreeVarType)
	if fv.Cell.Level() != tv.Level() {
		t.Fatalf("expected pre-register param at current level %d, got %d", tv.Level(), fv.Cell.Level())
	}
}

func TestInstantiateSignatureAnnotatedParamUsesTranslatedType(t *testing.T) {
	scope := freshModule("m")
	bag := diagnostics.NewBag()
	in := New(scope, types.NewTyVarContext(0), bag, "m.fx")

	fd := &ast.FunctionDeclaration{
		Token: tok("inc"),
		Name:  &ast.Identifier{Token: tok("inc"), Value: "inc"},
		Params: []*ast.Param{
			{Name: &ast.Identifier{Token: tok("n"), Value: "n"}, Annotation: &ast.NamedTypeSpec{Token: tok("Nat"), Name: "Nat"}},
		},
		ReturnType: &ast.NamedTypeSpec{Token: tok("Nat"), Name: "Nat"},
	}
	subr := in.InstantiateSignature(fd, false)
	if subr.Params[0].String() != types.PNat().String() {
		t.Fatalf("expected annotated param Nat, got %s", subr.Params[0].String())
	}
	if subr.Return.String() != types.PNat().String() {
		t.Fatalf("expected Nat return, got %s", subr.Return.String())
	}
}

func TestCallSiteInstantiateBindsSelf(t *testing.T) {
	scope := freshModule("m")
	bag := diagnostics.NewBag()

	cell := types.NewFreeVar(1, "Self", types.UninitedConstraint())
	q := types.Generalize(types.Subr{
		SubrKind: types.Func,
		Params:   []types.Type{types.FreeVarType{Cell: cell}},
		Return:   types.PNat(),
	}, 0)

	subr := CallSiteInstantiate(scope, q, types.PNat(), bag, "m.fx", tok("self"))
	if bag.HasErrors() {
		t.Fatalf("expected self-binding to unify cleanly, got %v", bag.Errors())
	}
	if subr.Return.String() != types.PNat().String() {
		t.Fatalf("expected instantiated return Nat, got %s", subr.Return.String())
	}
}
