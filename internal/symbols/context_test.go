package symbols

import (
	"testing"

	"github.com/funvibe/funxy-types/internal/types"
)

func TestModuleContextSeesPrelude(t *testing.T) {
	ResetPrelude()
	mod := NewModuleContext("main")
	info, scope, ok := mod.GetVar("Int")
	if !ok {
		t.Fatalf("expected Int to resolve via the prelude outer link")
	}
	if scope != "prelude" {
		t.Fatalf("expected provenance scope \"prelude\", got %q", scope)
	}
	if info.Kind != TypeSymbol {
		t.Fatalf("expected Int to be registered as a TypeSymbol")
	}
}

func TestRegisterVarIsIdempotent(t *testing.T) {
	ResetPrelude()
	mod := NewModuleContext("main")
	first, existed := mod.RegisterVar("x", VarInfo{Name: "x", Type: types.PInt()})
	if existed {
		t.Fatalf("expected first registration to report not-existed")
	}
	second, existed := mod.RegisterVar("x", VarInfo{Name: "x", Type: types.Primitive{Kind_: types.Str}})
	if !existed {
		t.Fatalf("expected second registration to report existed")
	}
	if second != first {
		t.Fatalf("expected the original symbol to be returned unchanged on redeclaration")
	}
}

func TestOuterLinkIsBackReferenceOnly(t *testing.T) {
	ResetPrelude()
	mod := NewModuleContext("main")
	if mod.Outer() != GetPrelude() {
		t.Fatalf("expected module's outer to be the prelude singleton")
	}
	if _, _, ok := GetPrelude().GetVar("Int"); !ok {
		t.Fatalf("prelude lookups must not depend on any descendant module")
	}
}

func TestSimilarNameSuggestsNearestMatch(t *testing.T) {
	ResetPrelude()
	mod := NewModuleContext("main")
	mod.RegisterVar("counter", VarInfo{Name: "counter", Type: types.PInt()})
	suggestion, ok := mod.SimilarName("countre")
	if !ok || suggestion != "counter" {
		t.Fatalf("expected SimilarName to suggest %q, got %q (ok=%v)", "counter", suggestion, ok)
	}
}

func TestTraitImplsMinimum(t *testing.T) {
	ResetPrelude()
	impls := GetPrelude().TraitImpls("Add")
	if len(impls) == 0 {
		t.Fatalf("expected at least one Add trait impl registered in the prelude")
	}
	found := false
	for _, impl := range impls {
		if impl.TargetType.String() == types.PNat().String() {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Add's minimum sub-type to be Nat")
	}
}
