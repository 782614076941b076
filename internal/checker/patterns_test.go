package checker

import (
	"testing"

	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/types"
)

func TestBindPatternTypedPatternIntersectsSubjectAndAnnotation(t *testing.T) {
	scope := freshModule("m")

	pat := &ast.TypedPattern{
		Token:      tok("n"),
		Inner:      &ast.IdentifierPattern{Token: tok("n"), Name: "n"},
		Annotation: namedType("Nat"),
	}
	// The subject carries information the annotation alone doesn't
	// (here, just Obj standing in for "whatever the match subject's
	// own type already was") — narrowing must keep both, not discard
	// the subject in favor of the bare annotation.
	bindPattern(scope, pat, types.PObj())

	info, _, ok := scope.GetVar("n")
	if !ok {
		t.Fatalf("expected n to be bound")
	}
	and, ok := info.Type.(types.And)
	if !ok {
		t.Fatalf("expected an intersection of subject and annotation, got %T (%s)", info.Type, info.Type)
	}
	if and.Left.String() != types.PObj().String() || and.Right.String() != types.PNat().String() {
		t.Fatalf("expected Obj and Nat, got %s", and)
	}
}

func TestBindPatternTypedPatternDedupsIdenticalSubjectAndAnnotation(t *testing.T) {
	scope := freshModule("m")

	pat := &ast.TypedPattern{
		Token:      tok("n"),
		Inner:      &ast.IdentifierPattern{Token: tok("n"), Name: "n"},
		Annotation: namedType("Nat"),
	}
	bindPattern(scope, pat, types.PNat())

	info, _, ok := scope.GetVar("n")
	if !ok {
		t.Fatalf("expected n to be bound")
	}
	if info.Type.String() != types.PNat().String() {
		t.Fatalf("expected the intersection of Nat and Nat to collapse to Nat, got %s", info.Type)
	}
}
