package types

import "testing"

// TestGeneralizeIdempotence exercises the polymorphic-identity scenario
// (spec.md §8): `id x = x` generalizes to `T -> T` with T unconstrained.
func TestGeneralizeIdempotence(t *testing.T) {
	cell := NewFreeVar(1, "x", UninitedConstraint())
	inner := Subr{SubrKind: Func, Params: []Type{FreeVarType{Cell: cell}}, Return: FreeVarType{Cell: cell}}

	q := Generalize(inner, 0)

	if len(q.Bounds.Names()) != 1 {
		t.Fatalf("expected exactly one generalized variable, got %d", len(q.Bounds.Names()))
	}
	name := q.Bounds.Names()[0]
	param, ok := q.Inner.Params[0].(MonoQVar)
	if !ok || param.Name != name {
		t.Fatalf("expected param to be generalized to MonoQVar(%s), got %v", name, q.Inner.Params[0])
	}
	ret, ok := q.Inner.Return.(MonoQVar)
	if !ok || ret.Name != name {
		t.Fatalf("expected return to be generalized to the same MonoQVar(%s), got %v", name, q.Inner.Return)
	}
}

func TestGeneralizeSkipsOuterLevelVars(t *testing.T) {
	outer := NewFreeVar(0, "outer", UninitedConstraint())
	inner := Subr{SubrKind: Func, Params: []Type{FreeVarType{Cell: outer}}, Return: PInt()}

	// enclosingLevel == outer's level, so it must NOT be generalized
	// (only vars with level > enclosingLevel are captured).
	q := Generalize(inner, 0)
	if len(q.Bounds.Names()) != 0 {
		t.Fatalf("expected no generalized variables for a var at the enclosing level, got %v", q.Bounds.Names())
	}
	if _, ok := q.Inner.Params[0].(FreeVarType); !ok {
		t.Fatalf("expected the outer-level free-var to remain a FreeVarType, got %v", q.Inner.Params[0])
	}
}

// TestInstantiateGeneralizeRoundTrip exercises generalize(instantiate(q)) ≡ q.
func TestInstantiateGeneralizeRoundTrip(t *testing.T) {
	cell := NewFreeVar(1, "x", UninitedConstraint())
	inner := Subr{SubrKind: Func, Params: []Type{FreeVarType{Cell: cell}}, Return: FreeVarType{Cell: cell}}
	q := Generalize(inner, 0)

	instantiated, _ := Instantiate(q, 1)
	q2 := Generalize(instantiated, 0)

	if q2.String() != q.String() {
		t.Fatalf("generalize(instantiate(q)) not idempotent modulo renaming: got %s, want %s", q2.String(), q.String())
	}
}
