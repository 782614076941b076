package types

import "testing"

func TestNumericTowerReflexiveTransitive(t *testing.T) {
	tower := []Primitive{PNat(), PInt(), {Kind_: Ratio}, {Kind_: Float}}
	for _, ty := range tower {
		if err := SubUnify(ty, ty, nil); err != nil {
			t.Fatalf("expected %s <: %s (reflexivity), got %v", ty, ty, err)
		}
	}
	for i := 0; i < len(tower); i++ {
		for j := i; j < len(tower); j++ {
			if err := SubUnify(tower[i], tower[j], nil); err != nil {
				t.Fatalf("expected %s <: %s on the numeric tower, got %v", tower[i], tower[j], err)
			}
		}
	}
	// Transitivity: Nat <: Int and Int <: Ratio implies Nat <: Ratio.
	if err := SubUnify(PNat(), Primitive{Kind_: Ratio}, nil); err != nil {
		t.Fatalf("transitivity failed: %v", err)
	}
	if SubUnify(Primitive{Kind_: Float}, PNat(), nil) == nil {
		t.Fatalf("expected Float <: Nat to fail")
	}
}

func TestNeverAndObj(t *testing.T) {
	if err := SubUnify(PNever(), PInt(), nil); err != nil {
		t.Fatalf("Never <: T must always hold: %v", err)
	}
	if err := SubUnify(PInt(), PObj(), nil); err != nil {
		t.Fatalf("T <: Obj must always hold: %v", err)
	}
}

func TestRefinementSubtyping(t *testing.T) {
	// Nat :> {I: Int | I >= 1}
	refined := Refinement{
		Bound: "I",
		Base:  PInt(),
		Preds: []Predicate{PredCmp{Op: CmpGe, Lhs: QVarTyParam{Name: "I"}, Rhs: ConstTyParam{Value: IntConst(1)}}},
	}
	if err := SubUnify(refined, PNat(), nil); err != nil {
		t.Fatalf("expected {I: Int | I >= 1} <: Nat, got %v", err)
	}

	// {I: Int | I >= 2} :> Nat does not hold (Nat is unrefined and
	// cannot establish the predicate).
	refined2 := Refinement{
		Bound: "I",
		Base:  PInt(),
		Preds: []Predicate{PredCmp{Op: CmpGe, Lhs: QVarTyParam{Name: "I"}, Rhs: ConstTyParam{Value: IntConst(2)}}},
	}
	if err := SubUnify(PNat(), refined2, nil); err == nil {
		t.Fatalf("expected Nat <: {I: Int | I >= 2} to fail")
	}
}

func TestVEnumSingletonNarrowsAgainstNat(t *testing.T) {
	// A literal's singleton type narrows by value, not by syntactic
	// kind: 3 is an IntConst (Int sits above Nat in the tower) but its
	// value is non-negative, so {3} <: Nat must hold.
	three := VEnum{Values: []Const{IntConst(3)}}
	if err := SubUnify(three, PNat(), nil); err != nil {
		t.Fatalf("expected {3} <: Nat, got %v", err)
	}
	negOne := VEnum{Values: []Const{IntConst(-1)}}
	if SubUnify(negOne, PNat(), nil) == nil {
		t.Fatalf("expected {-1} <: Nat to fail")
	}
}

func TestVEnumAsExpectedAcceptsNeverAndSubset(t *testing.T) {
	oneTwo := VEnum{Values: []Const{IntConst(1), IntConst(2)}}
	if err := SubUnify(PNever(), oneTwo, nil); err != nil {
		t.Fatalf("Never <: {1, 2} must always hold: %v", err)
	}
	one := VEnum{Values: []Const{IntConst(1)}}
	if err := SubUnify(one, oneTwo, nil); err != nil {
		t.Fatalf("expected {1} <: {1, 2}, got %v", err)
	}
	three := VEnum{Values: []Const{IntConst(3)}}
	if SubUnify(three, oneTwo, nil) == nil {
		t.Fatalf("expected {3} <: {1, 2} to fail")
	}
	if SubUnify(PInt(), oneTwo, nil) == nil {
		t.Fatalf("expected an unrefined Int <: {1, 2} to fail")
	}
}

func TestOccursCheckRejectsWithoutCyclicity(t *testing.T) {
	cell := NewFreeVar(1, "a", UninitedConstraint())
	self := FreeVarType{Cell: cell}
	arr := Poly{Name: "Array", Params: []TyParam{TypeTyParam{T: self}, ConstTyParam{Value: IntConst(3)}}}
	if err := cell.Link(arr); err == nil {
		t.Fatalf("expected occurs-check error linking a free-var to a type containing itself")
	}
}

func TestOccursCheckAllowedWhenCyclicitySanctions(t *testing.T) {
	cell := NewFreeVar(1, "a", Sandwiched(PNever(), PObj(), CyclicSub))
	self := FreeVarType{Cell: cell}
	eqT := Poly{Name: "Eq", Params: []TyParam{TypeTyParam{T: self}}}
	if err := cell.Link(eqT); err != nil {
		t.Fatalf("expected cyclic link to succeed when sanctioned by cyclicity: %v", err)
	}
}

func TestRecordWidthAndDepthSubtyping(t *testing.T) {
	wide := Record{Fields: map[string]Type{"x": PInt(), "y": PInt()}}
	narrow := Record{Fields: map[string]Type{"x": PNat()}}
	if err := SubUnify(wide, narrow, nil); err == nil {
		t.Fatalf("width subtyping requires the actual type's field to be a subtype, got unexpected success")
	}
	wideOK := Record{Fields: map[string]Type{"x": PNat(), "y": PInt()}}
	if err := SubUnify(wideOK, narrow, nil); err != nil {
		t.Fatalf("expected width+depth subtyping to succeed: %v", err)
	}
}

type stubResolver struct {
	supers map[string][]Type
}

func (s stubResolver) Supertypes(name string) []Type { return s.supers[name] }
func (s stubResolver) ResolveProj(lhs Type, name string) (Type, bool) { return nil, false }

func TestTraitResolutionMinimum(t *testing.T) {
	// "for trait Add with parameter Nat, the minimum sub-type in the
	// trait-impl index equals Nat" — modeled as: Nat's registered
	// supertype chain includes the Add(Nat) instance type itself, and
	// no narrower type than Nat satisfies it.
	r := stubResolver{supers: map[string][]Type{
		"Nat": {Poly{Name: "Add", Params: []TyParam{TypeTyParam{T: PNat()}}}},
	}}
	addNat := Poly{Name: "Add", Params: []TyParam{TypeTyParam{T: PNat()}}}
	if err := SubUnify(Poly{Name: "Nat"}, addNat, r); err != nil {
		t.Fatalf("expected Nat to satisfy Add(Nat) via the trait-impl index: %v", err)
	}
}
