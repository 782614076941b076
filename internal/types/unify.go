package types

import "fmt"

// Resolver is the capability the unifier needs from the environment
// (C3 Context) to walk nominal supertypes and resolve MonoProj
// associated names — kept as an interface so this package never
// imports internal/symbols (avoiding an import cycle, since Context
// holds types.Type values).
type Resolver interface {
	// Supertypes returns the direct nominal supertypes registered for
	// the named type, as recorded by the trait/impl table.
	Supertypes(name string) []Type
	// ResolveProj looks up lhs.name on a resolved nominal lhs.
	ResolveProj(lhs Type, name string) (Type, bool)
}

// UnifyError reports a sub_unify failure with both operand snapshots,
// matching spec.md §7's "sub_unify on failure returns one TypeError
// with both operand snapshots".
type UnifyError struct {
	Actual, Expected Type
	Reason           string
}

func (e *UnifyError) Error() string {
	return fmt.Sprintf("type error: %s is not a subtype of %s (%s)", e.Actual, e.Expected, e.Reason)
}

// typePair is used for the co-inductive cycle guard: a pair of type
// identities already being compared higher up the call stack.
type typePair struct {
	a, b uintptr
}

func identityOf(t Type) uintptr {
	if fv, ok := t.(FreeVarType); ok {
		return uintptr(fv.Cell.ID())
	}
	return 0
}

// SubUnify enforces actual <: expected, tightening free-var
// constraints as needed (spec.md §4.3). resolver may be nil when no
// nominal/MonoProj resolution is required (e.g. unit tests against
// closed structural types).
func SubUnify(actual, expected Type, resolver Resolver) error {
	return subUnify(actual, expected, resolver, nil)
}

func subUnify(actual, expected Type, r Resolver, visited []typePair) error {
	actual = deref(actual)
	expected = deref(expected)

	if av, ok := actual.(FreeVarType); ok {
		return subUnifyFreeVar(av, expected, true, r, visited)
	}
	if ev, ok := expected.(FreeVarType); ok {
		return subUnifyFreeVar(ev, actual, false, r, visited)
	}

	pair := typePair{identityOf(actual), identityOf(expected)}
	for _, v := range visited {
		if v == pair && pair != (typePair{}) {
			return nil // co-inductive: already assumed true higher up
		}
	}
	visited = append(visited, pair)

	switch e := expected.(type) {
	case Primitive:
		if ar, ok := actual.(Refinement); ok {
			// {I: Int | I >= k} with k >= 0 fits Nat; otherwise the
			// refinement falls back to its base type.
			nonNeg := PredCmp{Op: CmpGe, Lhs: QVarTyParam{Name: ar.Bound}, Rhs: ConstTyParam{Value: IntConst(0)}}
			if e.Kind_ == Nat && subUnify(ar.Base, PInt(), r, visited) == nil && EntailsAll(ar.Preds, nonNeg) {
				return nil
			}
			return subUnify(ar.Base, e, r, visited)
		}
		return subUnifyPrimitive(actual, e)
	case Or:
		// actual <: (L or R) iff actual <: L or actual <: R.
		if subUnify(actual, e.Left, r, visited) == nil {
			return nil
		}
		if subUnify(actual, e.Right, r, visited) == nil {
			return nil
		}
		return &UnifyError{actual, expected, "neither union arm accepts the actual type"}
	case And:
		if err := subUnify(actual, e.Left, r, visited); err != nil {
			return err
		}
		return subUnify(actual, e.Right, r, visited)
	case Not:
		if subUnify(actual, e.Inner, r, visited) == nil {
			return &UnifyError{actual, expected, "actual type satisfies the negated type"}
		}
		return nil
	}

	switch a := actual.(type) {
	case Or:
		// (L or R) <: expected iff both arms are.
		if err := subUnify(a.Left, expected, r, visited); err != nil {
			return err
		}
		return subUnify(a.Right, expected, r, visited)
	case And:
		if subUnify(a.Left, expected, r, visited) == nil {
			return nil
		}
		return subUnify(a.Right, expected, r, visited)
	}

	switch e := expected.(type) {
	case Subr:
		a, ok := actual.(Subr)
		if !ok {
			return &UnifyError{actual, expected, "not a subroutine type"}
		}
		return subUnifySubr(a, e, r, visited)
	case Record:
		a, ok := actual.(Record)
		if !ok {
			return &UnifyError{actual, expected, "not a record type"}
		}
		return subUnifyRecord(a, e, r, visited)
	case Refinement:
		return subUnifyRefinement(actual, e, r, visited)
	case IntInterval:
		return subUnifyInterval(actual, e, r, visited)
	case VEnum:
		return subUnifyVEnum(actual, e, r, visited)
	case MonoProj:
		if r == nil {
			return &UnifyError{actual, expected, "no resolver available for associated-type projection"}
		}
		resolved, ok := r.ResolveProj(e.Lhs, e.Name)
		if !ok {
			return &UnifyError{actual, expected, "unresolved associated type " + e.Name}
		}
		return subUnify(actual, resolved, r, visited)
	case Ref:
		a, ok := actual.(Ref)
		if !ok {
			if actual == nil {
				return &UnifyError{actual, expected, "not a reference type"}
			}
			return subUnify(actual, e.Inner, r, visited)
		}
		return subUnify(a.Inner, e.Inner, r, visited)
	case RefMut:
		a, ok := actual.(RefMut)
		if !ok {
			return &UnifyError{actual, expected, "not a mutable reference type"}
		}
		if err := subUnify(a.Before, e.Before, r, visited); err != nil {
			return err
		}
		if e.After != nil {
			if a.After == nil {
				return &UnifyError{actual, expected, "missing after-type"}
			}
			return subUnify(a.After, e.After, r, visited)
		}
		return nil
	}

	if actualRefinement, ok := actual.(Refinement); ok {
		return subUnify(actualRefinement.Base, expected, r, visited)
	}

	return subUnifyNominal(actual, expected, r, visited)
}

func deref(t Type) Type {
	if fv, ok := t.(FreeVarType); ok && fv.Cell.IsLinked() {
		return deref(fv.Cell.Crack())
	}
	return t
}

func subUnifyPrimitive(actual Type, expected Primitive) error {
	if expected.Kind_ == Obj {
		return nil
	}
	if ve, ok := actual.(VEnum); ok {
		for _, c := range ve.Values {
			if !c.FitsPrimitive(expected.Kind_) {
				return &UnifyError{actual, expected, "enum member " + c.String() + " does not fit " + expected.String()}
			}
		}
		return nil
	}
	a, ok := actual.(Primitive)
	if !ok {
		if actual == (Primitive{Kind_: Never}) {
			return nil
		}
		return &UnifyError{actual, expected, "not a primitive type"}
	}
	if a.Kind_ == Never {
		return nil
	}
	if a.Kind_ == expected.Kind_ {
		return nil
	}
	ar, aok := numericTowerRank[a.Kind_]
	er, eok := numericTowerRank[expected.Kind_]
	if aok && eok && ar <= er {
		return nil
	}
	return &UnifyError{actual, expected, "primitive kinds are unrelated"}
}

func subUnifySubr(a, e Subr, r Resolver, visited []typePair) error {
	if len(a.Params) != len(e.Params) {
		return &UnifyError{a, e, "arity mismatch"}
	}
	if a.SubrKind == Func && e.SubrKind == Proc {
		return &UnifyError{a, e, "a Func cannot be used where a Proc is required"}
	}
	// Parameters are contravariant: e.Params[i] <: a.Params[i].
	for i := range a.Params {
		if err := subUnify(e.Params[i], a.Params[i], r, visited); err != nil {
			return err
		}
	}
	if (a.VarArgs == nil) != (e.VarArgs == nil) {
		return &UnifyError{a, e, "var-args mismatch"}
	}
	if a.VarArgs != nil {
		if err := subUnify(*e.VarArgs, *a.VarArgs, r, visited); err != nil {
			return err
		}
	}
	if len(a.DefaultParams) != len(e.DefaultParams) {
		return &UnifyError{a, e, "default-param count mismatch"}
	}
	for i := range a.DefaultParams {
		if err := subUnify(e.DefaultParams[i], a.DefaultParams[i], r, visited); err != nil {
			return err
		}
	}
	// Return type is covariant.
	return subUnify(a.Return, e.Return, r, visited)
}

func subUnifyRecord(a, e Record, r Resolver, visited []typePair) error {
	// Width subtyping: a may have more fields than e demands.
	for name, et := range e.Fields {
		at, ok := a.Fields[name]
		if !ok {
			return &UnifyError{a, e, "missing field " + name}
		}
		// Depth covariance.
		if err := subUnify(at, et, r, visited); err != nil {
			return err
		}
	}
	return nil
}

func subUnifyRefinement(actual Type, e Refinement, r Resolver, visited []typePair) error {
	base := e.Base
	if ar, ok := actual.(Refinement); ok {
		if err := subUnify(ar.Base, base, r, visited); err != nil {
			return err
		}
		for _, p := range e.Preds {
			if !EntailsAll(ar.Preds, p) {
				return &UnifyError{actual, e, "predicate not entailed: " + p.String()}
			}
		}
		return nil
	}
	if err := subUnify(actual, base, r, visited); err != nil {
		return err
	}
	// A bare (unrefined) actual type can only satisfy a refinement
	// whose predicates are vacuously true; without inhabitant
	// information we refuse rather than risk unsoundness, per the
	// spec's "unknown -> sound refusal" entailment fallback.
	if len(e.Preds) > 0 {
		return &UnifyError{actual, e, "cannot establish refinement predicates for an unrefined actual type"}
	}
	return nil
}

func subUnifyInterval(actual Type, e IntInterval, r Resolver, visited []typePair) error {
	switch a := actual.(type) {
	case IntInterval:
		loOK := TryCmp(mustConst(e.Lhs), mustConst(a.Lhs)) != Greater
		hiOK := TryCmp(mustConst(a.Rhs), mustConst(e.Rhs)) != Greater
		if loOK && hiOK {
			return nil
		}
		return &UnifyError{actual, e, "interval not contained"}
	case VEnum:
		lo, hi := mustConst(e.Lhs), mustConst(e.Rhs)
		loInclusive := e.Op == Closed || e.Op == RightOpen
		hiInclusive := e.Op == Closed || e.Op == LeftOpen
		for _, c := range a.Values {
			loOK := TryCmp(lo, c) == Less || (loInclusive && TryCmp(lo, c) == Equal)
			hiOK := TryCmp(c, hi) == Less || (hiInclusive && TryCmp(c, hi) == Equal)
			if !loOK || !hiOK {
				return &UnifyError{actual, e, "enum member " + c.String() + " falls outside the interval"}
			}
		}
		return nil
	case Primitive:
		if a.Kind_ == Never {
			return nil
		}
		return &UnifyError{actual, e, "not an interval-compatible type"}
	default:
		return &UnifyError{actual, e, "not an interval type"}
	}
}

// subUnifyVEnum handles expected being a finite value set: Never is
// bottom as usual, and another VEnum is accepted member-wise (every
// actual value already equals one of the expected's).
func subUnifyVEnum(actual Type, e VEnum, r Resolver, visited []typePair) error {
	if p, ok := actual.(Primitive); ok && p.Kind_ == Never {
		return nil
	}
	av, ok := actual.(VEnum)
	if !ok {
		return &UnifyError{actual, e, "not an enum type"}
	}
	for _, c := range av.Values {
		found := false
		for _, ec := range e.Values {
			if TryCmp(c, ec) == Equal {
				found = true
				break
			}
		}
		if !found {
			return &UnifyError{actual, e, "enum member " + c.String() + " not in expected set"}
		}
	}
	return nil
}

func mustConst(tp TyParam) Const {
	if c, ok := tp.(ConstTyParam); ok {
		return c.Value
	}
	return Const{}
}

func subUnifyNominal(actual, expected Type, r Resolver, visited []typePair) error {
	ap, aok := actual.(Poly)
	ep, eok := expected.(Poly)
	if aok && eok {
		if ap.Name == ep.Name && len(ap.Params) == len(ep.Params) {
			ok := true
			for i := range ap.Params {
				if !tyParamsCompatible(ap.Params[i], ep.Params[i], r, visited) {
					ok = false
					break
				}
			}
			if ok {
				return nil
			}
		}
		if r != nil {
			for _, sup := range r.Supertypes(ap.Name) {
				if subUnify(sup, expected, r, visited) == nil {
					return nil
				}
			}
		}
		return &UnifyError{actual, expected, "no nominal supertype relation found"}
	}
	if aok && r != nil {
		for _, sup := range r.Supertypes(ap.Name) {
			if subUnify(sup, expected, r, visited) == nil {
				return nil
			}
		}
	}
	return &UnifyError{actual, expected, "structurally incompatible types"}
}

func tyParamsCompatible(a, b TyParam, r Resolver, visited []typePair) bool {
	at, aok := a.(TypeTyParam)
	bt, bok := b.(TypeTyParam)
	if aok && bok {
		return subUnify(at.T, bt.T, r, visited) == nil
	}
	return a.String() == b.String()
}

func subUnifyFreeVar(fv FreeVarType, other Type, actualIsVar bool, r Resolver, visited []typePair) error {
	if ofv, ok := other.(FreeVarType); ok && ofv.Cell.ID() == fv.Cell.ID() {
		return nil
	}
	curSub, curSup := fv.Cell.GetBoundTypes()
	var newSub, newSup Type
	if actualIsVar {
		// fv is the actual (sub) side; demand tightens the sup bound.
		newSub, newSup = curSub, meetUpper(curSup, other, r, visited)
	} else {
		// fv is the expected (sup) side; demand tightens the sub bound.
		newSub, newSup = joinLower(curSub, other, r, visited), curSup
	}
	if err := subUnify(newSub, newSup, r, visited); err != nil {
		return &UnifyError{newSub, newSup, "free-var bounds became inconsistent"}
	}
	if sameType(newSub, newSup) {
		return fv.Cell.Link(newSub)
	}
	fv.Cell.UpdateConstraint(Sandwiched(newSub, newSup, ComputeCyclicity(fv.Cell.Name, newSub, newSup)))
	return nil
}

// meetUpper narrows an existing upper bound by a new demand: if the
// demand is already a subtype of cur, the demand wins (tighter);
// otherwise cur is retained and compatibility is checked by the caller.
func meetUpper(cur, demand Type, r Resolver, visited []typePair) Type {
	if subUnify(demand, cur, r, visited) == nil {
		return demand
	}
	return cur
}

func joinLower(cur, demand Type, r Resolver, visited []typePair) Type {
	if subUnify(cur, demand, r, visited) == nil {
		return demand
	}
	return cur
}

func sameType(a, b Type) bool {
	if a == nil || b == nil {
		return false
	}
	return a.String() == b.String()
}
