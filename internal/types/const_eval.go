package types

// EvalTyParam folds a TyParam term to a ground Const when every
// subterm is ground-reducible; it returns ok=false when the term
// still contains a free-var or quantified-variable reference (the
// spec's "symbolic arithmetic on TyParams; ground-reducible subterms
// are folded").
func EvalTyParam(tp TyParam) (Const, bool) {
	switch v := tp.(type) {
	case ConstTyParam:
		return v.Value, true
	case BinOpTyParam:
		l, lok := EvalTyParam(v.Lhs)
		r, rok := EvalTyParam(v.Rhs)
		if !lok || !rok {
			return Const{}, false
		}
		return evalBinOp(v.Op, l, r)
	case UnOpTyParam:
		operand, ok := EvalTyParam(v.Operand)
		if !ok {
			return Const{}, false
		}
		if v.Op == "-" {
			switch operand.Kind {
			case Int, Nat:
				return IntConst(-operand.Int), true
			case Float:
				return FloatConst(-operand.Float), true
			}
		}
		return Const{}, false
	default:
		return Const{}, false
	}
}

func evalBinOp(op string, l, r Const) (Const, bool) {
	lf, lok := l.asFloat()
	rf, rok := r.asFloat()
	if !lok || !rok {
		return Const{}, false
	}
	bothInt := (l.Kind == Int || l.Kind == Nat) && (r.Kind == Int || r.Kind == Nat)
	switch op {
	case "+":
		if bothInt {
			return IntConst(l.Int + r.Int), true
		}
		return FloatConst(lf + rf), true
	case "-":
		if bothInt {
			return IntConst(l.Int - r.Int), true
		}
		return FloatConst(lf - rf), true
	case "*":
		if bothInt {
			return IntConst(l.Int * r.Int), true
		}
		return FloatConst(lf * rf), true
	case "/":
		if rf == 0 {
			return Const{}, false
		}
		return FloatConst(lf / rf), true
	default:
		return Const{}, false
	}
}

// Entails decides predicate entailment for p given the known
// predicates `known` (spec.md §4.7): (i) syntactic subsumption, (ii)
// interval containment for >=/<=/== over ground ranges, (iii) unknown
// fallback (sound refusal, meaning Entails returns false).
func Entails(known Predicate, p Predicate) bool {
	if syntacticallyEqual(known, p) {
		return true
	}
	kc, kok := known.(PredCmp)
	pc, pok := p.(PredCmp)
	if !kok || !pok {
		if ka, ok := known.(PredAnd); ok {
			return Entails(ka.Left, p) || Entails(ka.Right, p)
		}
		return false
	}
	if kc.Lhs.String() != pc.Lhs.String() {
		return false
	}
	kv, kvok := EvalTyParam(kc.Rhs)
	pv, pvok := EvalTyParam(pc.Rhs)
	if !kvok || !pvok {
		return false
	}
	return intervalEntails(kc.Op, kv, pc.Op, pv)
}

// EntailsAll reports whether any predicate in known entails p.
func EntailsAll(known []Predicate, p Predicate) bool {
	for _, k := range known {
		if Entails(k, p) {
			return true
		}
	}
	return false
}

func syntacticallyEqual(a, b Predicate) bool {
	return a.String() == b.String()
}

// intervalEntails checks containment for the four comparison ops
// reduced to a lower/upper bound pair, e.g. (x >= 2) entails (x >= 1).
func intervalEntails(kop CmpOp, kv Const, pop CmpOp, pv Const) bool {
	cmp := TryCmp(kv, pv)
	if cmp == Unrelated {
		return false
	}
	switch {
	case kop == CmpGe && pop == CmpGe:
		return cmp != Less // kv >= pv
	case kop == CmpLe && pop == CmpLe:
		return cmp != Greater // kv <= pv
	case kop == CmpGt && pop == CmpGe:
		return cmp != Less
	case kop == CmpLt && pop == CmpLe:
		return cmp != Greater
	case kop == CmpEq && (pop == CmpGe || pop == CmpLe || pop == CmpEq):
		switch pop {
		case CmpGe:
			return cmp != Less
		case CmpLe:
			return cmp != Greater
		default:
			return cmp == Equal
		}
	default:
		return false
	}
}
