package types

import "fmt"

// Generalize implements C6: every free-var reachable from subr whose
// level exceeds the enclosing scope's level becomes a quantified
// variable, with its current constraint turned into a bound in a
// fresh Quantified wrapper. Only Subrs are generalized (spec.md §4.4);
// callers generalize non-Subr top-level values only at their use
// sites, not here.
func Generalize(subr Subr, enclosingLevel int) Quantified {
	vars := FreeVarsOf(subr)
	names := map[uint64]string{}
	bounds := NewBoundSet()

	// Stable iteration order: generalize in ascending cell-id order so
	// repeated calls over structurally-identical inputs name variables
	// the same way (generalize∘instantiate idempotence up to renaming).
	ordered := orderedCells(vars)
	letter := 0
	for _, cell := range ordered {
		if cell.Level() <= enclosingLevel {
			continue
		}
		name := quantVarName(letter)
		letter++
		names[cell.ID()] = name
		bounds.Add(constraintToBound(name, cell.Constraint()))
	}

	generalized := substFreeVars(subr, names).(Subr)
	return Quantified{Bounds: bounds, Inner: generalized}
}

func quantVarName(i int) string {
	letters := "TUVWXYZABCDEFGHIJKLMNOPQRS"
	if i < len(letters) {
		return string(letters[i])
	}
	return fmt.Sprintf("T%d", i)
}

func constraintToBound(name string, c Constraint) *Bound {
	switch c.Kind {
	case TypeOfKind:
		return &Bound{Subject: name, Kind: InstanceBound, Of: c.Of}
	case SandwichedKind:
		return &Bound{Subject: name, Kind: SandwichedBoundKind, Sub: c.Sub, Sup: c.Sup, Cyclicity: c.Cyclicity}
	default:
		return &Bound{Subject: name, Kind: SandwichedBoundKind, Sub: PNever(), Sup: PObj(), Cyclicity: NotCyclic}
	}
}

func orderedCells(set map[uint64]*FreeVar) []*FreeVar {
	ids := make([]uint64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	out := make([]*FreeVar, len(ids))
	for i, id := range ids {
		out[i] = set[id]
	}
	return out
}

// substFreeVars replaces every free-var cell named in names with a
// MonoQVar of that name, leaving everything else structurally intact.
// This is the Type-tree transform Generalize needs; it is not a full
// Subst (that belongs to the instantiator, which goes the other way).
func substFreeVars(t Type, names map[uint64]string) Type {
	switch v := t.(type) {
	case FreeVarType:
		if v.Cell.IsLinked() {
			return substFreeVars(v.Cell.Crack(), names)
		}
		if name, ok := names[v.Cell.ID()]; ok {
			return MonoQVar{Name: name}
		}
		return v
	case Poly:
		params := make([]TyParam, len(v.Params))
		for i, p := range v.Params {
			params[i] = substFreeVarsTP(p, names)
		}
		v.Params = params
		return v
	case Subr:
		v.Params = substSlice(v.Params, names)
		if v.VarArgs != nil {
			va := substFreeVars(*v.VarArgs, names)
			v.VarArgs = &va
		}
		v.DefaultParams = substSlice(v.DefaultParams, names)
		if v.Return != nil {
			v.Return = substFreeVars(v.Return, names)
		}
		return v
	case Record:
		fields := make(map[string]Type, len(v.Fields))
		for k, ft := range v.Fields {
			fields[k] = substFreeVars(ft, names)
		}
		v.Fields = fields
		return v
	case And:
		v.Left = substFreeVars(v.Left, names)
		v.Right = substFreeVars(v.Right, names)
		return v
	case Or:
		v.Left = substFreeVars(v.Left, names)
		v.Right = substFreeVars(v.Right, names)
		return v
	case Not:
		v.Inner = substFreeVars(v.Inner, names)
		return v
	case Ref:
		v.Inner = substFreeVars(v.Inner, names)
		return v
	case RefMut:
		v.Before = substFreeVars(v.Before, names)
		if v.After != nil {
			v.After = substFreeVars(v.After, names)
		}
		return v
	case Refinement:
		v.Base = substFreeVars(v.Base, names)
		return v
	case Quantified:
		v.Inner = substFreeVars(v.Inner, names).(Subr)
		return v
	default:
		return t
	}
}

func substSlice(ts []Type, names map[uint64]string) []Type {
	if ts == nil {
		return nil
	}
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = substFreeVars(t, names)
	}
	return out
}

func substFreeVarsTP(tp TyParam, names map[uint64]string) TyParam {
	switch v := tp.(type) {
	case TypeTyParam:
		return TypeTyParam{T: substFreeVars(v.T, names)}
	case FreeVarTyParam:
		if v.Cell.IsLinked() {
			return substFreeVarsTP(TypeTyParam{T: v.Cell.Crack()}, names)
		}
		if name, ok := names[v.Cell.ID()]; ok {
			return QVarTyParam{Name: name}
		}
		return v
	default:
		return tp
	}
}
