package types

// Instantiate is the structural counterpart to Generalize: every
// MonoQVar named in q.Bounds is replaced by a fresh free-var cell at
// the given level, seeded with the bound's constraint. It returns the
// instantiated Subr and the name->cell map so callers (internal/
// instantiate's call-site instantiation) can further unify a `self`
// receiver or report diagnostics against specific cells.
//
// generalize(instantiate(q)) is idempotent up to free-var renaming:
// instantiating q at a level and then generalizing against an enclosing
// level below it reproduces a structurally identical Quantified (see
// generalize_test.go).
func Instantiate(q Quantified, level int) (Subr, map[string]*FreeVar) {
	cells := map[string]*FreeVar{}
	if q.Bounds != nil {
		for _, name := range q.Bounds.Names() {
			b, _ := q.Bounds.Get(name)
			cells[name] = NewFreeVar(level, name, boundToConstraint(b))
		}
	}
	return instantiateQVars(q.Inner, cells).(Subr), cells
}

func boundToConstraint(b *Bound) Constraint {
	switch b.Kind {
	case InstanceBound:
		return TypeOf(b.Of)
	default:
		return Sandwiched(b.Sub, b.Sup, b.Cyclicity)
	}
}

func instantiateQVars(t Type, cells map[string]*FreeVar) Type {
	switch v := t.(type) {
	case MonoQVar:
		if cell, ok := cells[v.Name]; ok {
			return FreeVarType{Cell: cell}
		}
		return v
	case PolyQVar:
		params := make([]TyParam, len(v.Params))
		for i, p := range v.Params {
			params[i] = instantiateQVarsTP(p, cells)
		}
		return Poly{Name: v.Name, Params: params}
	case Poly:
		params := make([]TyParam, len(v.Params))
		for i, p := range v.Params {
			params[i] = instantiateQVarsTP(p, cells)
		}
		v.Params = params
		return v
	case Subr:
		v.Params = instantiateSlice(v.Params, cells)
		if v.VarArgs != nil {
			va := instantiateQVars(*v.VarArgs, cells)
			v.VarArgs = &va
		}
		v.DefaultParams = instantiateSlice(v.DefaultParams, cells)
		if v.Return != nil {
			v.Return = instantiateQVars(v.Return, cells)
		}
		return v
	case Record:
		fields := make(map[string]Type, len(v.Fields))
		for k, ft := range v.Fields {
			fields[k] = instantiateQVars(ft, cells)
		}
		v.Fields = fields
		return v
	case And:
		v.Left = instantiateQVars(v.Left, cells)
		v.Right = instantiateQVars(v.Right, cells)
		return v
	case Or:
		v.Left = instantiateQVars(v.Left, cells)
		v.Right = instantiateQVars(v.Right, cells)
		return v
	case Not:
		v.Inner = instantiateQVars(v.Inner, cells)
		return v
	case Ref:
		v.Inner = instantiateQVars(v.Inner, cells)
		return v
	case RefMut:
		v.Before = instantiateQVars(v.Before, cells)
		if v.After != nil {
			v.After = instantiateQVars(v.After, cells)
		}
		return v
	case Refinement:
		v.Base = instantiateQVars(v.Base, cells)
		return v
	default:
		return t
	}
}

func instantiateSlice(ts []Type, cells map[string]*FreeVar) []Type {
	if ts == nil {
		return nil
	}
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = instantiateQVars(t, cells)
	}
	return out
}

func instantiateQVarsTP(tp TyParam, cells map[string]*FreeVar) TyParam {
	switch v := tp.(type) {
	case QVarTyParam:
		if cell, ok := cells[v.Name]; ok {
			return FreeVarTyParam{Cell: cell}
		}
		return v
	case TypeTyParam:
		return TypeTyParam{T: instantiateQVars(v.T, cells)}
	default:
		return tp
	}
}
