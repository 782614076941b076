// Package instantiate implements C4: translating AST type-spec syntax
// and quantified signatures into semantic internal/types.Type values,
// grounded on Erg's erg_compiler/context/instantiate.rs (bare-
// identifier fallback chain, bound-set instantiation with cyclicity
// stamping) and the teacher's declarations/helpers spec-walking style.
package instantiate

import (
	"fmt"

	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/diagnostics"
	"github.com/funvibe/funxy-types/internal/symbols"
	"github.com/funvibe/funxy-types/internal/token"
	"github.com/funvibe/funxy-types/internal/types"
)

// Instantiator carries the ambient state a translation pass needs:
// the scope it resolves bare identifiers against, the currently open
// instantiation scratchpad, and the diagnostics bag it reports into.
type Instantiator struct {
	Scope *symbols.Context
	TV    *types.TyVarContext
	Bag   *diagnostics.Bag
	File  string
}

func New(scope *symbols.Context, tv *types.TyVarContext, bag *diagnostics.Bag, file string) *Instantiator {
	return &Instantiator{Scope: scope, TV: tv, Bag: bag, File: file}
}

// TranslateTypeSpec matches spec.md §4.2's case table.
func (in *Instantiator) TranslateTypeSpec(spec ast.TypeSpec) types.Type {
	switch s := spec.(type) {
	case *ast.NamedTypeSpec:
		return in.translateNamed(s)
	case *ast.ArrayTypeSpec:
		elem := in.TranslateTypeSpec(s.Elem)
		n := in.TranslateTyParamSpec(s.Length)
		return types.Poly{Name: "Array", Params: []types.TyParam{types.TypeTyParam{T: elem}, n}}
	case *ast.TupleTypeSpec:
		params := make([]types.TyParam, len(s.Elements))
		for i, e := range s.Elements {
			params[i] = types.TypeTyParam{T: in.TranslateTypeSpec(e)}
		}
		return types.Poly{Name: "Tuple", Params: params}
	case *ast.RecordTypeSpec:
		fields := make(map[string]types.Type, len(s.Fields))
		for name, fs := range s.Fields {
			fields[name] = in.TranslateTypeSpec(fs)
		}
		return types.Record{Fields: fields}
	case *ast.EnumTypeSpec:
		values := make([]types.Const, 0, len(s.Values))
		for _, expr := range s.Values {
			if c, ok := EvalConstExpr(expr); ok {
				values = append(values, c)
			}
		}
		return types.VEnum{Values: values}
	case *ast.IntervalTypeSpec:
		lhs := in.TranslateTyParamSpec(s.Lhs)
		rhs := in.TranslateTyParamSpec(s.Rhs)
		if lc, lok := types.EvalTyParam(lhs); lok {
			if rc, rok := types.EvalTyParam(rhs); rok {
				if types.TryCmp(lc, rc) == types.Greater {
					in.report(s.Token, diagnostics.TypeError, "interval invariant violated: lhs must be <= rhs")
				}
			}
		}
		return types.IntInterval{Op: types.IntervalOp(s.Op), Lhs: lhs, Rhs: rhs}
	case *ast.SubrTypeSpec:
		return in.translateSubr(s)
	case *ast.AndTypeSpec:
		return NormalizeAnd(in.TranslateTypeSpec(s.Left), in.TranslateTypeSpec(s.Right))
	case *ast.OrTypeSpec:
		return NormalizeOr(in.TranslateTypeSpec(s.Left), in.TranslateTypeSpec(s.Right))
	case *ast.NotTypeSpec:
		return types.Not{Inner: in.TranslateTypeSpec(s.Inner)}
	case *ast.RefTypeSpec:
		return types.Ref{Inner: in.TranslateTypeSpec(s.Inner)}
	case *ast.RefMutTypeSpec:
		rm := types.RefMut{Before: in.TranslateTypeSpec(s.Before)}
		if s.After != nil {
			rm.After = in.TranslateTypeSpec(s.After)
		}
		return rm
	case *ast.RefinementTypeSpec:
		preds := make([]types.Predicate, 0, len(s.Preds))
		for _, p := range s.Preds {
			if pred, ok := in.translatePredicate(p); ok {
				preds = append(preds, pred)
			}
		}
		return types.Refinement{Bound: s.Bound, Base: in.TranslateTypeSpec(s.Base), Preds: preds}
	case *ast.QuantifiedTypeSpec:
		bounds := in.InstantiateBoundSet(s.Bounds)
		inner := in.translateSubr(s.Inner)
		return types.Quantified{Bounds: bounds, Inner: inner.(types.Subr)}
	default:
		in.report(spec.GetToken(), diagnostics.InternalInvariantViolation, fmt.Sprintf("unhandled type-spec node %T", spec))
		return types.PNever()
	}
}

// translateNamed implements the bare-identifier fallback chain:
// (a) active local quantifier map, (b) enclosing scope's quantifier
// map [subsumed by (a) since TV is shared for the whole instantiation],
// (c) outer Context recursively (Scope.GetVar already walks outer),
// (d) declared-type hint [left to the caller, which may pre-seed TV],
// (e) the module's nominal type registry (also via Scope.GetVar).
// If none match: NameError with a nearest-name suggestion.
func (in *Instantiator) translateNamed(s *ast.NamedTypeSpec) types.Type {
	if in.TV != nil {
		if cell, ok := in.TV.GetTyVar(s.Name); ok {
			return types.FreeVarType{Cell: cell}
		}
		if tp, ok := in.TV.GetTyParam(s.Name); ok {
			if tt, ok := tp.(types.TypeTyParam); ok {
				return tt.T
			}
		}
	}
	if info, _, ok := in.Scope.GetVar(s.Name); ok {
		base := info.Type
		if len(s.Args) == 0 {
			return base
		}
		params := make([]types.TyParam, len(s.Args))
		for i, a := range s.Args {
			params[i] = types.TypeTyParam{T: in.TranslateTypeSpec(a)}
		}
		if poly, ok := base.(types.Poly); ok {
			poly.Params = params
			return poly
		}
		return types.Poly{Name: s.Name, Params: params}
	}
	suggestion, _ := in.Scope.SimilarName(s.Name)
	in.Bag.Add(diagnostics.NameErrorWithSuggestion(s.Token, in.File, s.Name, suggestion))
	return types.PNever()
}

func (in *Instantiator) translateSubr(s *ast.SubrTypeSpec) types.Type {
	params := make([]types.Type, len(s.Params))
	for i, p := range s.Params {
		params[i] = in.TranslateTypeSpec(p.Type)
	}
	var varArgs *types.Type
	if s.VarArgs != nil {
		t := in.TranslateTypeSpec(s.VarArgs.Type)
		varArgs = &t
	}
	defaults := make([]types.Type, len(s.DefaultParams))
	for i, p := range s.DefaultParams {
		defaults[i] = in.TranslateTypeSpec(p.Type)
	}
	kind := types.Func
	if s.IsProc {
		kind = types.Proc
	}
	var ret types.Type = types.PNever()
	if s.ReturnType != nil {
		ret = in.TranslateTypeSpec(s.ReturnType)
	}
	return types.Subr{SubrKind: kind, Params: params, VarArgs: varArgs, DefaultParams: defaults, Return: ret}
}

// InstantiateBoundSet implements spec.md §4.2's bound-set
// instantiation: for each bound, a fresh free-var named after the
// subject at the current level, cyclicity-stamped, with later bounds
// for the same subject tightening rather than replacing.
func (in *Instantiator) InstantiateBoundSet(specs []*ast.BoundSpec) *types.BoundSet {
	bs := types.NewBoundSet()
	level := 0
	if in.TV != nil {
		level = in.TV.Level()
	}
	for _, spec := range specs {
		var b *types.Bound
		switch spec.Kind {
		case ast.InstanceBound:
			of := in.TranslateTypeSpec(spec.Of)
			cell := types.NewFreeVar(level, spec.Subject, types.TypeOf(of))
			b = &types.Bound{Subject: spec.Subject, Kind: types.InstanceBound, Of: of, Cell: cell}
		default:
			sub := types.Type(types.PNever())
			sup := types.Type(types.PObj())
			if spec.Sub != nil {
				sub = in.TranslateTypeSpec(spec.Sub)
			}
			if spec.Sup != nil {
				sup = in.TranslateTypeSpec(spec.Sup)
			}
			cyc := types.ComputeCyclicity(spec.Subject, sub, sup)
			cell := types.NewFreeVar(level, spec.Subject, types.Sandwiched(sub, sup, cyc))
			b = &types.Bound{Subject: spec.Subject, Kind: types.SandwichedBoundKind, Sub: sub, Sup: sup, Cyclicity: cyc, Cell: cell}
		}
		if existing, ok := bs.Get(spec.Subject); ok && existing.Cell != nil {
			cell := existing.Cell
			bs.Add(b)
			existing.Cell = cell
			cell.UpdateConstraint(b.Cell.Constraint())
			continue
		}
		bs.Add(b)
		if in.TV != nil {
			if err := in.TV.PushTyVar(spec.Subject, b.Cell); err != nil {
				in.Bag.Add(diagnostics.InternalInvariantViolationf("bound-set instantiation", "%s", err))
			}
		}
	}
	return bs
}

func (in *Instantiator) report(tok token.Token, code diagnostics.Code, msg string) {
	in.Bag.Add(&diagnostics.DiagnosticError{Code: code, Message: msg, Token: tok, File: in.File})
}
