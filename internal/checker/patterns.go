package checker

import (
	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/diagnostics"
	"github.com/funvibe/funxy-types/internal/instantiate"
	"github.com/funvibe/funxy-types/internal/symbols"
	"github.com/funvibe/funxy-types/internal/types"
)

// bindPattern destructures subject against pat, registering any names
// it binds into scope. TypedPattern is where narrowing happens: the
// inner pattern is bound against the intersection of subject and the
// annotation (via instantiate.NormalizeAnd), not the annotation alone
// — a pattern like `x: Nat` under a subject already known to satisfy
// some other constraint keeps that constraint in the bound name's type
// rather than discarding it.
func bindPattern(scope *symbols.Context, pat ast.Pattern, subject types.Type) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		// binds nothing
	case *ast.IdentifierPattern:
		t := subject
		if p.Annotation != nil {
			in := instantiate.New(scope, nil, diagnostics.NewBag(), "")
			t = in.TranslateTypeSpec(p.Annotation)
		}
		scope.RegisterVar(p.Name, symbols.VarInfo{Name: p.Name, Type: t, Kind: symbols.VariableSymbol})
	case *ast.LiteralPattern:
		// matches a concrete value; binds nothing
	case *ast.TuplePattern:
		elemTypes := tupleElementTypes(subject, len(p.Elements))
		for i, el := range p.Elements {
			bindPattern(scope, el, elemTypes[i])
		}
	case *ast.RecordPattern:
		fields := recordFields(subject)
		for name, sub := range p.Fields {
			bindPattern(scope, sub, fields[name])
		}
		if p.Rest != "" {
			rest := make(map[string]types.Type, len(fields))
			for name, t := range fields {
				if _, bound := p.Fields[name]; !bound {
					rest[name] = t
				}
			}
			scope.RegisterVar(p.Rest, symbols.VarInfo{Name: p.Rest, Type: types.Record{Fields: rest}, Kind: symbols.VariableSymbol})
		}
	case *ast.TypedPattern:
		in := instantiate.New(scope, nil, diagnostics.NewBag(), "")
		annotated := in.TranslateTypeSpec(p.Annotation)
		narrowed := instantiate.NormalizeAnd(subject, annotated)
		bindPattern(scope, p.Inner, narrowed)
	}
}

func tupleElementTypes(subject types.Type, n int) []types.Type {
	out := make([]types.Type, n)
	for i := range out {
		out[i] = types.PObj()
	}
	poly, ok := subject.(types.Poly)
	if !ok || poly.Name != "Tuple" {
		return out
	}
	for i := 0; i < n && i < len(poly.Params); i++ {
		if tt, ok := poly.Params[i].(types.TypeTyParam); ok {
			out[i] = tt.T
		}
	}
	return out
}

func recordFields(subject types.Type) map[string]types.Type {
	if rec, ok := subject.(types.Record); ok {
		return rec.Fields
	}
	return map[string]types.Type{}
}
