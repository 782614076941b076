package instantiate

import (
	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/diagnostics"
	"github.com/funvibe/funxy-types/internal/symbols"
	"github.com/funvibe/funxy-types/internal/token"
	"github.com/funvibe/funxy-types/internal/types"
)

// CallSiteInstantiate implements spec.md §4.2's call-site
// instantiation: for a Quantified target, allocate a fresh
// TyVarContext at the caller's level, instantiate the inner Subr, and
// (when receiver is non-nil) unify the receiver type of a method call
// with the caller expression's type — the `self` binding.
//
// The rank-1 restriction ("callers never see a Quantified within a
// Quantified") is enforced structurally: Instantiate's return type is
// types.Subr, which cannot itself hold a Quantified at its own
// position, so there is nothing further to check at this call site.
// A Quantified nested inside a parameter or return position is not
// checked for here, and InstantiateSignature does not reject one
// either.
func CallSiteInstantiate(scope *symbols.Context, q types.Quantified, receiver types.Type, bag *diagnostics.Bag, file string, tok token.Token) types.Subr {
	level := scope.EnterLevel()
	defer scope.ExitLevel()

	subr, _ := types.Instantiate(q, level)

	if receiver != nil && len(subr.Params) > 0 {
		if err := types.SubUnify(receiver, subr.Params[0], scope); err != nil {
			bag.Add(diagnostics.TypeErrorf(tok, file, "call-site self-binding", "%s", err))
		}
	}
	return subr
}

// InstantiateSignature implements spec.md §4.2's signature
// instantiation: given a subroutine declaration, produce a Subr type
// by instantiating each parameter spec under the current quantifier
// scratchpad (any explicit fd.Quantifiers are pushed first via
// InstantiateBoundSet). A parameter without an annotation receives a
// free-var: at level current+1 normally (function-local and
// invisible to the enclosing scope until generalization), or at the
// current level in pre-register mode, so that an outer scope
// checking sibling declarations can still influence it before the
// signature is sealed.
func (in *Instantiator) InstantiateSignature(fd *ast.FunctionDeclaration, preRegister bool) types.Subr {
	if len(fd.Quantifiers) > 0 {
		in.InstantiateBoundSet(fd.Quantifiers)
	}

	level := 0
	if in.TV != nil {
		level = in.TV.Level()
	}
	paramLevel := level + 1
	if preRegister {
		paramLevel = level
	}

	translate := func(p *ast.Param) types.Type {
		if p.Annotation != nil {
			return in.TranslateTypeSpec(p.Annotation)
		}
		name := "_"
		if p.Name != nil {
			name = p.Name.Value
		}
		return types.FreeVarType{Cell: types.NewFreeVar(paramLevel, name, types.UninitedConstraint())}
	}

	params := make([]types.Type, len(fd.Params))
	for i, p := range fd.Params {
		params[i] = translate(p)
	}
	var varArgs *types.Type
	if fd.VarArgs != nil {
		t := translate(fd.VarArgs)
		varArgs = &t
	}

	kind := types.Func
	if fd.IsProc {
		kind = types.Proc
	}

	var ret types.Type
	if fd.ReturnType != nil {
		ret = in.TranslateTypeSpec(fd.ReturnType)
	} else {
		ret = types.FreeVarType{Cell: types.NewFreeVar(paramLevel, fd.Name.Value+".ret", types.UninitedConstraint())}
	}

	return types.Subr{SubrKind: kind, Params: params, VarArgs: varArgs, Return: ret}
}
