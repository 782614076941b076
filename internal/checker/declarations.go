package checker

import (
	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/instantiate"
	"github.com/funvibe/funxy-types/internal/symbols"
	"github.com/funvibe/funxy-types/internal/types"
)

// checkHeader instantiates a function's signature at a freshly
// entered level (so its own unannotated params are owned by that
// level, per spec.md §4.2's preRegister mode) and registers the name
// under the raw Subr, before any body — this module's or another
// declaration's — has been checked. The level is exited immediately;
// checkBody re-enters the identical level to finish the job, then
// generalizes relative to the enclosing level captured here.
func (c *Checker) checkHeader(fd *ast.FunctionDeclaration) pendingFunc {
	enclosing := c.Scope.Level()
	c.Scope.EnterLevel()
	tv := c.Scope.BeginInstantiation()
	in := instantiate.New(c.Scope, tv, c.Bag, c.File)
	subr := in.InstantiateSignature(fd, true)
	c.Scope.EndInstantiation()
	c.Scope.ExitLevel()

	if fd.Name != nil {
		c.Scope.RegisterVar(fd.Name.Value, symbols.VarInfo{
			Name: fd.Name.Value, Type: subr, Kind: symbols.VariableSymbol,
			DefFile: c.File, DefNode: fd,
		})
	}
	return pendingFunc{subr: subr, enclosing: enclosing}
}

// checkBody re-enters the level checkHeader used, binds each
// parameter into a fresh subroutine scope, checks the body expression
// against that scope, sub-unifies it with the declared/inferred
// return type, then generalizes the signature relative to the
// enclosing level and installs the result over the header's raw Subr.
func (c *Checker) checkBody(fd *ast.FunctionDeclaration, subr types.Subr, enclosing int) {
	c.Scope.EnterLevel()

	name := "<anonymous>"
	if fd.Name != nil {
		name = fd.Name.Value
	}
	bodyScope := symbols.NewContext(c.Scope.Name+"."+name, symbols.ScopeSubr, c.Scope)
	for i, p := range fd.Params {
		if p.Name == nil || i >= len(subr.Params) {
			continue
		}
		bodyScope.RegisterVar(p.Name.Value, symbols.VarInfo{
			Name: p.Name.Value, Type: subr.Params[i], Kind: symbols.VariableSymbol,
			DefFile: c.File, DefNode: fd,
		})
	}
	if fd.VarArgs != nil && fd.VarArgs.Name != nil && subr.VarArgs != nil {
		bodyScope.RegisterVar(fd.VarArgs.Name.Value, symbols.VarInfo{
			Name: fd.VarArgs.Name.Value, Type: *subr.VarArgs, Kind: symbols.VariableSymbol,
			DefFile: c.File, DefNode: fd,
		})
	}

	sub := &Checker{Scope: bodyScope, Bag: c.Bag, File: c.File, TypeOf: c.TypeOf, Referrers: c.Referrers}
	var bodyType types.Type = types.Primitive{Kind_: types.NoneType}
	if fd.Body != nil {
		bodyType = sub.checkExpr(fd.Body)
	}
	if subr.Return != nil {
		if err := types.SubUnify(bodyType, subr.Return, bodyScope); err != nil {
			tok := fd.Token
			if fd.Body != nil {
				tok = fd.Body.GetToken()
			}
			c.typeError(tok, "function return", "%s", err)
		}
	}

	c.Scope.ExitLevel()

	generalized := types.Generalize(subr, enclosing)
	if fd.Name != nil {
		c.Scope.UpdateVarType(fd.Name.Value, generalized)
	}
}

// checkRecordTypeDecl translates a record type declaration's field
// specs and registers the resulting nominal type, opening its (empty,
// for now — instance/method declarations are out of this AST's scope)
// method body Context.
func (c *Checker) checkRecordTypeDecl(rtd *ast.RecordTypeDeclaration) {
	in := instantiate.New(c.Scope, nil, c.Bag, c.File)
	fields := make(map[string]types.Type, len(rtd.Fields))
	for name, spec := range rtd.Fields {
		fields[name] = in.TranslateTypeSpec(spec)
	}
	rec := types.Record{Fields: fields}
	if rtd.Name != nil {
		c.Scope.RegisterType(rtd.Name.Value, rec)
	}
}

// checkVarDecl checks a mutable `name = value` binding: the value's
// inferred type is sub-unified against an explicit annotation when
// present, and the (annotation, if given, else the inferred type) is
// what gets registered — spec.md §4.6 leaves re-declaration unify to
// the caller, which RegisterVar's idempotent-lookup branch models.
func (c *Checker) checkVarDecl(vd *ast.VarDeclaration) types.Type {
	valueType := c.checkExpr(vd.Value)
	declared := valueType
	if vd.Annotation != nil {
		in := instantiate.New(c.Scope, nil, c.Bag, c.File)
		declared = in.TranslateTypeSpec(vd.Annotation)
		if err := types.SubUnify(valueType, declared, c.Scope); err != nil {
			c.typeError(vd.Token, "variable annotation", "%s", err)
		}
	}
	if vd.Name != nil {
		c.Scope.RegisterVar(vd.Name.Value, symbols.VarInfo{
			Name: vd.Name.Value, Type: declared, Kind: symbols.VariableSymbol,
			DefFile: c.File, DefNode: vd,
		})
	}
	return declared
}

// checkConstDecl is checkVarDecl's immutable counterpart (`:-`); the
// only difference visible to the checker is IsConstant on the
// resulting VarInfo (ownership/mutation rules are an evaluator
// concern, out of this package's scope).
func (c *Checker) checkConstDecl(cd *ast.ConstDeclaration) types.Type {
	valueType := c.checkExpr(cd.Value)
	declared := valueType
	if cd.Annotation != nil {
		in := instantiate.New(c.Scope, nil, c.Bag, c.File)
		declared = in.TranslateTypeSpec(cd.Annotation)
		if err := types.SubUnify(valueType, declared, c.Scope); err != nil {
			c.typeError(cd.Token, "constant annotation", "%s", err)
		}
	}
	if cd.Name != nil {
		c.Scope.RegisterVar(cd.Name.Value, symbols.VarInfo{
			Name: cd.Name.Value, Type: declared, Kind: symbols.VariableSymbol, IsConstant: true,
			DefFile: c.File, DefNode: cd,
		})
	}
	return declared
}
