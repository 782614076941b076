package checker

import (
	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/diagnostics"
	"github.com/funvibe/funxy-types/internal/instantiate"
	"github.com/funvibe/funxy-types/internal/symbols"
	"github.com/funvibe/funxy-types/internal/token"
	"github.com/funvibe/funxy-types/internal/types"
)

// checkExpr is the expression-dispatch nucleus: no Visitor, a type
// switch over every internal/ast expression node, matching the
// teacher's own type-switch idiom (there is no Visitor in
// internal/types either, per its package doc).
func (c *Checker) checkExpr(e ast.Expression) types.Type {
	switch n := e.(type) {
	case *ast.Identifier:
		return c.checkIdentifier(n)
	case *ast.IntegerLiteral:
		return c.record(e, c.singletonOf(n))
	case *ast.NatLiteral:
		return c.record(e, c.singletonOf(n))
	case *ast.FloatLiteral:
		return c.record(e, c.singletonOf(n))
	case *ast.RatioLiteral:
		return c.record(e, c.singletonOf(n))
	case *ast.StringLiteral:
		return c.record(e, c.singletonOf(n))
	case *ast.BoolLiteral:
		return c.record(e, c.singletonOf(n))
	case *ast.NoneLiteral:
		return c.record(e, types.Primitive{Kind_: types.NoneType})
	case *ast.TupleLiteral:
		return c.checkTuple(n)
	case *ast.RecordLiteral:
		return c.checkRecordLiteral(n)
	case *ast.BinaryExpression:
		return c.checkBinary(n)
	case *ast.UnaryExpression:
		return c.checkUnary(n)
	case *ast.CallExpression:
		return c.checkCall(n)
	case *ast.FieldAccess:
		return c.checkFieldAccess(n)
	case *ast.BlockExpression:
		return c.record(e, c.checkBlock(n.Statements))
	case *ast.MatchExpression:
		return c.checkMatch(n)
	default:
		c.Bag.Add(diagnostics.InternalInvariantViolationf("expression dispatch", "unhandled expression node %T", e))
		return c.record(e, types.PNever())
	}
}

// singletonOf gives a bare literal its narrowest type: a one-member
// VEnum over the literal's constant-evaluated value — a literal's type
// is the value it denotes, not the widest primitive its syntax could
// have produced. Falls back to Obj if the expression isn't one
// EvalConstExpr recognizes (never happens
// for the literal node types dispatched here, but keeps this total).
func (c *Checker) singletonOf(e ast.Expression) types.Type {
	if v, ok := instantiate.EvalConstExpr(e); ok {
		return types.VEnum{Values: []types.Const{v}}
	}
	return types.PObj()
}

func (c *Checker) checkIdentifier(id *ast.Identifier) types.Type {
	info, _, ok := c.Scope.GetVar(id.Value)
	if !ok {
		c.nameError(id.Token, id.Value)
		return c.record(id, types.PNever())
	}
	c.Referrers[id.Value] = append(c.Referrers[id.Value], id.Token)
	return c.record(id, info.Type)
}

func (c *Checker) checkTuple(tl *ast.TupleLiteral) types.Type {
	params := make([]types.TyParam, len(tl.Elements))
	for i, el := range tl.Elements {
		params[i] = types.TypeTyParam{T: c.checkExpr(el)}
	}
	return c.record(tl, types.Poly{Name: "Tuple", Params: params})
}

func (c *Checker) checkRecordLiteral(rl *ast.RecordLiteral) types.Type {
	fields := make(map[string]types.Type, len(rl.Fields))
	for name, expr := range rl.Fields {
		fields[name] = c.checkExpr(expr)
	}
	return c.record(rl, types.Record{Fields: fields})
}

// joinTypes models the spec.md §3.1 "or" join two branches of equal
// status settle on: if one side is already a subtype of the other,
// the wider side wins; otherwise the result is the explicit Or
// disjunction, left for a later narrowing/match to resolve.
func (c *Checker) joinTypes(a, b types.Type) types.Type {
	if err := types.SubUnify(a, b, c.Scope); err == nil {
		return b
	}
	if err := types.SubUnify(b, a, c.Scope); err == nil {
		return a
	}
	return types.Or{Left: a, Right: b}
}

var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

var logicalOps = map[string]bool{"&&": true, "||": true, "and": true, "or": true}

func (c *Checker) checkBinary(be *ast.BinaryExpression) types.Type {
	left := c.checkExpr(be.Left)
	right := c.checkExpr(be.Right)

	switch {
	case comparisonOps[be.Operator]:
		return c.record(be, types.Primitive{Kind_: types.Bool})
	case logicalOps[be.Operator]:
		boolT := types.Type(types.Primitive{Kind_: types.Bool})
		if err := types.SubUnify(left, boolT, c.Scope); err != nil {
			c.typeError(be.Left.GetToken(), "logical operand", "%s", err)
		}
		if err := types.SubUnify(right, boolT, c.Scope); err != nil {
			c.typeError(be.Right.GetToken(), "logical operand", "%s", err)
		}
		return c.record(be, types.Primitive{Kind_: types.Bool})
	default:
		return c.record(be, c.joinTypes(left, right))
	}
}

func (c *Checker) checkUnary(ue *ast.UnaryExpression) types.Type {
	operand := c.checkExpr(ue.Operand)
	if ue.Operator == "!" || ue.Operator == "not" {
		boolT := types.Type(types.Primitive{Kind_: types.Bool})
		if err := types.SubUnify(operand, boolT, c.Scope); err != nil {
			c.typeError(ue.Operand.GetToken(), "logical negation", "%s", err)
		}
		return c.record(ue, types.Primitive{Kind_: types.Bool})
	}
	return c.record(ue, operand)
}

func calleeName(e ast.Expression) (string, bool) {
	id, ok := e.(*ast.Identifier)
	if !ok {
		return "", false
	}
	return id.Value, true
}

func (c *Checker) checkCall(ce *ast.CallExpression) types.Type {
	var receiver types.Type
	if ce.Receiver != nil {
		receiver = c.checkExpr(ce.Receiver)
	}

	var calleeType types.Type
	if receiver != nil {
		name, ok := calleeName(ce.Callee)
		if !ok {
			c.Bag.Add(diagnostics.InternalInvariantViolationf("call dispatch", "method callee is not a bare name"))
			return c.record(ce, types.PNever())
		}
		resolved, found := c.Scope.ResolveProj(receiver, name)
		if !found {
			c.nameError(ce.Callee.GetToken(), name)
			return c.record(ce, types.PNever())
		}
		c.Referrers[name] = append(c.Referrers[name], ce.Callee.GetToken())
		calleeType = resolved
	} else {
		calleeType = c.checkExpr(ce.Callee)
	}

	subr, ok := c.resolveSubr(calleeType, receiver, ce.Token)
	if !ok {
		c.typeError(ce.Token, "call target", "%s is not callable", calleeType)
		return c.record(ce, types.PNever())
	}

	for i, arg := range ce.Args {
		argType := c.checkExpr(arg)
		var expected types.Type
		switch {
		case i < len(subr.Params):
			expected = subr.Params[i]
		case subr.VarArgs != nil:
			expected = *subr.VarArgs
		default:
			c.typeError(arg.GetToken(), "call argument", "too many arguments: %s accepts at most %d", subr, len(subr.Params))
			continue
		}
		if err := types.SubUnify(argType, expected, c.Scope); err != nil {
			c.typeError(arg.GetToken(), "call argument", "%s", err)
		}
	}
	if len(ce.Args) < len(subr.Params)-len(subr.DefaultParams) {
		c.typeError(ce.Token, "call argument", "too few arguments: %s requires at least %d", subr, len(subr.Params)-len(subr.DefaultParams))
	}

	ret := subr.Return
	if ret == nil {
		ret = types.PNever()
	}
	return c.record(ce, narrowCallResult(ret))
}

// narrowCallResult reports the tightest type actually observed for a
// call's result at its call site: `id 1` yields `{1}` even though
// `id`'s declared type stays `T -> T` with T unconstrained. A freshly
// instantiated return free-var that never got an upper bound beyond
// the default Obj top carries its lower bound as the only real
// information available; the cell itself stays unlinked so the
// declared signature and any other use of the same quantified T are
// unaffected.
func narrowCallResult(ret types.Type) types.Type {
	fv, ok := ret.(types.FreeVarType)
	if !ok || fv.Cell.IsLinked() {
		return ret
	}
	c := fv.Cell.Constraint()
	if c.Kind != types.SandwichedKind || c.Sup.String() != types.PObj().String() {
		return ret
	}
	if c.Sub == nil || c.Sub.String() == types.PNever().String() {
		return ret
	}
	return c.Sub
}

func (c *Checker) checkFieldAccess(fa *ast.FieldAccess) types.Type {
	base := c.checkExpr(fa.Base)
	if rec, ok := base.(types.Record); ok {
		if t, ok := rec.Fields[fa.Field]; ok {
			return c.record(fa, t)
		}
	}
	if t, ok := c.Scope.ResolveProj(base, fa.Field); ok {
		c.Referrers[fa.Field] = append(c.Referrers[fa.Field], fa.Token)
		return c.record(fa, t)
	}
	c.nameError(fa.Token, fa.Field)
	return c.record(fa, types.PNever())
}

func (c *Checker) checkMatch(me *ast.MatchExpression) types.Type {
	c.checkExpr(me.Subject)
	subjectType := c.TypeOf[me.Subject]

	var result types.Type
	for _, arm := range me.Arms {
		armScope := symbols.NewContext(c.Scope.Name+".match", symbols.ScopeInstant, c.Scope)
		bindPattern(armScope, arm.Pattern, subjectType)
		armChecker := &Checker{Scope: armScope, Bag: c.Bag, File: c.File, TypeOf: c.TypeOf, Referrers: c.Referrers}
		if arm.Guard != nil {
			guardType := armChecker.checkExpr(arm.Guard)
			boolT := types.Type(types.Primitive{Kind_: types.Bool})
			if err := types.SubUnify(guardType, boolT, armScope); err != nil {
				c.typeError(arm.Guard.GetToken(), "match guard", "%s", err)
			}
		}
		armType := armChecker.checkExpr(arm.Body)
		if result == nil {
			result = armType
		} else {
			result = c.joinTypes(result, armType)
		}
	}
	if result == nil {
		result = types.Primitive{Kind_: types.NoneType}
	}
	return c.record(me, result)
}

// resolveSubr turns a callee's type into the Subr actually invoked,
// instantiating a Quantified signature at a fresh call-site level and
// self-binding the receiver (spec.md §4.2's call-site instantiation).
func (c *Checker) resolveSubr(calleeType, receiver types.Type, tok token.Token) (types.Subr, bool) {
	switch t := calleeType.(type) {
	case types.Quantified:
		return instantiate.CallSiteInstantiate(c.Scope, t, receiver, c.Bag, c.File, tok), true
	case types.Subr:
		return t, true
	default:
		return types.Subr{}, false
	}
}
