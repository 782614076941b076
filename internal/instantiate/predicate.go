package instantiate

import (
	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/types"
)

// EvalConstExpr translates a literal AST expression into a ground
// types.Const, used for enum-type values, the constant side of
// refinement predicates, and — from internal/checker — the singleton
// type a bare literal expression carries. It does not evaluate
// arbitrary expressions — only the literal forms the instantiator
// needs (symbolic folding of the rest happens in types.EvalTyParam
// once translated to TyParam form).
func EvalConstExpr(expr ast.Expression) (types.Const, bool) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return types.IntConst(e.Value), true
	case *ast.NatLiteral:
		return types.NatConst(int64(e.Value)), true
	case *ast.FloatLiteral:
		return types.FloatConst(e.Value), true
	case *ast.RatioLiteral:
		return types.RatioConst(e.Num, e.Denom), true
	case *ast.StringLiteral:
		return types.StrConst(e.Value), true
	case *ast.BoolLiteral:
		return types.BoolConst(e.Value), true
	case *ast.NoneLiteral:
		return types.NoneConst(), true
	case *ast.UnaryExpression:
		if e.Operator == "-" {
			if c, ok := EvalConstExpr(e.Operand); ok {
				switch c.Kind {
				case types.Int, types.Nat:
					return types.IntConst(-c.Int), true
				case types.Float:
					return types.FloatConst(-c.Float), true
				}
			}
		}
		return types.Const{}, false
	default:
		return types.Const{}, false
	}
}

func exprToTyParam(expr ast.Expression) types.TyParam {
	switch e := expr.(type) {
	case *ast.Identifier:
		return types.QVarTyParam{Name: e.Value}
	case *ast.BinaryExpression:
		return types.BinOpTyParam{Op: e.Operator, Lhs: exprToTyParam(e.Left), Rhs: exprToTyParam(e.Right)}
	case *ast.UnaryExpression:
		if c, ok := EvalConstExpr(e); ok {
			return types.ConstTyParam{Value: c}
		}
		return types.UnOpTyParam{Op: e.Operator, Operand: exprToTyParam(e.Operand)}
	default:
		if c, ok := EvalConstExpr(expr); ok {
			return types.ConstTyParam{Value: c}
		}
		return types.ConstTyParam{Value: types.NoneConst()}
	}
}

// translatePredicate converts a refinement predicate expression
// (`x == c`, `x >= c`, `P and Q`, ...) into the types.Predicate lattice.
func (in *Instantiator) translatePredicate(expr ast.Expression) (types.Predicate, bool) {
	bin, ok := expr.(*ast.BinaryExpression)
	if !ok {
		return nil, false
	}
	switch bin.Operator {
	case "and":
		l, lok := in.translatePredicate(bin.Left)
		r, rok := in.translatePredicate(bin.Right)
		if lok && rok {
			return types.PredAnd{Left: l, Right: r}, true
		}
		return nil, false
	case "or":
		l, lok := in.translatePredicate(bin.Left)
		r, rok := in.translatePredicate(bin.Right)
		if lok && rok {
			return types.PredOr{Left: l, Right: r}, true
		}
		return nil, false
	case "==", "!=", ">=", "<=", ">", "<":
		op := map[string]types.CmpOp{
			"==": types.CmpEq, "!=": types.CmpNe, ">=": types.CmpGe,
			"<=": types.CmpLe, ">": types.CmpGt, "<": types.CmpLt,
		}[bin.Operator]
		return types.PredCmp{Op: op, Lhs: exprToTyParam(bin.Left), Rhs: exprToTyParam(bin.Right)}, true
	default:
		return nil, false
	}
}

// TranslateTyParamSpec converts an ast.TyParamSpec into a types.TyParam.
func (in *Instantiator) TranslateTyParamSpec(spec ast.TyParamSpec) types.TyParam {
	switch s := spec.(type) {
	case *ast.ConstTyParamSpec:
		if c, ok := EvalConstExpr(s.Value); ok {
			return types.ConstTyParam{Value: c}
		}
		return types.ConstTyParam{Value: types.NoneConst()}
	case *ast.NameTyParamSpec:
		if in.TV != nil {
			if cell, ok := in.TV.GetTyVar(s.Name); ok {
				return types.FreeVarTyParam{Cell: cell}
			}
			if tp, ok := in.TV.GetTyParam(s.Name); ok {
				return tp
			}
		}
		return types.QVarTyParam{Name: s.Name}
	case *ast.BinOpTyParamSpec:
		return types.BinOpTyParam{Op: s.Op, Lhs: in.TranslateTyParamSpec(s.Lhs), Rhs: in.TranslateTyParamSpec(s.Rhs)}
	default:
		return types.ConstTyParam{Value: types.NoneConst()}
	}
}
