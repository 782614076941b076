package checker

import (
	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/types"
)

// checkBlock checks a statement sequence in the current scope and
// returns the value of its last ExpressionStatement — BlockExpression
// and a function body's top-level statement list both route through
// here, matching spec.md's "do: ... end" block-value semantics.
func (c *Checker) checkBlock(stmts []ast.Statement) types.Type {
	var last types.Type
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ExpressionStatement:
			last = c.checkExpr(s.Expression)
		case *ast.VarDeclaration:
			c.checkVarDecl(s)
			last = types.Primitive{Kind_: types.NoneType}
		case *ast.ConstDeclaration:
			c.checkConstDecl(s)
			last = types.Primitive{Kind_: types.NoneType}
		case *ast.FunctionDeclaration:
			pf := c.checkHeader(s)
			c.checkBody(s, pf.subr, pf.enclosing)
			last = types.Primitive{Kind_: types.NoneType}
		case *ast.RecordTypeDeclaration:
			c.checkRecordTypeDecl(s)
			last = types.Primitive{Kind_: types.NoneType}
		default:
			last = types.Primitive{Kind_: types.NoneType}
		}
	}
	if last == nil {
		last = types.Primitive{Kind_: types.NoneType}
	}
	return last
}
