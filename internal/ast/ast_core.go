// Package ast defines the syntax tree consumed by the type-checking
// nucleus (internal/instantiate, internal/checker). The concrete
// lexer/parser that produce it are an out-of-scope collaborator
// (spec.md §1); ast is kept deliberately small — only the node shapes
// the checker actually type-checks — so that tests can hand-build
// synthetic programs without running the parser, per the "dynamic
// dispatch over collaborators" design note.
package ast

import "github.com/funvibe/funxy-types/internal/token"

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
}

// Statement is a Node that represents a top-level or block statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents a value-producing expression.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node produced for one compiled chunk (a whole
// module, or one REPL-submitted block).
type Program struct {
	Token      token.Token
	Statements []Statement
}

func (p *Program) GetToken() token.Token { return p.Token }
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// Identifier is a bare name reference, e.g. `x`, `id`, `T`.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// IntegerLiteral is a base-10 signed integer literal: 3, -7.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()       {}
func (il *IntegerLiteral) TokenLiteral() string  { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token { return il.Token }

// NatLiteral is a non-negative integer literal written with the `_u` suffix: 3_u.
type NatLiteral struct {
	Token token.Token
	Value uint64
}

func (nl *NatLiteral) expressionNode()       {}
func (nl *NatLiteral) TokenLiteral() string  { return nl.Token.Lexeme }
func (nl *NatLiteral) GetToken() token.Token { return nl.Token }

// FloatLiteral is an IEEE754 literal: 3.14.
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode()       {}
func (fl *FloatLiteral) TokenLiteral() string  { return fl.Token.Lexeme }
func (fl *FloatLiteral) GetToken() token.Token { return fl.Token }

// RatioLiteral is an exact rational literal: 1/3.
type RatioLiteral struct {
	Token token.Token
	Num   int64
	Denom int64
}

func (rl *RatioLiteral) expressionNode()       {}
func (rl *RatioLiteral) TokenLiteral() string  { return rl.Token.Lexeme }
func (rl *RatioLiteral) GetToken() token.Token { return rl.Token }

// StringLiteral is a double-quoted string: "hello".
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }

// BoolLiteral is True or False.
type BoolLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BoolLiteral) expressionNode()       {}
func (bl *BoolLiteral) TokenLiteral() string  { return bl.Token.Lexeme }
func (bl *BoolLiteral) GetToken() token.Token { return bl.Token }

// NoneLiteral is the sole inhabitant of NoneType.
type NoneLiteral struct {
	Token token.Token
}

func (nl *NoneLiteral) expressionNode()       {}
func (nl *NoneLiteral) TokenLiteral() string  { return nl.Token.Lexeme }
func (nl *NoneLiteral) GetToken() token.Token { return nl.Token }

// TupleLiteral: (e1, e2, ...).
type TupleLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (tl *TupleLiteral) expressionNode()       {}
func (tl *TupleLiteral) TokenLiteral() string  { return tl.Token.Lexeme }
func (tl *TupleLiteral) GetToken() token.Token { return tl.Token }

// RecordLiteral: { field: expr, ... }.
type RecordLiteral struct {
	Token  token.Token
	Fields map[string]Expression
	// Order preserves source order for deterministic diagnostics/printing.
	Order []string
}

func (rl *RecordLiteral) expressionNode()       {}
func (rl *RecordLiteral) TokenLiteral() string  { return rl.Token.Lexeme }
func (rl *RecordLiteral) GetToken() token.Token { return rl.Token }

// BinaryExpression: lhs op rhs.
type BinaryExpression struct {
	Token    token.Token
	Operator string
	Left     Expression
	Right    Expression
}

func (be *BinaryExpression) expressionNode()       {}
func (be *BinaryExpression) TokenLiteral() string  { return be.Token.Lexeme }
func (be *BinaryExpression) GetToken() token.Token { return be.Token }

// UnaryExpression: op operand.
type UnaryExpression struct {
	Token    token.Token
	Operator string
	Operand  Expression
}

func (ue *UnaryExpression) expressionNode()       {}
func (ue *UnaryExpression) TokenLiteral() string  { return ue.Token.Lexeme }
func (ue *UnaryExpression) GetToken() token.Token { return ue.Token }

// CallExpression: callee(args...). Receiver is set when this is a call
// through `.` on a receiver (Callee is the method name, Receiver the
// left-hand side expression whose type binds `self` at instantiation).
type CallExpression struct {
	Token    token.Token
	Callee   Expression
	Receiver Expression // nil for a plain call
	Args     []Expression
}

func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }

// FieldAccess: expr.field.
type FieldAccess struct {
	Token token.Token
	Base  Expression
	Field string
}

func (fa *FieldAccess) expressionNode()       {}
func (fa *FieldAccess) TokenLiteral() string  { return fa.Token.Lexeme }
func (fa *FieldAccess) GetToken() token.Token { return fa.Token }

// BlockExpression is a sequence of statements whose last expression
// statement's value is the block's value (do: ... end).
type BlockExpression struct {
	Token      token.Token
	Statements []Statement
}

func (be *BlockExpression) expressionNode()       {}
func (be *BlockExpression) TokenLiteral() string  { return be.Token.Lexeme }
func (be *BlockExpression) GetToken() token.Token { return be.Token }

// ExpressionStatement wraps an expression used for its value/side effect.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }

// VarDeclaration: name [: TypeSpec] = value. Mutable (may be re-assigned).
type VarDeclaration struct {
	Token      token.Token
	Name       *Identifier
	Annotation TypeSpec // optional
	Value      Expression
}

func (vd *VarDeclaration) statementNode()       {}
func (vd *VarDeclaration) TokenLiteral() string  { return vd.Token.Lexeme }
func (vd *VarDeclaration) GetToken() token.Token { return vd.Token }

// ConstDeclaration: name [: TypeSpec] :- value. Immutable.
type ConstDeclaration struct {
	Token      token.Token
	Name       *Identifier
	Annotation TypeSpec
	Value      Expression
}

func (cd *ConstDeclaration) statementNode()       {}
func (cd *ConstDeclaration) TokenLiteral() string  { return cd.Token.Lexeme }
func (cd *ConstDeclaration) GetToken() token.Token { return cd.Token }

// Param is one declared parameter of a subroutine.
type Param struct {
	Name       *Identifier
	Annotation TypeSpec   // optional; absent means "infer a fresh free-var"
	Default    Expression // optional default-value expression
}

// FunctionDeclaration: name params... -> RetType = body   (Func, immutable self)
// or                   name params... => RetType = body   (Proc, may mutate)
type FunctionDeclaration struct {
	Token       token.Token
	Name        *Identifier
	Quantifiers []*BoundSpec // explicit |T, U: Bound| clause, may be empty
	Params      []*Param
	VarArgs     *Param // optional trailing variadic parameter
	IsProc      bool   // true for `=>`, false for `->`
	ReturnType  TypeSpec
	Body        Expression
}

func (fd *FunctionDeclaration) statementNode()       {}
func (fd *FunctionDeclaration) TokenLiteral() string  { return fd.Token.Lexeme }
func (fd *FunctionDeclaration) GetToken() token.Token { return fd.Token }

// RecordTypeDeclaration: type Name = { field: TypeSpec, ... }.
type RecordTypeDeclaration struct {
	Token  token.Token
	Name   *Identifier
	Fields map[string]TypeSpec
	Order  []string
}

func (rtd *RecordTypeDeclaration) statementNode()       {}
func (rtd *RecordTypeDeclaration) TokenLiteral() string  { return rtd.Token.Lexeme }
func (rtd *RecordTypeDeclaration) GetToken() token.Token { return rtd.Token }
