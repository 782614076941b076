package ast

import "github.com/funvibe/funxy-types/internal/token"

// Pattern is a destructuring/binding form used by VarDeclaration targets,
// function parameters and match arms. Trimmed from the teacher's larger
// pattern set to the shapes the checker actually needs to type.
type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern: `_`, matches anything and binds nothing.
type WildcardPattern struct {
	Token token.Token
}

func (w *WildcardPattern) patternNode()        {}
func (w *WildcardPattern) TokenLiteral() string  { return w.Token.Lexeme }
func (w *WildcardPattern) GetToken() token.Token { return w.Token }

// IdentifierPattern: binds the matched value to a name, with an
// optional type annotation (`x: Int`).
type IdentifierPattern struct {
	Token      token.Token
	Name       string
	Annotation TypeSpec // optional
}

func (ip *IdentifierPattern) patternNode()        {}
func (ip *IdentifierPattern) TokenLiteral() string  { return ip.Token.Lexeme }
func (ip *IdentifierPattern) GetToken() token.Token { return ip.Token }

// LiteralPattern matches against a literal constant (used for enum/
// interval-narrowing match arms).
type LiteralPattern struct {
	Token token.Token
	Value Expression
}

func (lp *LiteralPattern) patternNode()        {}
func (lp *LiteralPattern) TokenLiteral() string  { return lp.Token.Lexeme }
func (lp *LiteralPattern) GetToken() token.Token { return lp.Token }

// TuplePattern: (p1, p2, ...).
type TuplePattern struct {
	Token    token.Token
	Elements []Pattern
}

func (tp *TuplePattern) patternNode()        {}
func (tp *TuplePattern) TokenLiteral() string  { return tp.Token.Lexeme }
func (tp *TuplePattern) GetToken() token.Token { return tp.Token }

// RecordPattern: { field: p, ... }, with an optional `..rest` catch-all
// name that binds the remaining fields as a sub-record (row-polymorphic
// destructuring, spec.md's structural-record depth subtyping in pattern form).
type RecordPattern struct {
	Token  token.Token
	Fields map[string]Pattern
	Order  []string
	Rest   string // optional; "" means no rest binding
}

func (rp *RecordPattern) patternNode()        {}
func (rp *RecordPattern) TokenLiteral() string  { return rp.Token.Lexeme }
func (rp *RecordPattern) GetToken() token.Token { return rp.Token }

// TypedPattern narrows an inner pattern by an explicit TypeSpec — the
// surface form that drives refinement-type narrowing in match arms
// (spec.md §8's "refinement narrowing" testable property).
type TypedPattern struct {
	Token      token.Token
	Inner      Pattern
	Annotation TypeSpec
}

func (tp *TypedPattern) patternNode()        {}
func (tp *TypedPattern) TokenLiteral() string  { return tp.Token.Lexeme }
func (tp *TypedPattern) GetToken() token.Token { return tp.Token }

// MatchArm: pattern [if guard] -> body.
type MatchArm struct {
	Token   token.Token
	Pattern Pattern
	Guard   Expression // optional
	Body    Expression
}

// MatchExpression: match subject { arm1, arm2, ... }.
type MatchExpression struct {
	Token   token.Token
	Subject Expression
	Arms    []*MatchArm
}

func (me *MatchExpression) expressionNode()       {}
func (me *MatchExpression) TokenLiteral() string  { return me.Token.Lexeme }
func (me *MatchExpression) GetToken() token.Token { return me.Token }
