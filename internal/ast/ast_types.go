package ast

import "github.com/funvibe/funxy-types/internal/token"

// TypeSpec is a type-level AST node — the surface syntax the
// instantiator (internal/instantiate) translates into a semantic
// types.Type (spec.md §4.2).
type TypeSpec interface {
	Node
	typeSpecNode()
}

// NamedTypeSpec: a bare identifier, optionally applied to arguments —
// `Int`, `List T`, `T` (a quantified variable), or a module-qualified
// name `math.Vector`.
type NamedTypeSpec struct {
	Token  token.Token
	Module string // optional qualifying module path
	Name   string
	Args   []TypeSpec
}

func (nt *NamedTypeSpec) typeSpecNode()        {}
func (nt *NamedTypeSpec) TokenLiteral() string  { return nt.Token.Lexeme }
func (nt *NamedTypeSpec) GetToken() token.Token { return nt.Token }

// ArrayTypeSpec: `Array T, N` — an element type and a length TyParamSpec.
type ArrayTypeSpec struct {
	Token  token.Token
	Elem   TypeSpec
	Length TyParamSpec
}

func (at *ArrayTypeSpec) typeSpecNode()        {}
func (at *ArrayTypeSpec) TokenLiteral() string  { return at.Token.Lexeme }
func (at *ArrayTypeSpec) GetToken() token.Token { return at.Token }

// TupleTypeSpec: (T1, T2, ...).
type TupleTypeSpec struct {
	Token   token.Token
	Elements []TypeSpec
}

func (tt *TupleTypeSpec) typeSpecNode()        {}
func (tt *TupleTypeSpec) TokenLiteral() string  { return tt.Token.Lexeme }
func (tt *TupleTypeSpec) GetToken() token.Token { return tt.Token }

// RecordTypeSpec: { field: T, ... }.
type RecordTypeSpec struct {
	Token  token.Token
	Fields map[string]TypeSpec
	Order  []string
}

func (rt *RecordTypeSpec) typeSpecNode()        {}
func (rt *RecordTypeSpec) TokenLiteral() string  { return rt.Token.Lexeme }
func (rt *RecordTypeSpec) GetToken() token.Token { return rt.Token }

// EnumTypeSpec: `{v1, v2, ...}` — a finite literal-value enumeration.
type EnumTypeSpec struct {
	Token  token.Token
	Values []Expression // constant expressions, evaluated by internal/instantiate's constant evaluator
}

func (et *EnumTypeSpec) typeSpecNode()        {}
func (et *EnumTypeSpec) TokenLiteral() string  { return et.Token.Lexeme }
func (et *EnumTypeSpec) GetToken() token.Token { return et.Token }

// IntervalOp names the four interval boundary combinations.
type IntervalOp int

const (
	Closed IntervalOp = iota
	LeftOpen
	RightOpen
	Open
)

// IntervalTypeSpec: `lhs op rhs`, e.g. `1 <= x <= 10`.
type IntervalTypeSpec struct {
	Token token.Token
	Op    IntervalOp
	Lhs   TyParamSpec
	Rhs   TyParamSpec
}

func (it *IntervalTypeSpec) typeSpecNode()        {}
func (it *IntervalTypeSpec) TokenLiteral() string  { return it.Token.Lexeme }
func (it *IntervalTypeSpec) GetToken() token.Token { return it.Token }

// SubrParamSpec is one parameter slot in a subroutine type spec.
type SubrParamSpec struct {
	Name     string // optional, for keyword/documentation purposes
	Type     TypeSpec
	HasDefault bool
}

// SubrTypeSpec: the non-default/var-args/default param lists, plus
// return type and kind, derived from the arrow token (`->` Func, `=>` Proc).
type SubrTypeSpec struct {
	Token         token.Token
	Params        []*SubrParamSpec
	VarArgs       *SubrParamSpec // optional
	DefaultParams []*SubrParamSpec
	IsProc        bool
	ReturnType    TypeSpec
}

func (st *SubrTypeSpec) typeSpecNode()        {}
func (st *SubrTypeSpec) TokenLiteral() string  { return st.Token.Lexeme }
func (st *SubrTypeSpec) GetToken() token.Token { return st.Token }

// AndTypeSpec: T and U.
type AndTypeSpec struct {
	Token token.Token
	Left  TypeSpec
	Right TypeSpec
}

func (at *AndTypeSpec) typeSpecNode()        {}
func (at *AndTypeSpec) TokenLiteral() string  { return at.Token.Lexeme }
func (at *AndTypeSpec) GetToken() token.Token { return at.Token }

// OrTypeSpec: T or U.
type OrTypeSpec struct {
	Token token.Token
	Left  TypeSpec
	Right TypeSpec
}

func (ot *OrTypeSpec) typeSpecNode()        {}
func (ot *OrTypeSpec) TokenLiteral() string  { return ot.Token.Lexeme }
func (ot *OrTypeSpec) GetToken() token.Token { return ot.Token }

// NotTypeSpec: not T.
type NotTypeSpec struct {
	Token token.Token
	Inner TypeSpec
}

func (nt *NotTypeSpec) typeSpecNode()        {}
func (nt *NotTypeSpec) TokenLiteral() string  { return nt.Token.Lexeme }
func (nt *NotTypeSpec) GetToken() token.Token { return nt.Token }

// RefinementTypeSpec: `{x: Base | Pred}`.
type RefinementTypeSpec struct {
	Token token.Token
	Bound string
	Base  TypeSpec
	Preds []Expression
}

func (rt *RefinementTypeSpec) typeSpecNode()        {}
func (rt *RefinementTypeSpec) TokenLiteral() string  { return rt.Token.Lexeme }
func (rt *RefinementTypeSpec) GetToken() token.Token { return rt.Token }

// RefTypeSpec / RefMutTypeSpec: `Ref T` read-only or `RefMut T [=> U]` mutable reference.
type RefTypeSpec struct {
	Token token.Token
	Inner TypeSpec
}

func (rt *RefTypeSpec) typeSpecNode()        {}
func (rt *RefTypeSpec) TokenLiteral() string  { return rt.Token.Lexeme }
func (rt *RefTypeSpec) GetToken() token.Token { return rt.Token }

type RefMutTypeSpec struct {
	Token  token.Token
	Before TypeSpec
	After  TypeSpec // optional
}

func (rt *RefMutTypeSpec) typeSpecNode()        {}
func (rt *RefMutTypeSpec) TokenLiteral() string  { return rt.Token.Lexeme }
func (rt *RefMutTypeSpec) GetToken() token.Token { return rt.Token }

// TyParamSpec is a type-parameter-level expression: a literal constant,
// a monomorphic type used as a value, a bare name (resolved against the
// active quantifier scope), or an arithmetic/template application.
type TyParamSpec interface {
	Node
	tyParamSpecNode()
}

// ConstTyParamSpec wraps a literal constant expression used as a type parameter.
type ConstTyParamSpec struct {
	Token token.Token
	Value Expression
}

func (c *ConstTyParamSpec) tyParamSpecNode()     {}
func (c *ConstTyParamSpec) TokenLiteral() string  { return c.Token.Lexeme }
func (c *ConstTyParamSpec) GetToken() token.Token { return c.Token }

// NameTyParamSpec references a bound variable by name (e.g. `N` in `Array T, N`).
type NameTyParamSpec struct {
	Token token.Token
	Name  string
}

func (n *NameTyParamSpec) tyParamSpecNode()     {}
func (n *NameTyParamSpec) TokenLiteral() string  { return n.Token.Lexeme }
func (n *NameTyParamSpec) GetToken() token.Token { return n.Token }

// BinOpTyParamSpec: lhs op rhs, e.g. `N + 1`.
type BinOpTyParamSpec struct {
	Token token.Token
	Op    string
	Lhs   TyParamSpec
	Rhs   TyParamSpec
}

func (b *BinOpTyParamSpec) tyParamSpecNode()     {}
func (b *BinOpTyParamSpec) TokenLiteral() string  { return b.Token.Lexeme }
func (b *BinOpTyParamSpec) GetToken() token.Token { return b.Token }

// BoundKind distinguishes Instance (`α : T`) from Sandwiched (`Sub <: α <: Sup`) bounds.
type BoundKind int

const (
	InstanceBound BoundKind = iota
	SandwichedBound
)

// BoundSpec is the surface syntax for one member of a quantified
// signature's bound-set (spec.md §3.3, §3.6).
type BoundSpec struct {
	Token   token.Token
	Subject string
	Kind    BoundKind
	Of      TypeSpec // for InstanceBound
	Sub     TypeSpec // for SandwichedBound, optional (defaults to Never)
	Sup     TypeSpec // for SandwichedBound, optional (defaults to Obj)
}

func (b *BoundSpec) TokenLiteral() string  { return b.Token.Lexeme }
func (b *BoundSpec) GetToken() token.Token { return b.Token }

// QuantifiedTypeSpec: a bound-set plus an inner subroutine type spec —
// the surface syntax for spec.md §3.1's Quantified variant.
type QuantifiedTypeSpec struct {
	Token  token.Token
	Bounds []*BoundSpec
	Inner  *SubrTypeSpec
}

func (qt *QuantifiedTypeSpec) typeSpecNode()        {}
func (qt *QuantifiedTypeSpec) TokenLiteral() string  { return qt.Token.Lexeme }
func (qt *QuantifiedTypeSpec) GetToken() token.Token { return qt.Token }
