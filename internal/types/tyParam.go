package types

import "fmt"

// Const is a literal value in the C7 constant lattice: literals map
// here with a total order on like kinds and a partial order across
// kinds (TryCmp).
type Const struct {
	Kind  PrimitiveKind // Int, Nat, Ratio, Float, Str, Bool, NoneType
	Int   int64         // Int, Nat (Nat requires Int >= 0)
	Float float64       // Float
	Num   int64         // Ratio numerator
	Den   int64         // Ratio denominator, always > 0
	Str   string
	Bool  bool
}

func IntConst(v int64) Const   { return Const{Kind: Int, Int: v} }
func NatConst(v int64) Const   { return Const{Kind: Nat, Int: v} }
func FloatConst(v float64) Const { return Const{Kind: Float, Float: v} }
func RatioConst(n, d int64) Const { return Const{Kind: Ratio, Num: n, Den: d} }
func StrConst(v string) Const { return Const{Kind: Str, Str: v} }
func BoolConst(v bool) Const  { return Const{Kind: Bool, Bool: v} }
func NoneConst() Const        { return Const{Kind: NoneType} }

func (c Const) String() string {
	switch c.Kind {
	case Int, Nat:
		return fmt.Sprintf("%d", c.Int)
	case Float:
		return fmt.Sprintf("%g", c.Float)
	case Ratio:
		return fmt.Sprintf("%d/%d", c.Num, c.Den)
	case Str:
		return fmt.Sprintf("%q", c.Str)
	case Bool:
		return fmt.Sprintf("%t", c.Bool)
	case NoneType:
		return "None"
	default:
		return "<const>"
	}
}

// TypeOf returns the primitive type a literal inhabits.
func (c Const) TypeOf() Type {
	switch c.Kind {
	case Nat:
		if c.Int < 0 {
			return Primitive{Kind_: Int}
		}
		return Primitive{Kind_: Nat}
	default:
		return Primitive{Kind_: c.Kind}
	}
}

// FitsPrimitive reports whether this constant can inhabit the given
// primitive kind: either its own kind is on (or below) k in the
// numeric tower, or — the narrowing case a singleton literal needs —
// k is Nat and the concrete value is actually non-negative, even
// though the literal's syntactic kind (Int, Ratio, Float) sits above
// Nat in the tower.
func (c Const) FitsPrimitive(k PrimitiveKind) bool {
	if c.Kind == k {
		return true
	}
	ar, aok := numericTowerRank[c.Kind]
	er, eok := numericTowerRank[k]
	if !aok || !eok {
		return false
	}
	if ar <= er {
		return true
	}
	if k == Nat {
		f, ok := c.asFloat()
		return ok && f >= 0
	}
	return false
}

// asFloat reduces any numeric const to a float64 for cross-kind
// comparison; non-numeric consts have no float form.
func (c Const) asFloat() (float64, bool) {
	switch c.Kind {
	case Int, Nat:
		return float64(c.Int), true
	case Float:
		return c.Float, true
	case Ratio:
		if c.Den == 0 {
			return 0, false
		}
		return float64(c.Num) / float64(c.Den), true
	default:
		return 0, false
	}
}

// Ordering is the result of TryCmp: a partial order across kinds.
type Ordering int

const (
	Less Ordering = iota
	Equal
	Greater
	Unrelated
)

// TryCmp compares two constants: total order within like numeric
// kinds, reduced-to-float comparison across numeric kinds, and
// Unrelated whenever the kinds have no common lattice (e.g. Str vs Int).
func TryCmp(a, b Const) Ordering {
	if a.Kind == Str && b.Kind == Str {
		switch {
		case a.Str < b.Str:
			return Less
		case a.Str > b.Str:
			return Greater
		default:
			return Equal
		}
	}
	if a.Kind == Bool && b.Kind == Bool {
		if a.Bool == b.Bool {
			return Equal
		}
		if !a.Bool && b.Bool {
			return Less
		}
		return Greater
	}
	if a.Kind == NoneType && b.Kind == NoneType {
		return Equal
	}
	af, aok := a.asFloat()
	bf, bok := b.asFloat()
	if !aok || !bok {
		return Unrelated
	}
	switch {
	case af < bf:
		return Less
	case af > bf:
		return Greater
	default:
		return Equal
	}
}

// TyParam is the dependent type-parameter lattice (spec.md §3.2): a
// constant value, a monomorphic type held as a parameter, a free-var,
// a quantified variable, an arithmetic expression, or a constant-
// template application.
type TyParam interface {
	String() string
	FreeVars(set map[uint64]*FreeVar)
	tyParamNode()
}

type ConstTyParam struct{ Value Const }

func (c ConstTyParam) String() string                  { return c.Value.String() }
func (c ConstTyParam) FreeVars(map[uint64]*FreeVar) {}
func (c ConstTyParam) tyParamNode()                     {}

// TypeTyParam holds a monomorphic Type used as a type parameter value
// (e.g. the element type argument to List(T)).
type TypeTyParam struct{ T Type }

func (t TypeTyParam) String() string { return t.T.String() }
func (t TypeTyParam) FreeVars(set map[uint64]*FreeVar) { t.T.FreeVars(set) }
func (t TypeTyParam) tyParamNode()   {}

// FreeVarTyParam is a term-level dependent free-var, e.g. the `N` in
// `Array(T, N)` before it is resolved.
type FreeVarTyParam struct{ Cell *FreeVar }

func (f FreeVarTyParam) String() string {
	if f.Cell.IsLinked() {
		return f.Cell.Crack().String()
	}
	return fmt.Sprintf("?%s%d", f.Cell.Name, f.Cell.ID())
}
func (f FreeVarTyParam) FreeVars(set map[uint64]*FreeVar) {
	if f.Cell.IsLinked() {
		f.Cell.Crack().FreeVars(set)
		return
	}
	set[f.Cell.ID()] = f.Cell
}
func (f FreeVarTyParam) tyParamNode() {}

// QVarTyParam references a quantified variable by name, staged inside
// a Quantified's inner Subr before call-site instantiation.
type QVarTyParam struct{ Name string }

func (q QVarTyParam) String() string                  { return q.Name }
func (q QVarTyParam) FreeVars(map[uint64]*FreeVar) {}
func (q QVarTyParam) tyParamNode()                     {}

// BinOpTyParam: lhs op rhs, e.g. N + 1.
type BinOpTyParam struct {
	Op       string
	Lhs, Rhs TyParam
}

func (b BinOpTyParam) String() string { return fmt.Sprintf("(%s %s %s)", b.Lhs, b.Op, b.Rhs) }
func (b BinOpTyParam) FreeVars(set map[uint64]*FreeVar) {
	b.Lhs.FreeVars(set)
	b.Rhs.FreeVars(set)
}
func (b BinOpTyParam) tyParamNode() {}

// UnOpTyParam: op operand, e.g. -N.
type UnOpTyParam struct {
	Op      string
	Operand TyParam
}

func (u UnOpTyParam) String() string                  { return u.Op + u.Operand.String() }
func (u UnOpTyParam) FreeVars(set map[uint64]*FreeVar) { u.Operand.FreeVars(set) }
func (u UnOpTyParam) tyParamNode()                     {}

// AppTyParam is the application of a constant-template (a named
// type-level function) to arguments, e.g. succ(N).
type AppTyParam struct {
	Name string
	Args []TyParam
}

func (a AppTyParam) String() string {
	s := a.Name + "("
	for i, arg := range a.Args {
		if i > 0 {
			s += ", "
		}
		s += arg.String()
	}
	return s + ")"
}
func (a AppTyParam) FreeVars(set map[uint64]*FreeVar) {
	for _, arg := range a.Args {
		arg.FreeVars(set)
	}
}
func (a AppTyParam) tyParamNode() {}

// Predicate is the third term lattice (spec.md §3.2): boolean
// combinations of TyParam comparisons, referencing the refinement's
// bound variable or outer type params.
type Predicate interface {
	String() string
	FreeVars(set map[uint64]*FreeVar)
	predicateNode()
}

type PredAnd struct{ Left, Right Predicate }

func (p PredAnd) String() string { return p.Left.String() + " and " + p.Right.String() }
func (p PredAnd) FreeVars(set map[uint64]*FreeVar) {
	p.Left.FreeVars(set)
	p.Right.FreeVars(set)
}
func (p PredAnd) predicateNode() {}

type PredOr struct{ Left, Right Predicate }

func (p PredOr) String() string { return p.Left.String() + " or " + p.Right.String() }
func (p PredOr) FreeVars(set map[uint64]*FreeVar) {
	p.Left.FreeVars(set)
	p.Right.FreeVars(set)
}
func (p PredOr) predicateNode() {}

type PredNot struct{ Inner Predicate }

func (p PredNot) String() string                  { return "not (" + p.Inner.String() + ")" }
func (p PredNot) FreeVars(set map[uint64]*FreeVar) { p.Inner.FreeVars(set) }
func (p PredNot) predicateNode()                   {}

// CmpOp names the comparison predicates over TyParams.
type CmpOp int

const (
	CmpEq CmpOp = iota
	CmpNe
	CmpGe
	CmpLe
	CmpGt
	CmpLt
)

var cmpOpSymbols = map[CmpOp]string{CmpEq: "==", CmpNe: "!=", CmpGe: ">=", CmpLe: "<=", CmpGt: ">", CmpLt: "<"}

type PredCmp struct {
	Op       CmpOp
	Lhs, Rhs TyParam
}

func (p PredCmp) String() string {
	return fmt.Sprintf("%s %s %s", p.Lhs, cmpOpSymbols[p.Op], p.Rhs)
}
func (p PredCmp) FreeVars(set map[uint64]*FreeVar) {
	p.Lhs.FreeVars(set)
	p.Rhs.FreeVars(set)
}
func (p PredCmp) predicateNode() {}
