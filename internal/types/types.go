// Package types implements the type-checking nucleus's algebraic type
// representation (C1), free-variable cells (C2, see freevar.go), the
// TyParam/predicate lattice (C7, see tyParam.go and const_eval.go), the
// sub-unifier (C5, see unify.go) and the generalizer (C6, see
// generalize.go).
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the tagged variant described in spec.md §3.1. There is no
// Visitor; callers type-switch, matching the teacher's own
// ApplyWithCycleCheck idiom.
type Type interface {
	String() string
	// FreeVars appends every reachable, still-unlinked free-var cell
	// to the given set, keyed by cell id.
	FreeVars(set map[uint64]*FreeVar)
	Kind() Kind
}

func FreeVarsOf(t Type) map[uint64]*FreeVar {
	set := map[uint64]*FreeVar{}
	t.FreeVars(set)
	return set
}

// PrimitiveKind enumerates the closed, nullary primitive types.
type PrimitiveKind int

const (
	Int PrimitiveKind = iota
	Nat
	Ratio
	Float
	Str
	Bool
	NoneType
	Obj
	Never
	Inf
	NegInf
	Ellipsis
	NotImplementedPrim
	TypeKind
)

var primitiveNames = map[PrimitiveKind]string{
	Int: "Int", Nat: "Nat", Ratio: "Ratio", Float: "Float", Str: "Str",
	Bool: "Bool", NoneType: "NoneType", Obj: "Obj", Never: "Never",
	Inf: "Inf", NegInf: "NegInf", Ellipsis: "Ellipsis",
	NotImplementedPrim: "NotImplemented", TypeKind: "Type",
}

// numericTowerRank orders Nat <: Int <: Ratio <: Float; a kind that is
// not on the tower has no entry.
var numericTowerRank = map[PrimitiveKind]int{Nat: 0, Int: 1, Ratio: 2, Float: 3}

type Primitive struct{ Kind_ PrimitiveKind }

// Kind field is named Kind_ to avoid colliding with the Type.Kind() method;
// constructors below use the friendlier positional form.
func (p Primitive) String() string        { return primitiveNames[p.Kind_] }
func (p Primitive) FreeVars(map[uint64]*FreeVar) {}
func (p Primitive) Kind() Kind            { return Star }

// Primitive is built with a composite literal naming the Kind_ field,
// e.g. Primitive{Kind_: Int}; the constructors below are shorthands for
// the common kinds.
func PInt() Primitive  { return Primitive{Kind_: Int} }
func PNat() Primitive  { return Primitive{Kind_: Nat} }
func PObj() Primitive  { return Primitive{Kind_: Obj} }
func PNever() Primitive { return Primitive{Kind_: Never} }

// FreeVarType wraps a *FreeVar cell so it satisfies Type. Identity is
// by cell address; equality may follow links (see Unify).
type FreeVarType struct{ Cell *FreeVar }

func (f FreeVarType) String() string {
	if f.Cell.IsLinked() {
		return f.Cell.Crack().String()
	}
	return fmt.Sprintf("?%s%d", f.Cell.Name, f.Cell.ID())
}

func (f FreeVarType) FreeVars(set map[uint64]*FreeVar) {
	if f.Cell.IsLinked() {
		f.Cell.Crack().FreeVars(set)
		return
	}
	set[f.Cell.ID()] = f.Cell
}

func (f FreeVarType) Kind() Kind { return Star }

// MonoQVar and PolyQVar are staging variables: the surface name of a
// quantified variable before (MonoQVar) or during (PolyQVar, carrying
// applied params) instantiation. They only ever appear inside a
// Quantified wrapper's inner Subr, never in a fully-instantiated type.
type MonoQVar struct{ Name string }

func (m MonoQVar) String() string                  { return m.Name }
func (m MonoQVar) FreeVars(map[uint64]*FreeVar) {}
func (m MonoQVar) Kind() Kind                      { return Star }

type PolyQVar struct {
	Name   string
	Params []TyParam
}

func (m PolyQVar) String() string {
	parts := make([]string, len(m.Params))
	for i, p := range m.Params {
		parts[i] = p.String()
	}
	if len(parts) == 0 {
		return m.Name
	}
	return fmt.Sprintf("%s(%s)", m.Name, strings.Join(parts, ", "))
}
func (m PolyQVar) FreeVars(set map[uint64]*FreeVar) {
	for _, p := range m.Params {
		p.FreeVars(set)
	}
}
func (m PolyQVar) Kind() Kind { return Star }

// Poly is a nominal type constructor applied to an ordered list of
// type params, e.g. List(Int), Option(T). BuiltinPoly is the same
// shape for types the prelude defines directly (no user Context
// lookup needed) — kept as a distinct variant per spec.md §3.1 even
// though it shares a representation, via the Builtin flag.
type Poly struct {
	Module  string // optional qualifying module path
	Name    string
	Params  []TyParam
	Builtin bool
}

func (p Poly) String() string {
	parts := make([]string, len(p.Params))
	for i, tp := range p.Params {
		parts[i] = tp.String()
	}
	name := p.Name
	if p.Module != "" {
		name = p.Module + "." + p.Name
	}
	if len(parts) == 0 {
		return name
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}

func (p Poly) FreeVars(set map[uint64]*FreeVar) {
	for _, tp := range p.Params {
		tp.FreeVars(set)
	}
}

func (p Poly) Kind() Kind {
	if len(p.Params) == 0 {
		return Star
	}
	args := make([]Kind, len(p.Params)+1)
	for i := range p.Params {
		args[i] = Star
	}
	args[len(p.Params)] = Star
	return MakeArrow(args...)
}

// SubrKind distinguishes immutable Func (->) from mutating Proc (=>).
type SubrKind int

const (
	Func SubrKind = iota
	Proc
)

// Subr is a subroutine type: non-default params, optional var-args,
// default params, and a return type.
type Subr struct {
	SubrKind      SubrKind
	Params        []Type
	VarArgs       *Type
	DefaultParams []Type
	Return        Type
}

func (s Subr) String() string {
	arrow := "->"
	if s.SubrKind == Proc {
		arrow = "=>"
	}
	parts := make([]string, 0, len(s.Params)+len(s.DefaultParams)+1)
	for _, p := range s.Params {
		parts = append(parts, p.String())
	}
	if s.VarArgs != nil {
		parts = append(parts, "*"+(*s.VarArgs).String())
	}
	for _, p := range s.DefaultParams {
		parts = append(parts, p.String()+" := _")
	}
	ret := "?"
	if s.Return != nil {
		ret = s.Return.String()
	}
	return fmt.Sprintf("(%s) %s %s", strings.Join(parts, ", "), arrow, ret)
}

func (s Subr) FreeVars(set map[uint64]*FreeVar) {
	for _, p := range s.Params {
		p.FreeVars(set)
	}
	if s.VarArgs != nil {
		(*s.VarArgs).FreeVars(set)
	}
	for _, p := range s.DefaultParams {
		p.FreeVars(set)
	}
	if s.Return != nil {
		s.Return.FreeVars(set)
	}
}

func (s Subr) Kind() Kind { return Star }

// Refinement: {bound: Base | Preds...}.
type Refinement struct {
	Bound string
	Base  Type
	Preds []Predicate
}

func (r Refinement) String() string {
	preds := make([]string, len(r.Preds))
	for i, p := range r.Preds {
		preds[i] = p.String()
	}
	return fmt.Sprintf("{%s: %s | %s}", r.Bound, r.Base.String(), strings.Join(preds, " and "))
}

func (r Refinement) FreeVars(set map[uint64]*FreeVar) {
	r.Base.FreeVars(set)
	for _, p := range r.Preds {
		p.FreeVars(set)
	}
}

func (r Refinement) Kind() Kind { return Star }

// Record: field name -> type, keys unique by construction.
type Record struct {
	Fields map[string]Type
}

func (r Record) String() string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s = %s", k, r.Fields[k].String())
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

func (r Record) FreeVars(set map[uint64]*FreeVar) {
	for _, t := range r.Fields {
		t.FreeVars(set)
	}
}

func (r Record) Kind() Kind { return Star }

// And/Or/Not: normalized (associative, idempotent, duplicates
// collapsed) by the constructors in internal/instantiate/normalize.go, not by the struct
// itself — the struct only ever holds two already-normalized operands.
type And struct{ Left, Right Type }

func (a And) String() string { return a.Left.String() + " and " + a.Right.String() }
func (a And) FreeVars(set map[uint64]*FreeVar) {
	a.Left.FreeVars(set)
	a.Right.FreeVars(set)
}
func (a And) Kind() Kind { return Star }

type Or struct{ Left, Right Type }

func (o Or) String() string { return o.Left.String() + " or " + o.Right.String() }
func (o Or) FreeVars(set map[uint64]*FreeVar) {
	o.Left.FreeVars(set)
	o.Right.FreeVars(set)
}
func (o Or) Kind() Kind { return Star }

type Not struct{ Inner Type }

func (n Not) String() string                  { return "not " + n.Inner.String() }
func (n Not) FreeVars(set map[uint64]*FreeVar) { n.Inner.FreeVars(set) }
func (n Not) Kind() Kind                       { return Star }

// Ref/RefMut: a read-only or mutable reference. RefMut.After, when
// present, must be a subtype of RefMut.Before (enforced by the checker
// at construction, not by this type itself).
type Ref struct{ Inner Type }

func (r Ref) String() string                  { return "Ref(" + r.Inner.String() + ")" }
func (r Ref) FreeVars(set map[uint64]*FreeVar) { r.Inner.FreeVars(set) }
func (r Ref) Kind() Kind                       { return Star }

type RefMut struct {
	Before Type
	After  Type // optional
}

func (r RefMut) String() string {
	if r.After != nil {
		return fmt.Sprintf("RefMut(%s => %s)", r.Before.String(), r.After.String())
	}
	return "RefMut(" + r.Before.String() + ")"
}
func (r RefMut) FreeVars(set map[uint64]*FreeVar) {
	r.Before.FreeVars(set)
	if r.After != nil {
		r.After.FreeVars(set)
	}
}
func (r RefMut) Kind() Kind { return Star }

// MonoProj: lhs.associatedName, where lhs is nominal or a free-var.
type MonoProj struct {
	Lhs  Type
	Name string
}

func (m MonoProj) String() string                  { return m.Lhs.String() + "." + m.Name }
func (m MonoProj) FreeVars(set map[uint64]*FreeVar) { m.Lhs.FreeVars(set) }
func (m MonoProj) Kind() Kind                       { return Star }

// Quantified: a bound-set wrapping an inner Subr, introducing
// polymorphism (spec.md §3.1, §3.3). Only Subrs may be wrapped, since
// Inner's static type is Subr; a Quantified nested inside Inner's
// parameter or return types is not rejected here or by the
// instantiator.
type Quantified struct {
	Bounds *BoundSet
	Inner  Subr
}

func (q Quantified) String() string {
	if q.Bounds == nil || len(q.Bounds.order) == 0 {
		return q.Inner.String()
	}
	parts := make([]string, len(q.Bounds.order))
	for i, name := range q.Bounds.order {
		parts[i] = q.Bounds.byName[name].String()
	}
	return fmt.Sprintf("|%s| %s", strings.Join(parts, ", "), q.Inner.String())
}

func (q Quantified) FreeVars(set map[uint64]*FreeVar) {
	q.Inner.FreeVars(set)
}

func (q Quantified) Kind() Kind { return Star }

// IntInterval: lhs op rhs over constant-evaluated TyParam endpoints.
type IntervalOp int

const (
	Closed IntervalOp = iota
	LeftOpen
	RightOpen
	Open
)

type IntInterval struct {
	Op       IntervalOp
	Lhs, Rhs TyParam
}

func (i IntInterval) String() string {
	lo, hi := "<=", "<="
	switch i.Op {
	case LeftOpen:
		lo = "<"
	case RightOpen:
		hi = "<"
	case Open:
		lo, hi = "<", "<"
	}
	return fmt.Sprintf("{I: Int | %s %s I %s %s}", i.Lhs.String(), lo, hi, i.Rhs.String())
}

func (i IntInterval) FreeVars(set map[uint64]*FreeVar) {
	i.Lhs.FreeVars(set)
	i.Rhs.FreeVars(set)
}

func (i IntInterval) Kind() Kind { return Star }

// VEnum: the lub of a finite set of constant values.
type VEnum struct {
	Values []Const
}

func (v VEnum) String() string {
	parts := make([]string, len(v.Values))
	for i, c := range v.Values {
		parts[i] = c.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (v VEnum) FreeVars(map[uint64]*FreeVar) {}
func (v VEnum) Kind() Kind                    { return Star }

// UninitedType is a marker type that must never leak to a completed
// signature; no pass checks for its presence.
type UninitedType struct{}

func (u UninitedType) String() string                  { return "<uninited>" }
func (u UninitedType) FreeVars(map[uint64]*FreeVar) {}
func (u UninitedType) Kind() Kind                       { return AnyKind }
