package types

import "fmt"

// BoundKind distinguishes Instance (`α : T`) from Sandwiched
// (`Sub <: α <: Sup`) bounds (spec.md §3.3).
type BoundKind int

const (
	InstanceBound BoundKind = iota
	SandwichedBoundKind
)

// Bound is one member of a bound-set, keyed by its Subject name.
type Bound struct {
	Subject string
	Kind    BoundKind
	// InstanceBound
	Of Type
	// SandwichedBoundKind
	Sub, Sup  Type
	Cyclicity Cyclicity
	// Cell is the free-var cell this bound was instantiated as,
	// populated once bound-set instantiation (C4) runs.
	Cell *FreeVar
}

func (b Bound) String() string {
	switch b.Kind {
	case InstanceBound:
		return fmt.Sprintf("%s: %s", b.Subject, b.Of.String())
	default:
		return fmt.Sprintf("%s <: %s <: %s", b.Sub.String(), b.Subject, b.Sup.String())
	}
}

// BoundSet is a set of bounds keyed by variable name; only one
// Sandwiched bound per name survives normalization (later bounds
// tighten the existing one — see tighten).
type BoundSet struct {
	byName map[string]*Bound
	order  []string
}

func NewBoundSet() *BoundSet {
	return &BoundSet{byName: map[string]*Bound{}}
}

func (bs *BoundSet) Get(name string) (*Bound, bool) {
	b, ok := bs.byName[name]
	return b, ok
}

func (bs *BoundSet) Names() []string { return bs.order }

// Add inserts a new bound, or tightens an existing one for the same
// subject (spec.md §4.2: "later bounds for the same subject tighten
// an existing cell rather than creating a new one").
func (bs *BoundSet) Add(b *Bound) {
	if existing, ok := bs.byName[b.Subject]; ok {
		existing.tighten(b)
		return
	}
	bs.byName[b.Subject] = b
	bs.order = append(bs.order, b.Subject)
}

// tighten folds other into the receiver's bound: an Instance bound
// takes other's Of; a Sandwiched bound takes other's Sub and Sup where
// they are non-nil and ORs the cyclicity tags together. The later
// values replace the earlier ones; no intersection of the two is
// computed here.
func (b *Bound) tighten(other *Bound) {
	switch {
	case b.Kind == InstanceBound && other.Kind == InstanceBound:
		b.Of = other.Of
	case b.Kind == SandwichedBoundKind && other.Kind == SandwichedBoundKind:
		if other.Sub != nil {
			b.Sub = other.Sub
		}
		if other.Sup != nil {
			b.Sup = other.Sup
		}
		b.Cyclicity = b.Cyclicity.or(other.Cyclicity)
	default:
		// Mixed-kind re-bind: the later bound wins outright, matching
		// the instantiator's "later bounds tighten" rule taken to its
		// limit when the kind itself changes.
		*b = *other
	}
}

// ComputeCyclicity inspects whether sub/sup mention the subject's own
// name (as a QVarTyParam-bearing MonoQVar/PolyQVar reference) and
// returns the tag to stamp on the cell per spec.md §4.5.
func ComputeCyclicity(subject string, sub, sup Type) Cyclicity {
	subMentions := mentionsQVar(sub, subject)
	supMentions := mentionsQVar(sup, subject)
	switch {
	case subMentions && supMentions:
		return CyclicBoth
	case subMentions:
		return CyclicSub
	case supMentions:
		return CyclicSuper
	default:
		return NotCyclic
	}
}

func mentionsQVar(t Type, name string) bool {
	if t == nil {
		return false
	}
	switch v := t.(type) {
	case MonoQVar:
		return v.Name == name
	case PolyQVar:
		if v.Name == name {
			return true
		}
		for _, p := range v.Params {
			if tp, ok := p.(TypeTyParam); ok && mentionsQVar(tp.T, name) {
				return true
			}
		}
		return false
	case Poly:
		for _, p := range v.Params {
			if tp, ok := p.(TypeTyParam); ok && mentionsQVar(tp.T, name) {
				return true
			}
		}
		return false
	case Subr:
		for _, p := range v.Params {
			if mentionsQVar(p, name) {
				return true
			}
		}
		return mentionsQVar(v.Return, name)
	case And:
		return mentionsQVar(v.Left, name) || mentionsQVar(v.Right, name)
	case Or:
		return mentionsQVar(v.Left, name) || mentionsQVar(v.Right, name)
	case Not:
		return mentionsQVar(v.Inner, name)
	default:
		return false
	}
}
