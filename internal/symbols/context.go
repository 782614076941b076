// Package symbols implements the C3 Context: the scoped environment
// that maps names to typed entities, holds the nominal-type registry
// and trait/impl tables, and drives name resolution by walking outer
// links. Grounded on the teacher's symbol-table family (Symbol struct
// shape, GetPrelude singleton, outer-link scope chain), restructured
// to hold internal/types.Type values and a per-scope level counter
// instead of the teacher's global-substitution representation.
package symbols

import (
	"sync"

	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/types"
)

type ScopeType int

const (
	ScopePrelude ScopeType = iota
	ScopeModule
	ScopeClass
	ScopeTrait
	ScopeSubr
	ScopeInstant
)

type SymbolKind int

const (
	VariableSymbol SymbolKind = iota
	TypeSymbol
	ConstructorSymbol
	TraitSymbol
	ModuleSymbol
)

// VarInfo is the fully instantiated type plus absolute definition
// location exposed for each source position, per spec.md §6's
// language-server contract.
type VarInfo struct {
	Name       string
	Type       types.Type
	Kind       SymbolKind
	IsConstant bool
	DefFile    string
	DefNode    ast.Node
}

// Symbol is one entry in a Context's local store.
type Symbol struct {
	Name       string
	Info       VarInfo
	IsPending  bool
	OuterLevel int // level counter snapshot at registration time
}

// InstanceDef records one (subtype, supertrait) registration in the
// trait/impl table, as returned by TraitImpls.
type InstanceDef struct {
	TraitName   string
	TargetType  types.Type
	Constructor string
}

// Context is the C3 scope node (spec.md §3.5): fully-qualified name,
// kind, outer parent (back-reference only, never ownership), maps for
// locals/nominal-type registry/trait impls, a level counter, and an
// optional active TyVarContext (§3.6).
type Context struct {
	Name      string
	Kind      ScopeType
	outer     *Context // back reference only
	locals    map[string]*Symbol
	nominal   map[string]*Context // registered types -> their method/body scope
	traitImpl map[string][]InstanceDef
	supers    map[string][]types.Type // nominal supertype edges, by type name

	level int

	active *types.TyVarContext
}

func NewContext(name string, kind ScopeType, outer *Context) *Context {
	return &Context{
		Name:      name,
		Kind:      kind,
		outer:     outer,
		locals:    map[string]*Symbol{},
		nominal:   map[string]*Context{},
		traitImpl: map[string][]InstanceDef{},
		supers:    map[string][]types.Type{},
	}
}

var (
	preludeOnce  sync.Once
	preludeTable *Context
)

// GetPrelude returns the singleton prelude Context, built once per
// process and shared by every module Context as its outer scope —
// mirrors the teacher's GetPrelude()/sync.Once pattern.
func GetPrelude() *Context {
	preludeOnce.Do(func() {
		preludeTable = NewContext("prelude", ScopePrelude, nil)
		InitBuiltins(preludeTable)
	})
	return preludeTable
}

// ResetPrelude rebuilds the prelude singleton; exported for tests only.
func ResetPrelude() {
	preludeOnce = sync.Once{}
	preludeTable = nil
}

// NewModuleContext creates a fresh top-level Context whose outer is the prelude.
func NewModuleContext(name string) *Context {
	return NewContext(name, ScopeModule, GetPrelude())
}

func (c *Context) Outer() *Context { return c.outer }

func (c *Context) Level() int { return c.level }

// EnterLevel opens a nested instantiation scope: the level counter is
// incremented and returned so callers can pass it to fresh free-vars;
// ExitLevel restores it.
func (c *Context) EnterLevel() int {
	c.level++
	return c.level
}

func (c *Context) ExitLevel() { c.level-- }

// RegisterVar implements spec.md §4.6: idempotent per name/scope; a
// second registration with a declaration must unify with the first
// (the caller performs the unify and passes the agreed-upon VarInfo in
// that case — RegisterVar itself only detects and reports the clash).
func (c *Context) RegisterVar(name string, info VarInfo) (*Symbol, bool) {
	if existing, ok := c.locals[name]; ok {
		return existing, true
	}
	sym := &Symbol{Name: name, Info: info, OuterLevel: c.level}
	c.locals[name] = sym
	return sym, false
}

// UpdateVarType replaces an already-registered local symbol's type in
// place, leaving its other VarInfo fields untouched. Used by
// internal/checker to install a function's generalized Quantified
// type once its body has been fully checked, replacing the raw Subr
// that RegisterVar saw during the header pass (spec.md §4.6's
// headers-then-bodies discipline).
func (c *Context) UpdateVarType(name string, t types.Type) {
	if sym, ok := c.locals[name]; ok {
		sym.Info.Type = t
	}
}

// GetVar walks outer links and returns (info, provenance scope name, found).
func (c *Context) GetVar(name string) (VarInfo, string, bool) {
	for cur := c; cur != nil; cur = cur.outer {
		if sym, ok := cur.locals[name]; ok {
			return sym.Info, cur.Name, true
		}
	}
	return VarInfo{}, "", false
}

// RegisterType adds a nominal type and opens its method scope.
func (c *Context) RegisterType(name string, t types.Type) *Context {
	body := NewContext(c.Name+"."+name, ScopeClass, c)
	c.nominal[name] = body
	c.locals[name] = &Symbol{Name: name, Info: VarInfo{Name: name, Type: t, Kind: TypeSymbol}}
	return body
}

func (c *Context) LookupNominal(name string) (*Context, bool) {
	for cur := c; cur != nil; cur = cur.outer {
		if body, ok := cur.nominal[name]; ok {
			return body, true
		}
	}
	return nil, false
}

// RegisterSupertype records a nominal supertype edge used by the
// unifier's Resolver.Supertypes.
func (c *Context) RegisterSupertype(typeName string, super types.Type) {
	c.supers[typeName] = append(c.supers[typeName], super)
}

// Supertypes implements types.Resolver.
func (c *Context) Supertypes(name string) []types.Type {
	for cur := c; cur != nil; cur = cur.outer {
		if s, ok := cur.supers[name]; ok {
			return s
		}
	}
	return nil
}

// ResolveProj implements types.Resolver: lhs.name, where lhs is
// nominal — looked up in the nominal type's method scope.
func (c *Context) ResolveProj(lhs types.Type, name string) (types.Type, bool) {
	poly, ok := lhs.(types.Poly)
	if !ok {
		return nil, false
	}
	body, ok := c.LookupNominal(poly.Name)
	if !ok {
		return nil, false
	}
	info, _, ok := body.GetVar(name)
	if !ok {
		return nil, false
	}
	return info.Type, true
}

// RegisterTraitImpl records (subtype, supertrait) per spec.md §4.6.
func (c *Context) RegisterTraitImpl(traitName string, def InstanceDef) {
	c.traitImpl[traitName] = append(c.traitImpl[traitName], def)
}

// TraitImpls returns the registered (subtype, supertrait) pairs for a
// trait name, walking outer scopes (impls are normally registered
// globally, but nested trait re-exports are supported by the walk).
func (c *Context) TraitImpls(traitName string) []InstanceDef {
	var out []InstanceDef
	for cur := c; cur != nil; cur = cur.outer {
		out = append(out, cur.traitImpl[traitName]...)
	}
	return out
}

// BeginInstantiation opens a fresh TyVarContext scratchpad at the
// current level (spec.md §3.6), active until EndInstantiation.
func (c *Context) BeginInstantiation() *types.TyVarContext {
	c.active = types.NewTyVarContext(c.level)
	return c.active
}

func (c *Context) EndInstantiation() { c.active = nil }

func (c *Context) ActiveTyVarContext() *types.TyVarContext { return c.active }

// SimilarName suggests the closest-matching name in the scope chain
// via Damerau-Levenshtein distance (spec.md §4.6's similar_name),
// grounded on Erg's `get_similar_name` nearest-name diagnostic helper.
func (c *Context) SimilarName(name string) (string, bool) {
	best := ""
	bestDist := -1
	for cur := c; cur != nil; cur = cur.outer {
		for candidate := range cur.locals {
			d := damerauLevenshtein(name, candidate)
			if bestDist == -1 || d < bestDist {
				bestDist = d
				best = candidate
			}
		}
	}
	if bestDist < 0 || bestDist > maxSuggestDistance(name) {
		return "", false
	}
	return best, true
}

func maxSuggestDistance(name string) int {
	if len(name) <= 4 {
		return 1
	}
	return 2
}

// damerauLevenshtein computes the optimal string alignment distance
// (insertions, deletions, substitutions, adjacent transpositions).
func damerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	d := make([][]int, la+1)
	for i := range d {
		d[i] = make([]int, lb+1)
		d[i][0] = i
	}
	for j := 0; j <= lb; j++ {
		d[0][j] = j
	}
	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := d[i-1][j] + 1
			ins := d[i][j-1] + 1
			sub := d[i-1][j-1] + cost
			best := del
			if ins < best {
				best = ins
			}
			if sub < best {
				best = sub
			}
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				trans := d[i-2][j-2] + cost
				if trans < best {
					best = trans
				}
			}
			d[i][j] = best
		}
	}
	return d[la][lb]
}
