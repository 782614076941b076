package types

import "fmt"

// TyVarContext is the C3.6 instantiation scratchpad: an ephemeral map
// from quantified-variable names to their freshly created free-var
// (type vars) or free type-param (term-level parameters), plus the
// level the scratchpad was opened at. Alive only between "begin
// call-site instantiation" and "end" (symbols.Context.Begin/EndInstantiation).
type TyVarContext struct {
	level   int
	tyVars  map[string]*FreeVar
	tyParams map[string]TyParam
}

func NewTyVarContext(level int) *TyVarContext {
	return &TyVarContext{level: level, tyVars: map[string]*FreeVar{}, tyParams: map[string]TyParam{}}
}

func (tv *TyVarContext) Level() int { return tv.level }

// PushTyVar records a fresh free-var for a quantified type variable
// name. Per spec.md §9's open question, a name already present as a
// term-level TyParam is an internal-invariant violation (the
// recommended resolution): the source's "unconditionally overwrite"
// behavior is explicitly rejected here.
func (tv *TyVarContext) PushTyVar(name string, cell *FreeVar) error {
	if _, exists := tv.tyParams[name]; exists {
		return fmt.Errorf("internal invariant violation: %q already bound as a type-param in this instantiation scratchpad", name)
	}
	tv.tyVars[name] = cell
	return nil
}

// PushTyParam records a fresh term-level type parameter. Mirrors
// PushTyVar's collision rule in the other direction.
func (tv *TyVarContext) PushTyParam(name string, tp TyParam) error {
	if _, exists := tv.tyVars[name]; exists {
		return fmt.Errorf("internal invariant violation: %q already bound as a type-var in this instantiation scratchpad", name)
	}
	tv.tyParams[name] = tp
	return nil
}

func (tv *TyVarContext) GetTyVar(name string) (*FreeVar, bool) {
	c, ok := tv.tyVars[name]
	return c, ok
}

func (tv *TyVarContext) GetTyParam(name string) (TyParam, bool) {
	tp, ok := tv.tyParams[name]
	return tp, ok
}

// OrInitTyVar returns the existing cell for name if already pushed,
// otherwise creates, pushes, and returns a fresh one with the given
// constraint. This is the "push_or_init_tyvar" operation named in
// spec.md §9.
func (tv *TyVarContext) OrInitTyVar(name string, c Constraint) *FreeVar {
	if cell, ok := tv.tyVars[name]; ok {
		return cell
	}
	cell := NewFreeVar(tv.level, name, c)
	tv.tyVars[name] = cell
	return cell
}
