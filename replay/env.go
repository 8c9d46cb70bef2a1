package replay

import (
	"maps"
	"slices"
)

// Env is one scope of the symbol table. Lookups fall back to the parent.
type Env struct {
	Parent *Env
	Vars   map[string]any
}

func (e *Env) Get(name string) (any, bool) {
	if v, ok := e.Vars[name]; ok {
		return v, true
	}
	if e.Parent != nil {
		return e.Parent.Get(name)
	}
	return nil, false
}

func (e *Env) Def(name string, val any) {
	if e.Vars == nil {
		e.Vars = make(map[string]any)
	}
	e.Vars[name] = val
}

func (e *Env) NewChild() *Env {
	return &Env{
		Parent: e,
	}
}

// Flatten returns all visible bindings with stack values unwrapped.
// Inner scopes shadow outer ones.
func (e *Env) Flatten() map[string]any {
	ret := make(map[string]any)
	var scopes []*Env
	for s := e; s != nil; s = s.Parent {
		scopes = append(scopes, s)
	}
	for _, s := range slices.Backward(scopes) {
		for name, v := range s.Vars {
			if sv, ok := v.(Value); ok {
				v = sv.Value()
			}
			ret[name] = v
		}
	}
	return ret
}

func (e *Env) Names() []string {
	return slices.Sorted(maps.Keys(e.Flatten()))
}
