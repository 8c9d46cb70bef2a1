package suites

import (
	"fmt"
	"slices"
)

// Registry holds the defined cases by name. It is filled once before the
// driver reads it.
type Registry struct {
	cases map[string]*Case
}

func NewRegistry() *Registry {
	return &Registry{
		cases: make(map[string]*Case),
	}
}

func (r *Registry) Register(c *Case) error {
	if _, ok := r.cases[c.Name]; ok {
		return fmt.Errorf("duplicated case %s", c.Name)
	}
	r.cases[c.Name] = c
	return nil
}

func (r *Registry) Get(name string) (*Case, bool) {
	c, ok := r.cases[name]
	return c, ok
}

// Names returns case names sorted.
func (r *Registry) Names() []string {
	ret := make([]string, 0, len(r.cases))
	for name := range r.cases {
		ret = append(ret, name)
	}
	slices.Sort(ret)
	return ret
}

// Cases iterates cases in name order.
func (r *Registry) Cases(yield func(*Case) bool) {
	for _, name := range r.Names() {
		if !yield(r.cases[name]) {
			return
		}
	}
}
