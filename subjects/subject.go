package subjects

import (
	"fmt"
	"slices"
	"strings"

	"go.starlark.net/lib/math"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

// Subject is a starlark file under test. Its public top-level functions are
// the routines tests must cover.
type Subject struct {
	Name    string
	File    string
	globals starlark.StringDict
	thread  *starlark.Thread
}

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// Predeclared are the names visible to subject files without a load.
func Predeclared() starlark.StringDict {
	return starlark.StringDict{
		"struct": starlark.NewBuiltin("struct", starlarkstruct.Make),
		"math":   math.Module,
	}
}

// LoadSource executes a subject file. src is as for starlark.ExecFileOptions:
// nil reads filename.
func LoadSource(name string, filename string, src any, print func(string)) (*Subject, error) {
	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			if print != nil {
				print(msg)
			}
		},
	}
	globals, err := starlark.ExecFileOptions(
		fileOptions,
		thread,
		filename,
		src,
		Predeclared(),
	)
	if err != nil {
		return nil, fmt.Errorf("load subject %s: %w", filename, err)
	}
	globals.Freeze()
	return &Subject{
		Name:    name,
		File:    filename,
		globals: globals,
		thread:  thread,
	}, nil
}

func public(name string) bool {
	return !strings.HasPrefix(name, "_")
}

// Routines returns the sorted names of public top-level functions.
func (s *Subject) Routines() []string {
	var ret []string
	for name, value := range s.globals {
		if !public(name) {
			continue
		}
		if _, ok := value.(*starlark.Function); ok {
			ret = append(ret, name)
		}
	}
	slices.Sort(ret)
	return ret
}

// Globals returns every public top-level binding converted for replay.
// Functions are *Routine.
func (s *Subject) Globals() map[string]any {
	ret := make(map[string]any, len(s.globals))
	for name, value := range s.globals {
		if !public(name) {
			continue
		}
		ret[name] = s.convert(name, value)
	}
	return ret
}

func (s *Subject) convert(name string, value starlark.Value) any {
	ret := fromStarlark(s.thread, value)
	if r, ok := ret.(*Routine); ok && r.name == "" {
		r.name = name
	}
	return ret
}

func (s *Subject) ResolveAttr(name string) (any, bool) {
	value, ok := s.globals[name]
	if !ok || !public(name) {
		return nil, false
	}
	return s.convert(name, value), true
}

func (s *Subject) ResolveMethod(name string) (any, bool) {
	return s.ResolveAttr(name)
}

func (s *Subject) Opaque() {}

func (s *Subject) String() string {
	return "<subject " + s.Name + ">"
}
