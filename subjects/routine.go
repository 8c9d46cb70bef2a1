package subjects

import (
	"go.starlark.net/starlark"
)

// Routine is a starlark callable invoked with Go arguments.
type Routine struct {
	fn     starlark.Callable
	thread *starlark.Thread
	name   string
}

func (r *Routine) Name() string {
	if r.name != "" {
		return r.name
	}
	return r.fn.Name()
}

func (r *Routine) Call(args []any) (any, error) {
	thread := r.thread
	if thread == nil {
		thread = &starlark.Thread{
			Name: r.Name(),
		}
	}
	starArgs := make(starlark.Tuple, len(args))
	for i, arg := range args {
		starArgs[i] = ToStarlark(arg)
	}
	ret, err := starlark.Call(thread, r.fn, starArgs, nil)
	if err != nil {
		return nil, err
	}
	return fromStarlark(thread, ret), nil
}

func (r *Routine) String() string {
	return "<routine " + r.Name() + ">"
}

// Object is a starlark value with attributes, like a struct or a module.
type Object struct {
	value  starlark.HasAttrs
	thread *starlark.Thread
}

func (o *Object) ResolveAttr(name string) (any, bool) {
	v, err := o.value.Attr(name)
	if err != nil || v == nil {
		return nil, false
	}
	ret := fromStarlark(o.thread, v)
	if r, ok := ret.(*Routine); ok && r.name == "" {
		r.name = name
	}
	return ret, true
}

func (o *Object) ResolveMethod(name string) (any, bool) {
	return o.ResolveAttr(name)
}

func (o *Object) Routines() []string {
	var ret []string
	for _, name := range o.value.AttrNames() {
		if !public(name) {
			continue
		}
		v, err := o.value.Attr(name)
		if err != nil {
			continue
		}
		if _, ok := v.(starlark.Callable); ok {
			ret = append(ret, name)
		}
	}
	return ret
}

func (o *Object) Opaque() {}

func (o *Object) String() string {
	return o.value.String()
}
