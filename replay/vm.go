package replay

import (
	"fmt"
	"maps"
)

type notRun struct{}

func (notRun) String() string {
	return "<not run>"
}

// NotRun is the return value of a VM that did not execute a return.
var NotRun any = notRun{}

type Options struct {
	// Receiver is bound to self when not nil.
	Receiver any
	// Args are bound to the parameters following self.
	Args []any
}

type VM struct {
	Code        *Code
	IP          int
	Line        int
	Stack       []Value
	Globals     *Env
	Locals      *Env
	ReturnValue any
	returned    bool
}

func NewVM(code *Code, options Options) (*VM, error) {
	globals := &Env{
		Vars: maps.Clone(code.Globals),
	}
	locals := globals.NewChild()

	params := code.Params
	if options.Receiver != nil {
		locals.Def("self", options.Receiver)
		if code.IsMethod() {
			params = params[1:]
		}
	} else if code.IsMethod() {
		return nil, fmt.Errorf("%s: method requires a receiver", code.Name)
	}
	if len(params) != len(options.Args) {
		return nil, fmt.Errorf("%s: want %d arguments, got %d", code.Name, len(params), len(options.Args))
	}
	for i, name := range params {
		locals.Def(name, options.Args[i])
	}

	return &VM{
		Code:        code,
		Line:        code.FirstLine,
		Stack:       make([]Value, 0, 16),
		Globals:     globals,
		Locals:      locals,
		ReturnValue: NotRun,
	}, nil
}

func (v *VM) push(val Value) {
	v.Stack = append(v.Stack, val)
}

func (v *VM) pop() (Value, error) {
	n := len(v.Stack)
	if n == 0 {
		return nil, fmt.Errorf("%w: stack underflow", ErrIntegration)
	}
	val := v.Stack[n-1]
	v.Stack[n-1] = nil
	v.Stack = v.Stack[:n-1]
	return val, nil
}

func (v *VM) popN(n int) ([]Value, error) {
	if n > len(v.Stack) {
		return nil, fmt.Errorf("%w: stack underflow: want %d values, have %d", ErrIntegration, n, len(v.Stack))
	}
	start := len(v.Stack) - n
	ret := make([]Value, n)
	copy(ret, v.Stack[start:])
	clear(v.Stack[start:])
	v.Stack = v.Stack[:start]
	return ret, nil
}

// Top returns the value on top of the stack.
func (v *VM) Top() (Value, bool) {
	if len(v.Stack) == 0 {
		return nil, false
	}
	return v.Stack[len(v.Stack)-1], true
}

// Returned reports whether a return instruction was executed.
func (v *VM) Returned() bool {
	return v.returned
}

// Symbols returns the visible symbol table with runtime values.
func (v *VM) Symbols() map[string]any {
	return v.Locals.Flatten()
}
