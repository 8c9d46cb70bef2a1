package replay

import (
	"fmt"
)

// Run executes instructions until a return, the end of the stream or an
// error. yield is called after every executed instruction; a non-nil error
// ends the run.
func (v *VM) Run(yield func(Instruction, error) bool) {
	for v.IP < len(v.Code.Instructions) && !v.returned {
		inst := v.Code.Instructions[v.IP]
		v.IP++
		if inst.Line > 0 {
			v.Line = inst.Line
		}
		err := v.safeStep(inst)
		if !yield(inst, err) || err != nil {
			return
		}
	}
}

// Exec runs to completion and returns the return value.
func (v *VM) Exec() (any, error) {
	for _, err := range v.Run {
		if err != nil {
			return nil, err
		}
	}
	return v.ReturnValue, nil
}

// safeStep turns a panic in an operation into an error of the method.
func (v *VM) safeStep(inst Instruction) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%s: panic: %v", inst.Op, p)
		}
	}()
	return v.step(inst)
}

func (v *VM) step(inst Instruction) error {
	switch inst.Op {

	case OpLoadGlobal:
		name, err := inst.name()
		if err != nil {
			return err
		}
		return v.load(v.Globals, name)

	case OpLoadLocal:
		name, err := inst.name()
		if err != nil {
			return err
		}
		return v.load(v.Locals, name)

	case OpLoadConst:
		v.push(NewPlain(inst.Arg, Repr(inst.Arg)))

	case OpLoadAttr, OpLoadMethod:
		name, err := inst.name()
		if err != nil {
			return err
		}
		parent, err := v.pop()
		if err != nil {
			return err
		}
		if inst.Op == OpLoadAttr {
			val, err := GetAttr(parent.Value(), name)
			if err != nil {
				return err
			}
			v.push(&Attribute{
				Val:    val,
				Ident:  name,
				Parent: parent,
			})
		} else {
			val, err := GetMethod(parent.Value(), name)
			if err != nil {
				return err
			}
			v.push(&BoundMethod{
				Val:    val,
				Ident:  name,
				Parent: parent,
			})
		}

	case OpCall:
		argc, err := inst.count()
		if err != nil {
			return err
		}
		args, err := v.popN(argc)
		if err != nil {
			return err
		}
		callee, err := v.pop()
		if err != nil {
			return err
		}
		values := make([]any, len(args))
		for i, arg := range args {
			values[i] = arg.Value()
		}
		ret, err := Call(callee.Value(), values)
		if err != nil {
			return fmt.Errorf("%s: %w", callee.Name(), err)
		}
		v.push(&CallResult{
			Val:    ret,
			Args:   args,
			Action: callee,
		})

	case OpStoreLocal:
		name, err := inst.name()
		if err != nil {
			return err
		}
		val, err := v.pop()
		if err != nil {
			return err
		}
		v.Locals.Def(name, val)

	case OpPop:
		if _, err := v.pop(); err != nil {
			return err
		}

	case OpDupTop:
		top, ok := v.Top()
		if !ok {
			return fmt.Errorf("%w: stack underflow", ErrIntegration)
		}
		v.push(top)

	case OpRotate:
		n, err := inst.count()
		if err != nil {
			return err
		}
		return v.rotate(n)

	case OpBinary, OpInplace:
		op, ok := inst.Arg.(BinaryOp)
		if !ok {
			return fmt.Errorf("%w: %s expects a binary operator, got %T", ErrIntegration, inst.Op, inst.Arg)
		}
		vals, err := v.popN(2)
		if err != nil {
			return err
		}
		left, right := vals[0], vals[1]
		ret, err := binary(op, left.Value(), right.Value())
		if err != nil {
			return err
		}
		var name string
		if op == BinarySubscript {
			name = "(" + left.String() + ")[(" + right.String() + ")]"
		} else {
			name = "(" + left.String() + ")" + op.Symbol() + "(" + right.String() + ")"
		}
		v.push(NewPlain(ret, name))

	case OpBuildList, OpBuildTuple, OpBuildSet:
		n, err := inst.count()
		if err != nil {
			return err
		}
		elems, err := v.popN(n)
		if err != nil {
			return err
		}
		v.push(build(inst.Op, elems))

	case OpCompare:
		code, err := inst.name()
		if err != nil {
			return err
		}
		return v.compare(code)

	case OpIs:
		invert, err := inst.invert()
		if err != nil {
			return err
		}
		if invert {
			return v.compare("is not")
		}
		return v.compare("is")

	case OpContains:
		invert, err := inst.invert()
		if err != nil {
			return err
		}
		if invert {
			return v.compare("not in")
		}
		return v.compare("in")

	case OpReturn:
		val, err := v.pop()
		if err != nil {
			return err
		}
		v.ReturnValue = val.Value()
		v.returned = true
		if len(v.Stack) > 0 {
			return fmt.Errorf("%w: %d values left on stack at return", ErrIntegration, len(v.Stack))
		}

	default:
		return fmt.Errorf("%w: unknown opcode %s", ErrIntegration, inst.Op)
	}

	return nil
}

func (v *VM) load(env *Env, name string) error {
	val, ok := env.Get(name)
	if !ok {
		return &NameError{Name: name}
	}
	if sv, ok := val.(Value); ok {
		v.push(sv)
		return nil
	}
	v.push(NewPlain(val, name))
	return nil
}

// rotate moves the top of stack down to the n-th position and shifts the
// values above it up by one.
func (v *VM) rotate(n int) error {
	if n < 2 || n > 4 {
		return fmt.Errorf("%w: cannot rotate %d values", ErrIntegration, n)
	}
	if len(v.Stack) < n {
		return fmt.Errorf("%w: stack underflow: want %d values, have %d", ErrIntegration, n, len(v.Stack))
	}
	window := v.Stack[len(v.Stack)-n:]
	top := window[n-1]
	copy(window[1:], window[:n-1])
	window[0] = top
	return nil
}

func (v *VM) compare(code string) error {
	vals, err := v.popN(2)
	if err != nil {
		return err
	}
	left, right := vals[0], vals[1]
	ok, err := compare(code, left.Value(), right.Value())
	if err != nil {
		return err
	}
	v.push(&CallResult{
		Val:    ok,
		Args:   []Value{left, right},
		Action: Comparison{Code: code},
	})
	return nil
}

func build(op OpCode, elems []Value) Value {
	vals := make([]any, len(elems))
	literal := true
	for i, e := range elems {
		vals[i] = e.Value()
		if !RendersAsValue(e) {
			literal = false
		}
	}

	var val any
	var opening, closing string
	switch op {
	case OpBuildTuple:
		val = Tuple(vals)
		opening, closing = "(", ")"
	case OpBuildSet:
		val = NewSet(vals...)
		opening, closing = "{", "}"
	default:
		val = vals
		opening, closing = "[", "]"
	}

	if literal {
		return NewPlain(val, quoted(val))
	}
	name := opening
	for i, e := range elems {
		if i > 0 {
			name += ", "
		}
		name += e.String()
	}
	if op == OpBuildTuple && len(elems) == 1 {
		name += ","
	}
	name += closing
	return NewPlain(val, name)
}
