package replay

import (
	"errors"
	"fmt"
	"testing"
)

type example struct {
	Count int
}

func (e *example) Add5(value int) int {
	return value + 5
}

func (e *example) Fail() (int, error) {
	return 0, fmt.Errorf("boom")
}

func add5(value int) int {
	return value + 5
}

func run(t *testing.T, code *Code, options Options) *VM {
	t.Helper()
	vm, err := NewVM(code, options)
	if err != nil {
		t.Fatal(err)
	}
	for _, err := range vm.Run {
		if err != nil {
			t.Fatal(err)
		}
	}
	return vm
}

func TestVM_Return(t *testing.T) {
	vm := run(t, &Code{
		Instructions: []Instruction{
			OpLoadConst.With(42),
			OpReturn.At(1),
		},
	}, Options{})
	if vm.ReturnValue != 42 {
		t.Fatalf("got %v", vm.ReturnValue)
	}
	if len(vm.Stack) != 0 {
		t.Fatalf("got %v", vm.Stack)
	}
}

func TestVM_NotRun(t *testing.T) {
	vm := run(t, &Code{
		Instructions: []Instruction{
			OpLoadConst.With(1),
			OpPop.At(1),
		},
	}, Options{})
	if vm.ReturnValue != NotRun {
		t.Fatalf("got %v", vm.ReturnValue)
	}
	if vm.Returned() {
		t.Fatal()
	}
}

func TestVM_CallGlobal(t *testing.T) {
	vm := run(t, &Code{
		Globals: map[string]any{
			"add5": add5,
		},
		Instructions: []Instruction{
			OpLoadGlobal.With("add5"),
			OpLoadConst.With(int64(1)),
			OpCall.With(1),
			OpStoreLocal.With("x"),
		},
	}, Options{})
	x, ok := vm.Locals.Get("x")
	if !ok {
		t.Fatal("x not found")
	}
	res, ok := x.(*CallResult)
	if !ok {
		t.Fatalf("got %T", x)
	}
	if res.Val != 6 {
		t.Fatalf("got %v", res.Val)
	}
	if str := res.String(); str != "add5(1) <6>" {
		t.Fatalf("got %s", str)
	}
}

func TestVM_StoreLoadRoundTrip(t *testing.T) {
	vm, err := NewVM(&Code{
		Globals: map[string]any{
			"add5": add5,
		},
		Instructions: []Instruction{
			OpLoadGlobal.With("add5"),
			OpLoadConst.With(1),
			OpCall.With(1),
			OpStoreLocal.With("x"),
			OpLoadLocal.With("x"),
		},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	var stored Value
	for inst, err := range vm.Run {
		if err != nil {
			t.Fatal(err)
		}
		if inst.Op == OpCall {
			stored, _ = vm.Top()
		}
	}
	loaded, ok := vm.Top()
	if !ok {
		t.Fatal("empty stack")
	}
	if loaded != stored {
		t.Fatalf("got %v", loaded)
	}
	if loaded.Value() != 6 {
		t.Fatalf("got %v", loaded.Value())
	}
	if str := loaded.String(); str != "add5(1) <6>" {
		t.Fatalf("got %s", str)
	}
}

func TestVM_Method(t *testing.T) {
	vm := run(t, &Code{
		Params: []string{"self"},
		Instructions: []Instruction{
			OpLoadLocal.With("self"),
			OpLoadMethod.With("Add5"),
			OpLoadConst.With(1),
			OpCall.With(1),
			OpStoreLocal.With("r"),
			OpLoadLocal.With("self"),
			OpLoadAttr.With("Count"),
			OpStoreLocal.With("c"),
			OpLoadConst.With(nil),
			OpReturn.With(nil),
		},
	}, Options{
		Receiver: &example{Count: 3},
	})

	r, _ := vm.Locals.Get("r")
	if str := r.(Value).String(); str != "self.Add5(1) <6>" {
		t.Fatalf("got %s", str)
	}
	c, _ := vm.Locals.Get("c")
	if str := c.(Value).String(); str != "self.Count <3>" {
		t.Fatalf("got %s", str)
	}
	if vm.ReturnValue != nil {
		t.Fatalf("got %v", vm.ReturnValue)
	}
}

func TestVM_MethodWithoutReceiver(t *testing.T) {
	_, err := NewVM(&Code{
		Params: []string{"self"},
	}, Options{})
	if err == nil {
		t.Fatal("should error")
	}
}

func TestVM_Params(t *testing.T) {
	vm := run(t, &Code{
		Params: []string{"a", "b"},
		Instructions: []Instruction{
			OpLoadLocal.With("a"),
			OpLoadLocal.With("b"),
			OpBinary.With(BinaryAdd),
			OpReturn.With(nil),
		},
	}, Options{
		Args: []any{1, 2},
	})
	if !Equal(vm.ReturnValue, 3) {
		t.Fatalf("got %v", vm.ReturnValue)
	}
}

func TestVM_AttributeError(t *testing.T) {
	vm, err := NewVM(&Code{
		Params: []string{"self"},
		Instructions: []Instruction{
			OpLoadLocal.With("self"),
			OpLoadAttr.With("Missing"),
		},
	}, Options{
		Receiver: &example{},
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = vm.Exec()
	var attrErr *AttributeError
	if !errors.As(err, &attrErr) {
		t.Fatalf("got %v", err)
	}
	if attrErr.Name != "Missing" {
		t.Fatalf("got %v", attrErr.Name)
	}
}

func TestVM_NameError(t *testing.T) {
	vm, err := NewVM(&Code{
		Instructions: []Instruction{
			OpLoadGlobal.With("nope"),
		},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	_, err = vm.Exec()
	var nameErr *NameError
	if !errors.As(err, &nameErr) {
		t.Fatalf("got %v", err)
	}
}

func TestVM_CalleeError(t *testing.T) {
	vm, err := NewVM(&Code{
		Params: []string{"self"},
		Instructions: []Instruction{
			OpLoadLocal.With("self"),
			OpLoadMethod.With("Fail"),
			OpCall.With(0),
			OpPop.With(nil),
			OpLoadConst.With(1),
			OpReturn.With(nil),
		},
	}, Options{
		Receiver: &example{},
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = vm.Exec()
	if err == nil || err.Error() != "self.Fail: boom" {
		t.Fatalf("got %v", err)
	}
	if vm.Returned() {
		t.Fatal("should abort")
	}
}

func TestVM_Binary(t *testing.T) {
	cases := []struct {
		op   BinaryOp
		l, r any
		want any
		name string
	}{
		{BinaryAdd, 3, 4, 7, "(3)+(4)"},
		{BinarySubtract, 3, 4, -1, "(3)-(4)"},
		{BinaryMultiply, 3, 4, 12, "(3)*(4)"},
		{BinaryMultiply, "ab", 2, "abab", "(ab)*(2)"},
		{BinaryTrueDivide, 7, 2, 3.5, "(7)/(2)"},
		{BinaryFloorDivide, -7, 2, -4, "(-7)//(2)"},
		{BinaryFloorDivide, 7.5, 2, 3.0, "(7.5)//(2)"},
		{BinaryModulo, -7, 3, 2, "(-7)%(3)"},
		{BinaryPower, 2, 10, 1024, "(2)**(10)"},
		{BinaryPower, 2, -1, 0.5, "(2)**(-1)"},
		{BinarySubscript, []any{10, 20}, 1, 20, "([10, 20])[(1)]"},
		{BinarySubscript, []any{10, 20}, -1, 20, "([10, 20])[(-1)]"},
		{BinarySubscript, map[string]int{"a": 1}, "a", 1, "({'a': 1})[(a)]"},
		{BinaryLshift, 1, 4, 16, "(1)<<(4)"},
		{BinaryRshift, 16, 2, 4, "(16)>>(2)"},
		{BinaryAnd, 6, 3, 2, "(6)&(3)"},
		{BinaryXor, 6, 3, 5, "(6)^(3)"},
		{BinaryOr, 6, 3, 7, "(6)|(3)"},
		{BinaryAdd, "a", "b", "ab", "(a)+(b)"},
		{BinaryAdd, []any{1}, []any{2}, []any{1, 2}, "([1])+([2])"},
	}
	for _, c := range cases {
		for _, op := range []OpCode{OpBinary, OpInplace} {
			vm := run(t, &Code{
				Instructions: []Instruction{
					OpLoadConst.With(c.l),
					OpLoadConst.With(c.r),
					op.With(c.op),
					OpStoreLocal.With("x"),
				},
			}, Options{})
			x, _ := vm.Locals.Get("x")
			val := x.(Value)
			if !Equal(val.Value(), c.want) {
				t.Fatalf("%v %s %v: got %v", c.l, c.op, c.r, val.Value())
			}
			if val.Name() != c.name {
				t.Fatalf("got %s", val.Name())
			}
		}
	}
}

func TestVM_BinaryNestedName(t *testing.T) {
	vm := run(t, &Code{
		Globals: map[string]any{
			"add5": add5,
		},
		Instructions: []Instruction{
			OpLoadGlobal.With("add5"),
			OpLoadConst.With(1),
			OpCall.With(1),
			OpLoadConst.With(2),
			OpBinary.With(BinaryMultiply),
			OpStoreLocal.With("x"),
		},
	}, Options{})
	x, _ := vm.Locals.Get("x")
	if str := x.(Value).String(); str != "(add5(1) <6>)*(2) <12>" {
		t.Fatalf("got %s", str)
	}
}

func TestVM_ClassicDivision(t *testing.T) {
	for _, op := range []OpCode{OpBinary, OpInplace} {
		vm, err := NewVM(&Code{
			Instructions: []Instruction{
				OpLoadConst.With(1),
				OpLoadConst.With(2),
				op.With(BinaryDivide),
			},
		}, Options{})
		if err != nil {
			t.Fatal(err)
		}
		_, err = vm.Exec()
		if !errors.Is(err, ErrClassicDivision) {
			t.Fatalf("got %v", err)
		}
		if err.Error() != "only true division is supported" {
			t.Fatalf("got %v", err)
		}
	}
}

func TestVM_ZeroDivision(t *testing.T) {
	vm, err := NewVM(&Code{
		Instructions: []Instruction{
			OpLoadConst.With(1),
			OpLoadConst.With(0),
			OpBinary.With(BinaryTrueDivide),
		},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := vm.Exec(); !errors.Is(err, ErrZeroDivision) {
		t.Fatalf("got %v", err)
	}
}

func TestVM_BuildLiteral(t *testing.T) {
	vm := run(t, &Code{
		Instructions: []Instruction{
			OpLoadConst.With(1),
			OpLoadConst.With(2),
			OpBuildList.With(2),
			OpLoadConst.With(1),
			OpLoadConst.With("a"),
			OpBuildTuple.With(2),
			OpLoadConst.With(3),
			OpLoadConst.With(1),
			OpLoadConst.With(3),
			OpBuildSet.With(3),
		},
	}, Options{})
	if len(vm.Stack) != 3 {
		t.Fatalf("got %v", vm.Stack)
	}
	if str := vm.Stack[0].String(); str != "[1, 2]" {
		t.Fatalf("got %s", str)
	}
	if str := vm.Stack[1].String(); str != "(1, 'a')" {
		t.Fatalf("got %s", str)
	}
	if str := vm.Stack[2].String(); str != "{1, 3}" {
		t.Fatalf("got %s", str)
	}
	if _, ok := vm.Stack[1].Value().(Tuple); !ok {
		t.Fatalf("got %T", vm.Stack[1].Value())
	}
	if set, ok := vm.Stack[2].Value().(*Set); !ok || set.Len() != 2 {
		t.Fatalf("got %v", vm.Stack[2].Value())
	}
}

func TestVM_BuildComputed(t *testing.T) {
	vm := run(t, &Code{
		Globals: map[string]any{
			"add5": add5,
		},
		Instructions: []Instruction{
			OpLoadGlobal.With("add5"),
			OpLoadConst.With(1),
			OpCall.With(1),
			OpLoadConst.With(1),
			OpBuildList.With(2),
			OpLoadConst.With(6),
			OpLoadConst.With(1),
			OpBuildList.With(2),
			OpCompare.With("=="),
		},
	}, Options{})
	res := vm.Stack[0].(*CallResult)
	if res.Val != true {
		t.Fatal("should be equal")
	}
	if str := res.Args[0].String(); str != "[add5(1) <6>, 1] <[6, 1]>" {
		t.Fatalf("got %s", str)
	}
	if str := res.Args[1].String(); str != "[6, 1]" {
		t.Fatalf("got %s", str)
	}
}

func TestVM_BuildSetComputed(t *testing.T) {
	vm := run(t, &Code{
		Globals: map[string]any{
			"add5": add5,
		},
		Instructions: []Instruction{
			OpLoadGlobal.With("add5"),
			OpLoadConst.With(1),
			OpCall.With(1),
			OpLoadConst.With(1),
			OpBuildSet.With(2),
			OpLoadConst.With(6),
			OpLoadConst.With(1),
			OpLoadConst.With(2),
			OpBuildSet.With(3),
			OpCompare.With("=="),
		},
	}, Options{})
	res := vm.Stack[0].(*CallResult)
	if res.Val != false {
		t.Fatal("should not be equal")
	}
	if str := res.Args[0].String(); str != "{add5(1) <6>, 1} <{1, 6}>" {
		t.Fatalf("got %s", str)
	}
	if str := res.Args[1].String(); str != "{1, 2, 6}" {
		t.Fatalf("got %s", str)
	}
}

func TestVM_Compare(t *testing.T) {
	cases := []struct {
		inst Instruction
		l, r any
		want bool
		code string
	}{
		{OpCompare.With("=="), 1, int64(1), true, "=="},
		{OpCompare.With("=="), 1, 1.0, true, "=="},
		{OpCompare.With("!="), 1, 2, true, "!="},
		{OpCompare.With("<"), 1, 2, true, "<"},
		{OpCompare.With("<="), 2, 2, true, "<="},
		{OpCompare.With(">"), 1, 2, false, ">"},
		{OpCompare.With(">="), "b", "a", true, ">="},
		{OpCompare.With("<"), []any{1, 2}, []any{1, 3}, true, "<"},
		{OpIs.With(false), nil, nil, true, "is"},
		{OpIs.With(false), true, false, false, "is"},
		{OpIs.With(true), 1, nil, true, "is not"},
		{OpContains.With(false), 5, []any{4, 6}, false, "in"},
		{OpContains.With(false), "b", "abc", true, "in"},
		{OpContains.With(true), 5, []any{4, 6}, true, "not in"},
		{OpContains.With(false), "k", map[string]int{"k": 1}, true, "in"},
		{OpCompare.With("in"), 4, []any{4, 6}, true, "in"},
	}
	for _, c := range cases {
		vm := run(t, &Code{
			Instructions: []Instruction{
				OpLoadConst.With(c.l),
				OpLoadConst.With(c.r),
				c.inst,
			},
		}, Options{})
		res := vm.Stack[0].(*CallResult)
		if res.Val != c.want {
			t.Fatalf("%v %s %v: got %v", c.l, c.code, c.r, res.Val)
		}
		if code := res.Action.(Comparison).Code; code != c.code {
			t.Fatalf("got %s", code)
		}
	}
}

func TestVM_Identity(t *testing.T) {
	e := &example{}
	vm := run(t, &Code{
		Globals: map[string]any{
			"a": e,
			"b": e,
			"c": &example{},
		},
		Instructions: []Instruction{
			OpLoadGlobal.With("a"),
			OpLoadGlobal.With("b"),
			OpIs.With(false),
			OpLoadGlobal.With("a"),
			OpLoadGlobal.With("c"),
			OpIs.With(false),
		},
	}, Options{})
	if vm.Stack[0].Value() != true {
		t.Fatal()
	}
	if vm.Stack[1].Value() != false {
		t.Fatal()
	}
}

func TestVM_DupTop(t *testing.T) {
	vm := run(t, &Code{
		Instructions: []Instruction{
			OpLoadConst.With(1),
			OpDupTop.With(nil),
		},
	}, Options{})
	if len(vm.Stack) != 2 || vm.Stack[0] != vm.Stack[1] {
		t.Fatalf("got %v", vm.Stack)
	}
}

func TestVM_Rotate(t *testing.T) {
	for n, want := range map[int]string{
		2: "[1 2 4 3]",
		3: "[1 4 2 3]",
		4: "[4 1 2 3]",
	} {
		vm := run(t, &Code{
			Instructions: []Instruction{
				OpLoadConst.With(1),
				OpLoadConst.With(2),
				OpLoadConst.With(3),
				OpLoadConst.With(4),
				OpRotate.With(n),
			},
		}, Options{})
		var vals []any
		for _, v := range vm.Stack {
			vals = append(vals, v.Value())
		}
		if str := fmt.Sprintf("%v", vals); str != want {
			t.Fatalf("rotate %d: got %s", n, str)
		}
	}
}

func TestVM_IntegrationErrors(t *testing.T) {
	for _, insts := range [][]Instruction{
		{OpCode(200).With(nil)},
		{OpPop.With(nil)},
		{OpLoadConst.With(1), OpRotate.With(2)},
		{OpLoadConst.With(1), OpRotate.With(5)},
		{OpLoadConst.With(1), OpLoadConst.With(1), OpCompare.With("<>")},
		{OpLoadConst.With(1), OpLoadConst.With(1), OpReturn.With(nil)},
		{OpLoadGlobal.With(1)},
		{OpLoadConst.With(1), OpLoadConst.With(1), OpBinary.With("+")},
	} {
		vm, err := NewVM(&Code{
			Instructions: insts,
		}, Options{})
		if err != nil {
			t.Fatal(err)
		}
		_, err = vm.Exec()
		if !errors.Is(err, ErrIntegration) {
			t.Fatalf("%v: got %v", insts, err)
		}
	}
}

func TestVM_Line(t *testing.T) {
	vm, err := NewVM(&Code{
		FirstLine: 10,
		Instructions: []Instruction{
			OpLoadConst.With(1).At(11),
			OpLoadConst.With(2),
			OpBinary.With(BinaryAdd).At(12),
			OpPop.With(nil),
		},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if vm.Line != 10 {
		t.Fatalf("got %d", vm.Line)
	}
	var lines []int
	for _, err := range vm.Run {
		if err != nil {
			t.Fatal(err)
		}
		lines = append(lines, vm.Line)
	}
	if str := fmt.Sprintf("%v", lines); str != "[11 11 12 12]" {
		t.Fatalf("got %s", str)
	}
}

func TestVM_GlobalsNotMutated(t *testing.T) {
	globals := map[string]any{
		"x": 1,
	}
	run(t, &Code{
		Globals: globals,
		Instructions: []Instruction{
			OpLoadConst.With(2),
			OpStoreLocal.With("x"),
		},
	}, Options{})
	if globals["x"] != 1 {
		t.Fatalf("got %v", globals["x"])
	}
}
