package starcode

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/reusee/plaintest/checks"
	"github.com/reusee/plaintest/replay"
)

func add5(x int) int {
	return x + 5
}

func compile(t *testing.T, src string) *Unit {
	t.Helper()
	unit, err := Compile("example_test.star", src, Globals(map[string]any{
		"add5": add5,
	}))
	if err != nil {
		t.Fatal(err)
	}
	return unit
}

func runFunction(t *testing.T, unit *Unit, name string, options replay.Options) *checks.Runner {
	t.Helper()
	code, ok := unit.Function(name)
	if !ok {
		t.Fatalf("no function %s", name)
	}
	runner, err := checks.NewRunner(code, options)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := runner.Run(); err != nil {
		t.Fatal(err)
	}
	return runner
}

func TestCompileChecks(t *testing.T) {
	unit := compile(t, `
"""add5 tests"""

def test_add5():
    add5(1) == 6
    add5(1) == 7
`)
	if str := fmt.Sprintf("%v", unit.Names()); str != "[test_add5]" {
		t.Fatalf("got %s", str)
	}

	runner := runFunction(t, unit, "test_add5", replay.Options{})
	if runner.Checks != 2 {
		t.Fatalf("got %d", runner.Checks)
	}
	if len(runner.Failures) != 1 {
		t.Fatalf("got %v", runner.Failures)
	}
	failure := runner.Failures[0]
	if failure.Summary() != "add5(1) <6> was not equal to 7" {
		t.Fatalf("got %s", failure.Summary())
	}
	if failure.Line != 6 {
		t.Fatalf("got %d", failure.Line)
	}
	if failure.File != "example_test.star" {
		t.Fatalf("got %s", failure.File)
	}
}

func TestCompileCollections(t *testing.T) {
	unit := compile(t, `
def test_collections():
    [add5(1), 1] == [6, 1]
    set([add5(1), 1]) == set([6, 1, 2])
    (1, "a") == (1, "a")
    5 in [4, 6]
    5 not in [4, 6]
    [1, 2] == [2, 1]
`)
	runner := runFunction(t, unit, "test_collections", replay.Options{})
	if runner.Checks != 6 {
		t.Fatalf("got %d", runner.Checks)
	}
	if len(runner.Failures) != 3 {
		t.Fatalf("got %v", runner.Failures)
	}
	if s := runner.Failures[0].Left; s != "set([add5(1) <6>, 1] <[6, 1]>) <{1, 6}>" {
		t.Fatalf("got %s", s)
	}
	if s := runner.Failures[0].Right; s != "set([6, 1, 2]) <{1, 2, 6}>" {
		t.Fatalf("got %s", s)
	}
	if s := runner.Failures[1].Summary(); s != "5 was not contained in [4, 6]" {
		t.Fatalf("got %s", s)
	}
	if s := runner.Failures[2].Note; s != checks.NoteListOrder {
		t.Fatalf("got %s", s)
	}
}

func TestCompileLocals(t *testing.T) {
	unit := compile(t, `
def test_locals(n):
    x = add5(n)
    x += 1
    x == 8
    y = -2
    x // y == -4
    return x
`)
	code, _ := unit.Function("test_locals")
	if str := fmt.Sprintf("%v", code.Params); str != "[n]" {
		t.Fatalf("got %s", str)
	}
	runner, err := checks.NewRunner(code, replay.Options{
		Args: []any{1},
	})
	if err != nil {
		t.Fatal(err)
	}
	ret, err := runner.Run()
	if err != nil {
		t.Fatal(err)
	}
	if !replay.Equal(ret, 7) {
		t.Fatalf("got %v", ret)
	}
	if len(runner.Failures) != 1 {
		t.Fatalf("got %v", runner.Failures)
	}
	if s := runner.Failures[0].Left; s != "(add5(n <1>) <6>)+(1) <7>" {
		t.Fatalf("got %s", s)
	}
}

type example struct {
	Count int
}

func (e *example) Add5(x int) int {
	return x + 5 + e.Count
}

func TestCompileMethod(t *testing.T) {
	unit := compile(t, `
def test_method(self):
    self.Add5(1) == 6
    self.Count == 0
    str(self.Count) == "0"
    len([1, 2, 3]) == 3
`)
	code, _ := unit.Function("test_method")
	if !code.IsMethod() {
		t.Fatal()
	}
	runner, err := checks.NewRunner(code, replay.Options{
		Receiver: &example{Count: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := runner.Run(); err != nil {
		t.Fatal(err)
	}
	if len(runner.Failures) != 3 {
		t.Fatalf("got %v", runner.Failures)
	}
	if s := runner.Failures[0].Summary(); s != "self.Add5(1) <7> was not equal to 6" {
		t.Fatalf("got %s", s)
	}
	if s := runner.Failures[1].Summary(); s != "self.Count <1> was not equal to 0" {
		t.Fatalf("got %s", s)
	}
	if s := runner.Failures[2].Summary(); s != "str(self.Count <1>) <1> was not equal to 0" {
		t.Fatalf("got %s", s)
	}
}

func TestCompileLines(t *testing.T) {
	unit := compile(t, `
def f():
    x = 1
    return (x +
        1)
`)
	code, _ := unit.Function("f")
	if code.FirstLine != 2 {
		t.Fatalf("got %d", code.FirstLine)
	}
	var lines []int
	for _, inst := range code.Instructions {
		lines = append(lines, inst.Line)
	}
	if str := fmt.Sprintf("%v", lines); str != "[3 3 4 4 4 4 5 5]" {
		t.Fatalf("got %s", str)
	}
}

func TestCompileRuntimeError(t *testing.T) {
	unit := compile(t, `
def test_error():
    1 == 1
    missing(1) == 2
    1 == 2
`)
	code, _ := unit.Function("test_error")
	runner, err := checks.NewRunner(code, replay.Options{})
	if err != nil {
		t.Fatal(err)
	}
	_, err = runner.Run()
	var nameErr *replay.NameError
	if !errors.As(err, &nameErr) {
		t.Fatalf("got %v", err)
	}
	if runner.Checks != 1 {
		t.Fatalf("got %d", runner.Checks)
	}
}

func TestCompileErrors(t *testing.T) {
	for _, c := range []struct {
		src      string
		expected string
	}{
		{"x = 1\n", "unsupported top-level statement"},
		{"def f():\n    if True:\n        pass\n", "unsupported statement"},
		{"def f():\n    for x in []:\n        pass\n", "unsupported statement"},
		{"def f():\n    1 == 1 and 2 == 2\n", "unsupported operator: and"},
		{"def f():\n    not True\n", "unsupported unary operator"},
		{"def f():\n    {1: 2}\n", "unsupported expression"},
		{"def f():\n    g(x = 1)\n", "keyword arguments are not supported"},
		{"def f(x = 1):\n    pass\n", "unsupported parameter"},
		{"def f():\n    a.b = 1\n", "unsupported assignment target"},
		{"def f():\n    pass\ndef f():\n    pass\n", "duplicated function f"},
		{"def f(:\n", "example_test.star:1"},
	} {
		_, err := Compile("example_test.star", c.src, nil)
		if err == nil {
			t.Fatalf("expected error for %q", c.src)
		}
		if !strings.Contains(err.Error(), c.expected) {
			t.Fatalf("got %v for %q", err, c.src)
		}
	}
}
