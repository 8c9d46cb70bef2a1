package subjects

import (
	"testing"

	"github.com/reusee/plaintest/replay"
	"go.starlark.net/starlark"
)

func TestToStarlark(t *testing.T) {
	type testStruct struct {
		Exported   string
		unexported int
	}

	testCases := []struct {
		name     string
		input    any
		expected starlark.Value
	}{
		{"nil", nil, starlark.None},
		{"bool", true, starlark.True},
		{"bytes", []byte("abc"), starlark.Bytes("abc")},
		{"string", "hello", starlark.String("hello")},
		{"int", 42, starlark.MakeInt(42)},
		{"int8", int8(42), starlark.MakeInt(42)},
		{"int64", int64(42), starlark.MakeInt64(42)},
		{"uint32", uint32(42), starlark.MakeInt(42)},
		{"float64", 3.14, starlark.Float(3.14)},
		{"[]any", []any{1, "a"}, starlark.NewList([]starlark.Value{starlark.MakeInt(1), starlark.String("a")})},
		{"[]int", []int{1, 2}, starlark.NewList([]starlark.Value{starlark.MakeInt(1), starlark.MakeInt(2)})},
		{"tuple", replay.Tuple{1, "a"}, starlark.Tuple{starlark.MakeInt(1), starlark.String("a")}},
		{"set", replay.NewSet(1, 2), func() starlark.Value {
			s := starlark.NewSet(2)
			s.Insert(starlark.MakeInt(1))
			s.Insert(starlark.MakeInt(2))
			return s
		}()},
		{"symbolic", replay.NewPlain(5, "x"), starlark.MakeInt(5)},
		{"struct", testStruct{Exported: "hello", unexported: 42}, func() starlark.Value {
			d := starlark.NewDict(1)
			d.SetKey(starlark.String("Exported"), starlark.String("hello"))
			return d
		}()},
		{"nil pointer", (*testStruct)(nil), starlark.None},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := ToStarlark(tc.input)
			equal, err := starlark.Equal(actual, tc.expected)
			if err != nil {
				t.Fatalf("comparison failed: %v", err)
			}
			if !equal {
				t.Errorf("ToStarlark(%#v) = %v, want %v", tc.input, actual, tc.expected)
			}
		})
	}

	t.Run("panic on unsupported type", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("ToStarlark did not panic on unsupported type")
			}
		}()
		ToStarlark(make(chan bool))
	})
}

func TestFromStarlark(t *testing.T) {
	if v := FromStarlark(starlark.None); v != nil {
		t.Fatalf("got %#v", v)
	}
	if v := FromStarlark(starlark.MakeInt(3)); v != int64(3) {
		t.Fatalf("got %#v", v)
	}
	if v := FromStarlark(starlark.Float(0.5)); v != 0.5 {
		t.Fatalf("got %#v", v)
	}

	list := starlark.NewList([]starlark.Value{
		starlark.MakeInt(1),
		starlark.Tuple{starlark.String("a"), starlark.True},
	})
	if str := replay.Repr(FromStarlark(list)); str != "[1, ('a', True)]" {
		t.Fatalf("got %s", str)
	}

	set := starlark.NewSet(2)
	set.Insert(starlark.MakeInt(2))
	set.Insert(starlark.MakeInt(1))
	if str := replay.Repr(FromStarlark(set)); str != "{1, 2}" {
		t.Fatalf("got %s", str)
	}

	dict := starlark.NewDict(1)
	dict.SetKey(starlark.String("a"), starlark.MakeInt(1))
	m, ok := FromStarlark(dict).(map[string]any)
	if !ok || m["a"] != int64(1) {
		t.Fatalf("got %#v", m)
	}

	dict = starlark.NewDict(1)
	dict.SetKey(starlark.MakeInt(1), starlark.String("a"))
	m2, ok := FromStarlark(dict).(map[any]any)
	if !ok || m2[int64(1)] != "a" {
		t.Fatalf("got %#v", m2)
	}

	builtin := starlark.NewBuiltin("double", func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, _ []starlark.Tuple) (starlark.Value, error) {
		n, _ := starlark.AsInt32(args[0])
		return starlark.MakeInt(n * 2), nil
	})
	routine, ok := FromStarlark(builtin).(*Routine)
	if !ok {
		t.Fatal()
	}
	ret, err := routine.Call([]any{21})
	if err != nil {
		t.Fatal(err)
	}
	if ret != int64(42) {
		t.Fatalf("got %#v", ret)
	}
	if routine.Name() != "double" {
		t.Fatalf("got %s", routine.Name())
	}
}
