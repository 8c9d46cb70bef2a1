package starcode

import (
	"fmt"
	"maps"
	"math"
	"math/big"
	"reflect"
	"unicode/utf8"

	"github.com/reusee/plaintest/replay"
)

// Builtins are the functions visible to every test file. Starlark has no
// set literal, so sets are built with set([...]).
func Builtins() map[string]any {
	return map[string]any{
		"set": func(elems ...any) (*replay.Set, error) {
			if len(elems) == 0 {
				return replay.NewSet(), nil
			}
			if len(elems) > 1 {
				return nil, fmt.Errorf("set: want at most 1 argument, got %d", len(elems))
			}
			values, err := iterable("set", elems[0])
			if err != nil {
				return nil, err
			}
			return replay.NewSet(values...), nil
		},

		"list": func(v any) ([]any, error) {
			values, err := iterable("list", v)
			if err != nil {
				return nil, err
			}
			return append([]any{}, values...), nil
		},

		"tuple": func(v any) (replay.Tuple, error) {
			values, err := iterable("tuple", v)
			if err != nil {
				return nil, err
			}
			return append(replay.Tuple{}, values...), nil
		},

		"len": func(v any) (int, error) {
			switch v := v.(type) {
			case string:
				return utf8.RuneCountInString(v), nil
			case []byte:
				return len(v), nil
			}
			if elems, ok := replay.Elems(v); ok {
				return len(elems), nil
			}
			if v != nil && reflect.TypeOf(v).Kind() == reflect.Map {
				return reflect.ValueOf(v).Len(), nil
			}
			return 0, fmt.Errorf("len: %T has no length", v)
		},

		"str": func(v any) string {
			return replay.Repr(v)
		},

		"abs": func(v any) (any, error) {
			if b, ok := v.(*big.Int); ok {
				return new(big.Int).Abs(b), nil
			}
			if i, ok := replay.ToInt64(v); ok {
				if i == math.MinInt64 {
					return new(big.Int).Neg(big.NewInt(i)), nil
				}
				return max(i, -i), nil
			}
			if f, ok := replay.ToFloat64(v); ok {
				return math.Abs(f), nil
			}
			return nil, fmt.Errorf("abs: bad operand %T", v)
		},
	}
}

func iterable(fn string, v any) ([]any, error) {
	if s, ok := v.(string); ok {
		var ret []any
		for _, r := range s {
			ret = append(ret, string(r))
		}
		return ret, nil
	}
	if elems, ok := replay.Elems(v); ok {
		return elems, nil
	}
	return nil, fmt.Errorf("%s: %T is not iterable", fn, v)
}

// Globals merges the builtins with extra bindings. Later maps win.
func Globals(extra ...map[string]any) map[string]any {
	ret := Builtins()
	for _, m := range extra {
		maps.Copy(ret, m)
	}
	return ret
}
