package subjects

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/reusee/plaintest/replay"
	"github.com/reusee/starlarkutil"
	"go.starlark.net/starlark"
)

// ToStarlark converts a Go value for use inside starlark. Unsupported types
// panic.
func ToStarlark(v any) starlark.Value {
	switch v := v.(type) {

	case nil:
		return starlark.None

	case starlark.Value:
		return v
	case *Routine:
		return v.fn
	case *Object:
		return v.value
	case replay.Value:
		return ToStarlark(v.Value())

	case bool:
		return starlark.Bool(v)

	case []byte:
		return starlark.Bytes(v)
	case string:
		return starlark.String(v)

	case int:
		return starlark.MakeInt(v)
	case int64:
		return starlark.MakeInt64(v)
	case uint64:
		return starlark.MakeUint64(v)
	case *big.Int:
		return starlark.MakeBigInt(v)

	case float32:
		return starlark.Float(v)
	case float64:
		return starlark.Float(v)

	case replay.Tuple:
		elems := make(starlark.Tuple, len(v))
		for i, e := range v {
			elems[i] = ToStarlark(e)
		}
		return elems

	case *replay.Set:
		set := starlark.NewSet(v.Len())
		for _, e := range v.Elems() {
			if err := set.Insert(ToStarlark(e)); err != nil {
				panic(err)
			}
		}
		return set

	case []any:
		elems := make([]starlark.Value, len(v))
		for i, e := range v {
			elems[i] = ToStarlark(e)
		}
		return starlark.NewList(elems)

	case replay.Callable:
		return starlark.NewBuiltin(fmt.Sprintf("%T", v), func(
			thread *starlark.Thread,
			fn *starlark.Builtin,
			args starlark.Tuple,
			kwargs []starlark.Tuple,
		) (starlark.Value, error) {
			if len(kwargs) > 0 {
				return nil, fmt.Errorf("%s: unexpected keyword arguments", fn.Name())
			}
			goArgs := make([]any, len(args))
			for i, arg := range args {
				goArgs[i] = FromStarlark(arg)
			}
			ret, err := v.Call(goArgs)
			if err != nil {
				return nil, err
			}
			return ToStarlark(ret), nil
		})

	}

	value := reflect.ValueOf(v)
	switch value.Kind() {

	case reflect.Bool:
		return starlark.Bool(value.Bool())

	case reflect.String:
		return starlark.String(value.String())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return starlark.MakeInt64(value.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return starlark.MakeUint64(value.Uint())

	case reflect.Float32, reflect.Float64:
		return starlark.Float(value.Float())

	case reflect.Slice, reflect.Array:
		l := value.Len()
		elems := make([]starlark.Value, l)
		for i := range l {
			elems[i] = ToStarlark(value.Index(i).Interface())
		}
		return starlark.NewList(elems)

	case reflect.Map:
		d := starlark.NewDict(value.Len())
		iter := value.MapRange()
		for iter.Next() {
			if err := d.SetKey(
				ToStarlark(iter.Key().Interface()),
				ToStarlark(iter.Value().Interface()),
			); err != nil {
				panic(err)
			}
		}
		return d

	case reflect.Struct:
		n := value.NumField()
		d := starlark.NewDict(n)
		typ := value.Type()
		for i := range n {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			if err := d.SetKey(
				starlark.String(field.Name),
				ToStarlark(value.Field(i).Interface()),
			); err != nil {
				panic(err)
			}
		}
		return d

	case reflect.Pointer, reflect.Interface:
		elem := value.Elem()
		if !elem.IsValid() {
			return starlark.None
		}
		return ToStarlark(elem.Interface())

	case reflect.Func:
		return starlarkutil.MakeFunc("", value.Interface())

	}

	panic(fmt.Errorf("unsupported type for starlark: %T", v))
}

// FromStarlark converts a starlark value to the Go values the replay
// interpreter computes with. Callables become *Routine, values with
// attributes become *Object.
func FromStarlark(v starlark.Value) any {
	return fromStarlark(nil, v)
}

func fromStarlark(thread *starlark.Thread, v starlark.Value) any {
	switch v := v.(type) {

	case starlark.NoneType:
		return nil

	case starlark.Bool:
		return bool(v)

	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return i
		}
		return v.BigInt()

	case starlark.Float:
		return float64(v)

	case starlark.String:
		return string(v)

	case starlark.Bytes:
		return []byte(v)

	case *starlark.List:
		ret := make([]any, v.Len())
		for i := range v.Len() {
			ret[i] = fromStarlark(thread, v.Index(i))
		}
		return ret

	case starlark.Tuple:
		ret := make(replay.Tuple, len(v))
		for i, e := range v {
			ret[i] = fromStarlark(thread, e)
		}
		return ret

	case *starlark.Set:
		ret := replay.NewSet()
		iter := v.Iterate()
		defer iter.Done()
		var e starlark.Value
		for iter.Next(&e) {
			ret.Add(fromStarlark(thread, e))
		}
		return ret

	case *starlark.Dict:
		allStrings := true
		for _, k := range v.Keys() {
			if _, ok := k.(starlark.String); !ok {
				allStrings = false
				break
			}
		}
		if allStrings {
			ret := make(map[string]any, v.Len())
			for _, item := range v.Items() {
				ret[string(item[0].(starlark.String))] = fromStarlark(thread, item[1])
			}
			return ret
		}
		ret := make(map[any]any, v.Len())
		for _, item := range v.Items() {
			key := fromStarlark(thread, item[0])
			if key != nil && !reflect.TypeOf(key).Comparable() {
				key = item[0].String()
			}
			ret[key] = fromStarlark(thread, item[1])
		}
		return ret

	case starlark.Callable:
		return &Routine{
			fn:     v,
			thread: thread,
		}

	case starlark.HasAttrs:
		return &Object{
			value:  v,
			thread: thread,
		}

	}

	return v
}
