package replay

import (
	"fmt"
	"reflect"
)

// Callable is implemented by values invoked without reflection.
type Callable interface {
	Call(args []any) (any, error)
}

var errorType = reflect.TypeFor[error]()

// Call invokes fn with positional arguments. Go functions are called by
// reflection; a trailing error result becomes the call's error and several
// remaining results are returned as a Tuple.
func Call(fn any, args []any) (ret any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	if c, ok := fn.(Callable); ok {
		return c.Call(args)
	}

	if fn == nil {
		return nil, fmt.Errorf("%w: None is not callable", ErrUnsupported)
	}
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %s is not callable", ErrUnsupported, typeName(fn))
	}
	ft := fv.Type()

	numIn := ft.NumIn()
	if ft.IsVariadic() {
		if len(args) < numIn-1 {
			return nil, fmt.Errorf("want at least %d arguments, got %d", numIn-1, len(args))
		}
	} else if len(args) != numIn {
		return nil, fmt.Errorf("want %d arguments, got %d", numIn, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var t reflect.Type
		if ft.IsVariadic() && i >= numIn-1 {
			t = ft.In(numIn - 1).Elem()
		} else {
			t = ft.In(i)
		}
		in[i], err = convertArg(arg, t)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
	}

	out := fv.Call(in)
	if n := len(out); n > 0 && ft.Out(n-1) == errorType {
		if e := out[n-1].Interface(); e != nil {
			return nil, e.(error)
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	}
	tuple := make(Tuple, len(out))
	for i, o := range out {
		tuple[i] = o.Interface()
	}
	return tuple, nil
}

func convertArg(arg any, t reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use None as %v", t)
	}

	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(t) {
		ret := reflect.New(t).Elem()
		ret.Set(v)
		return ret, nil
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if i, ok := ToInt64(arg); ok {
			return reflect.ValueOf(i).Convert(t), nil
		}
	case reflect.Float32, reflect.Float64:
		if f, ok := ToFloat64(arg); ok {
			return reflect.ValueOf(f).Convert(t), nil
		}
	case reflect.String:
		if v.Kind() == reflect.String {
			return v.Convert(t), nil
		}
	case reflect.Slice:
		if elems, ok := asSequence(arg); ok {
			ret := reflect.MakeSlice(t, len(elems), len(elems))
			for i, e := range elems {
				ev, err := convertArg(e, t.Elem())
				if err != nil {
					return reflect.Value{}, err
				}
				ret.Index(i).Set(ev)
			}
			return ret, nil
		}
	}

	return reflect.Value{}, fmt.Errorf("cannot use %s as %v", typeName(arg), t)
}

func asSequence(v any) ([]any, bool) {
	switch v := v.(type) {
	case Tuple:
		return v, true
	case *Set:
		return v.Elems(), true
	}
	return asList(v)
}
