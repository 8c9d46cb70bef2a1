package replay

import (
	"fmt"
	"reflect"
	"strings"
)

func compare(code string, l, r any) (bool, error) {
	switch code {
	case "==":
		return Equal(l, r), nil
	case "!=":
		return !Equal(l, r), nil
	case "<", "<=", ">", ">=":
		c, err := order(l, r)
		if err != nil {
			return false, fmt.Errorf("%s: %w", code, err)
		}
		switch code {
		case "<":
			return c < 0, nil
		case "<=":
			return c <= 0, nil
		case ">":
			return c > 0, nil
		default:
			return c >= 0, nil
		}
	case "in":
		return Contains(r, l)
	case "not in":
		ok, err := Contains(r, l)
		return !ok, err
	case "is":
		return Identical(l, r), nil
	case "is not":
		return !Identical(l, r), nil
	}
	return false, fmt.Errorf("%w: unknown comparison %q", ErrIntegration, code)
}

// Equal compares runtime values the way the test author means them:
// numbers by value regardless of Go type, lists and tuples element-wise,
// sets by membership.
func Equal(l, r any) bool {
	if li, ri, lf, rf, ints, ok := numbers(l, r); ok {
		if ints {
			return li.Cmp(ri) == 0
		}
		return lf == rf
	}

	switch l := l.(type) {
	case Tuple:
		rt, ok := r.(Tuple)
		return ok && equalElems(l, rt)
	case *Set:
		rs, ok := r.(*Set)
		return ok && l.Equal(rs)
	}
	if ll, ok := asList(l); ok {
		rl, ok := asList(r)
		return ok && equalElems(ll, rl)
	}

	if l == nil || r == nil {
		return l == nil && r == nil
	}
	lt, rt := reflect.TypeOf(l), reflect.TypeOf(r)
	if lt == rt && lt.Comparable() {
		return comparableEqual(l, r)
	}
	if lt.Kind() == reflect.String && rt.Kind() == reflect.String {
		return reflect.ValueOf(l).String() == reflect.ValueOf(r).String()
	}
	return reflect.DeepEqual(l, r)
}

func equalElems(l, r []any) bool {
	if len(l) != len(r) {
		return false
	}
	for i := range l {
		if !Equal(l[i], r[i]) {
			return false
		}
	}
	return true
}

func order(l, r any) (int, error) {
	if li, ri, lf, rf, ints, ok := numbers(l, r); ok {
		if ints {
			return li.Cmp(ri), nil
		}
		return cmp3(lf < rf, lf > rf), nil
	}
	if ls, ok := l.(string); ok {
		if rs, ok := r.(string); ok {
			return strings.Compare(ls, rs), nil
		}
	}
	if lt, ok := l.(Tuple); ok {
		if rt, ok := r.(Tuple); ok {
			return orderElems(lt, rt)
		}
	}
	if ll, ok := asList(l); ok {
		if rl, ok := asList(r); ok {
			return orderElems(ll, rl)
		}
	}
	return 0, unsupported("ordering", l, r)
}

func orderElems(l, r []any) (int, error) {
	for i := 0; i < len(l) && i < len(r); i++ {
		if Equal(l[i], r[i]) {
			continue
		}
		return order(l[i], r[i])
	}
	return cmp3(len(l) < len(r), len(l) > len(r)), nil
}

func cmp3(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	}
	return 0
}

// Contains reports whether item is an element of container.
func Contains(container, item any) (bool, error) {
	switch c := container.(type) {
	case string:
		s, ok := item.(string)
		if !ok {
			return false, fmt.Errorf("%w: 'in <string>' requires string as left operand, not %s", ErrUnsupported, typeName(item))
		}
		return strings.Contains(c, s), nil
	case Tuple:
		return containsElem(c, item), nil
	case *Set:
		return c.Has(item), nil
	}
	if elems, ok := asList(container); ok {
		return containsElem(elems, item), nil
	}
	if container != nil {
		rv := reflect.ValueOf(container)
		if rv.Kind() == reflect.Map {
			key, err := convertArg(item, rv.Type().Key())
			if err != nil {
				return false, nil
			}
			return rv.MapIndex(key).IsValid(), nil
		}
	}
	return false, fmt.Errorf("%w: argument of type %s is not a container", ErrUnsupported, typeName(container))
}

func containsElem(elems []any, item any) bool {
	for _, e := range elems {
		if Equal(e, item) {
			return true
		}
	}
	return false
}

// Identical is the identity test: same reference for reference types,
// same value for plain values.
func Identical(l, r any) bool {
	if isNil(l) || isNil(r) {
		return isNil(l) && isNil(r)
	}
	lt, rt := reflect.TypeOf(l), reflect.TypeOf(r)
	if lt != rt {
		return false
	}
	lv, rv := reflect.ValueOf(l), reflect.ValueOf(r)
	switch lt.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return lv.Pointer() == rv.Pointer()
	case reflect.Slice:
		return lv.Pointer() == rv.Pointer() && lv.Len() == rv.Len()
	}
	if lt.Comparable() {
		return comparableEqual(l, r)
	}
	return false
}

// comparableEqual falls back to deep equality when a comparable type holds
// an incomparable dynamic value, which makes == panic.
func comparableEqual(l, r any) (ret bool) {
	defer func() {
		if p := recover(); p != nil {
			ret = reflect.DeepEqual(l, r)
		}
	}()
	return l == r
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
