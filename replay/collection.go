package replay

import (
	"math"
	"math/big"
	"reflect"
)

type Tuple []any

// Set keeps its elements in insertion order. Numbers are keyed by value, so
// 1, int64(1) and 1.0 are the same element.
type Set struct {
	elems []any
	index map[any]int
}

func NewSet(elems ...any) *Set {
	s := &Set{
		index: make(map[any]int, len(elems)),
	}
	for _, e := range elems {
		s.Add(e)
	}
	return s
}

func (s *Set) Add(v any) bool {
	key := setKey(v)
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = len(s.elems)
	s.elems = append(s.elems, v)
	return true
}

func (s *Set) Has(v any) bool {
	_, ok := s.index[setKey(v)]
	return ok
}

func (s *Set) Len() int {
	return len(s.elems)
}

func (s *Set) Elems() []any {
	return s.elems
}

func (s *Set) Equal(o *Set) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, e := range s.elems {
		if !o.Has(e) {
			return false
		}
	}
	return true
}

func (s *Set) Union(o *Set) *Set {
	ret := NewSet(s.elems...)
	for _, e := range o.elems {
		ret.Add(e)
	}
	return ret
}

func (s *Set) Intersect(o *Set) *Set {
	ret := NewSet()
	for _, e := range s.elems {
		if o.Has(e) {
			ret.Add(e)
		}
	}
	return ret
}

func (s *Set) Difference(o *Set) *Set {
	ret := NewSet()
	for _, e := range s.elems {
		if !o.Has(e) {
			ret.Add(e)
		}
	}
	return ret
}

func (s *Set) SymmetricDifference(o *Set) *Set {
	return s.Difference(o).Union(o.Difference(s))
}

type reprKey string

// bigKey keys integers outside int64 by their decimal form.
type bigKey string

func setKey(v any) any {
	if b, ok := toBig(v); ok {
		if b.IsInt64() {
			return b.Int64()
		}
		return bigKey(b.String())
	}
	if f, ok := ToFloat64(v); ok {
		if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
			return f
		}
		b, _ := new(big.Float).SetFloat64(f).Int(nil)
		return setKey(b)
	}
	if v == nil {
		return v
	}
	if reflect.TypeOf(v).Comparable() && hashable(v) {
		return v
	}
	return reprKey(quoted(v))
}

// hashable reports whether v can be a map key. Comparable types holding
// incomparable dynamic values, like interface fields set to slices, cannot.
func hashable(v any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	m := map[any]struct{}{v: {}}
	return len(m) == 1
}

// asList returns the elements of list-like values: []any and any other
// slice or array except tuples and byte slices.
func asList(v any) ([]any, bool) {
	switch v := v.(type) {
	case []any:
		return v, true
	case Tuple, []byte, string, nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		ret := make([]any, rv.Len())
		for i := range ret {
			ret[i] = rv.Index(i).Interface()
		}
		return ret, true
	}
	return nil, false
}

func AsList(v any) ([]any, bool) {
	return asList(v)
}

// Elems returns the elements of lists, tuples and sets.
func Elems(v any) ([]any, bool) {
	return asSequence(v)
}
