package replay

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"
)

func binary(op BinaryOp, l, r any) (any, error) {
	switch op {

	case BinaryDivide:
		return nil, ErrClassicDivision

	case BinaryAdd:
		if li, ri, lf, rf, ints, ok := numbers(l, r); ok {
			if ints {
				return normalize(new(big.Int).Add(li, ri)), nil
			}
			return lf + rf, nil
		}
		if ls, ok := l.(string); ok {
			if rs, ok := r.(string); ok {
				return ls + rs, nil
			}
		}
		if lt, ok := l.(Tuple); ok {
			if rt, ok := r.(Tuple); ok {
				return append(append(Tuple{}, lt...), rt...), nil
			}
		}
		if ll, ok := asList(l); ok {
			if rl, ok := asList(r); ok {
				return append(append([]any{}, ll...), rl...), nil
			}
		}

	case BinarySubtract:
		if li, ri, lf, rf, ints, ok := numbers(l, r); ok {
			if ints {
				return normalize(new(big.Int).Sub(li, ri)), nil
			}
			return lf - rf, nil
		}
		if ls, ok := l.(*Set); ok {
			if rs, ok := r.(*Set); ok {
				return ls.Difference(rs), nil
			}
		}

	case BinaryMultiply:
		if li, ri, lf, rf, ints, ok := numbers(l, r); ok {
			if ints {
				return normalize(new(big.Int).Mul(li, ri)), nil
			}
			return lf * rf, nil
		}
		if n, ok := ToInt64(r); ok {
			return repeat(l, n)
		}
		if n, ok := ToInt64(l); ok {
			return repeat(r, n)
		}

	case BinaryTrueDivide:
		if lf, ok1 := ToFloat64(l); ok1 {
			if rf, ok2 := ToFloat64(r); ok2 {
				if rf == 0 {
					return nil, ErrZeroDivision
				}
				return lf / rf, nil
			}
		}

	case BinaryFloorDivide:
		if li, ri, lf, rf, ints, ok := numbers(l, r); ok {
			if ints {
				if ri.Sign() == 0 {
					return nil, ErrZeroDivision
				}
				q, _ := floorDivMod(li, ri)
				return normalize(q), nil
			}
			if rf == 0 {
				return nil, ErrZeroDivision
			}
			return math.Floor(lf / rf), nil
		}

	case BinaryModulo:
		if li, ri, lf, rf, ints, ok := numbers(l, r); ok {
			if ints {
				if ri.Sign() == 0 {
					return nil, ErrZeroDivision
				}
				_, m := floorDivMod(li, ri)
				return normalize(m), nil
			}
			if rf == 0 {
				return nil, ErrZeroDivision
			}
			return floatMod(lf, rf), nil
		}

	case BinaryPower:
		if li, ri, lf, rf, ints, ok := numbers(l, r); ok {
			if ints {
				if ri.Sign() >= 0 {
					ret, err := intPow(li, ri)
					if err != nil {
						return nil, err
					}
					return normalize(ret), nil
				}
				lf, _ := ToFloat64(li)
				rf, _ := ToFloat64(ri)
				return math.Pow(lf, rf), nil
			}
			return math.Pow(lf, rf), nil
		}

	case BinarySubscript:
		return subscript(l, r)

	case BinaryLshift, BinaryRshift:
		li, ok1 := toBig(l)
		ri, ok2 := toBig(r)
		if ok1 && ok2 {
			ret, err := shift(op == BinaryLshift, li, ri)
			if err != nil {
				return nil, err
			}
			return normalize(ret), nil
		}

	case BinaryAnd, BinaryXor, BinaryOr:
		if lb, ok := l.(bool); ok {
			if rb, ok := r.(bool); ok {
				switch op {
				case BinaryAnd:
					return lb && rb, nil
				case BinaryXor:
					return lb != rb, nil
				default:
					return lb || rb, nil
				}
			}
		}
		li, ok1 := toBig(l)
		ri, ok2 := toBig(r)
		if ok1 && ok2 {
			ret := new(big.Int)
			switch op {
			case BinaryAnd:
				ret.And(li, ri)
			case BinaryXor:
				ret.Xor(li, ri)
			default:
				ret.Or(li, ri)
			}
			return normalize(ret), nil
		}
		if ls, ok := l.(*Set); ok {
			if rs, ok := r.(*Set); ok {
				switch op {
				case BinaryAnd:
					return ls.Intersect(rs), nil
				case BinaryXor:
					return ls.SymmetricDifference(rs), nil
				default:
					return ls.Union(rs), nil
				}
			}
		}

	default:
		return nil, fmt.Errorf("%w: unknown binary operator %d", ErrIntegration, op)
	}

	return nil, unsupported(op.Symbol(), l, r)
}

// maxRepeatLen bounds the length of a repeated sequence.
const maxRepeatLen = 1 << 26

func repeatLen(length int, n int64) (int, error) {
	if length > 0 && n > maxRepeatLen/int64(length) {
		return 0, fmt.Errorf("%w: repeat count too large: %d", ErrUnsupported, n)
	}
	return length * int(n), nil
}

func repeat(v any, n int64) (any, error) {
	if n < 0 {
		n = 0
	}
	switch v := v.(type) {
	case string:
		if _, err := repeatLen(len(v), n); err != nil {
			return nil, err
		}
		return strings.Repeat(v, int(n)), nil
	case Tuple:
		size, err := repeatLen(len(v), n)
		if err != nil {
			return nil, err
		}
		ret := make(Tuple, 0, size)
		for range n {
			ret = append(ret, v...)
		}
		return ret, nil
	}
	if elems, ok := asList(v); ok {
		size, err := repeatLen(len(elems), n)
		if err != nil {
			return nil, err
		}
		ret := make([]any, 0, size)
		for range n {
			ret = append(ret, elems...)
		}
		return ret, nil
	}
	return nil, unsupported("*", v, n)
}

func subscript(container, key any) (any, error) {
	switch c := container.(type) {
	case string:
		runes := []rune(c)
		i, err := index(key, len(runes))
		if err != nil {
			return nil, err
		}
		return string(runes[i]), nil
	case Tuple:
		i, err := index(key, len(c))
		if err != nil {
			return nil, err
		}
		return c[i], nil
	}
	if elems, ok := asList(container); ok {
		i, err := index(key, len(elems))
		if err != nil {
			return nil, err
		}
		return elems[i], nil
	}
	if container != nil {
		rv := reflect.ValueOf(container)
		if rv.Kind() == reflect.Map {
			k, err := convertArg(key, rv.Type().Key())
			if err != nil {
				return nil, fmt.Errorf("key %s: %w", Repr(key), err)
			}
			val := rv.MapIndex(k)
			if !val.IsValid() {
				return nil, fmt.Errorf("key not found: %s", quoted(key))
			}
			return val.Interface(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s is not subscriptable", ErrUnsupported, typeName(container))
}

func index(key any, length int) (int, error) {
	i, ok := ToInt64(key)
	if !ok {
		return 0, fmt.Errorf("%w: indices must be integers, not %s", ErrUnsupported, typeName(key))
	}
	if i < 0 {
		i += int64(length)
	}
	if i < 0 || i >= int64(length) {
		return 0, fmt.Errorf("index out of range: %v", key)
	}
	return int(i), nil
}
