package replay

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
)

// maxIntBits bounds integers built by shifts and powers.
const maxIntBits = 1 << 20

func ToInt64(v any) (int64, bool) {
	switch v := v.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case *big.Int:
		if v != nil && v.IsInt64() {
			return v.Int64(), true
		}
		return 0, false
	case bool, nil, float32, float64, string:
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	}
	return 0, false
}

// toBig returns integers of any Go type as a big.Int. The result must not be
// modified.
func toBig(v any) (*big.Int, bool) {
	switch v := v.(type) {
	case *big.Int:
		return v, v != nil
	case int64:
		return big.NewInt(v), true
	case int:
		return big.NewInt(int64(v)), true
	case bool, nil, float32, float64, string:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(rv.Uint()), true
	}
	return nil, false
}

// normalize returns int64 when b fits.
func normalize(b *big.Int) any {
	if b.IsInt64() {
		return b.Int64()
	}
	return b
}

func ToFloat64(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case bool, nil, string:
		return 0, false
	}
	if b, ok := toBig(v); ok {
		if b.IsInt64() {
			return float64(b.Int64()), true
		}
		f, _ := new(big.Float).SetInt(b).Float64()
		return f, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Float32 || rv.Kind() == reflect.Float64 {
		return rv.Float(), true
	}
	return 0, false
}

func isNumber(v any) bool {
	_, ok := ToFloat64(v)
	return ok
}

func isFloat(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Float32 || k == reflect.Float64
}

// numbers converts both operands to integers when both are integers, or to
// float64 otherwise. ok is false if either is not a number.
func numbers(l, r any) (li, ri *big.Int, lf, rf float64, ints, ok bool) {
	var ok1, ok2 bool
	if isFloat(l) || isFloat(r) {
		lf, ok1 = ToFloat64(l)
		rf, ok2 = ToFloat64(r)
		return nil, nil, lf, rf, false, ok1 && ok2
	}
	li, ok1 = toBig(l)
	ri, ok2 = toBig(r)
	return li, ri, 0, 0, true, ok1 && ok2
}

// floorDivMod rounds the quotient toward negative infinity. b must not be
// zero.
func floorDivMod(a, b *big.Int) (q, m *big.Int) {
	q, m = new(big.Int).QuoRem(a, b, new(big.Int))
	if m.Sign() != 0 && (m.Sign() < 0) != (b.Sign() < 0) {
		q.Sub(q, big.NewInt(1))
		m.Add(m, b)
	}
	return
}

func floatMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

var errIntTooLarge = fmt.Errorf("%w: integer too large", ErrUnsupported)

func intPow(base, exp *big.Int) (*big.Int, error) {
	if base.CmpAbs(big.NewInt(1)) > 0 {
		if !exp.IsInt64() || exp.Int64() > maxIntBits ||
			int64(base.BitLen()-1)*exp.Int64() > maxIntBits {
			return nil, errIntTooLarge
		}
	}
	return new(big.Int).Exp(base, exp, nil), nil
}

func shift(lshift bool, l, r *big.Int) (*big.Int, error) {
	if r.Sign() < 0 {
		return nil, fmt.Errorf("negative shift count: %s", r)
	}
	if lshift {
		if l.Sign() == 0 {
			return new(big.Int), nil
		}
		if !r.IsInt64() || r.Int64() > maxIntBits ||
			int64(l.BitLen())+r.Int64() > maxIntBits {
			return nil, errIntTooLarge
		}
		return new(big.Int).Lsh(l, uint(r.Int64())), nil
	}
	n := uint(l.BitLen() + 1)
	if r.IsInt64() && r.Int64() < int64(n) {
		n = uint(r.Int64())
	}
	return new(big.Int).Rsh(l, n), nil
}
