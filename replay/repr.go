package replay

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Repr formats a runtime value for failure reports. Top level strings are
// printed bare, strings nested in collections are quoted.
func Repr(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return quoted(v)
}

func quoted(v any) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case string:
		return quoteString(v)
	case float32:
		return formatFloat(float64(v))
	case float64:
		return formatFloat(v)
	case Tuple:
		if len(v) == 1 {
			return "(" + quoted(v[0]) + ",)"
		}
		return "(" + joinRepr(v) + ")"
	case *Set:
		if v.Len() == 0 {
			return "set()"
		}
		elems := make([]string, 0, v.Len())
		for _, e := range v.Elems() {
			elems = append(elems, quoted(e))
		}
		slices.Sort(elems)
		return "{" + strings.Join(elems, ", ") + "}"
	case []any:
		return "[" + joinRepr(v) + "]"
	case []byte:
		return "b" + quoteString(string(v))
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float())
	case reflect.String:
		return quoteString(rv.String())
	case reflect.Bool:
		return quoted(rv.Bool())
	case reflect.Slice, reflect.Array:
		elems := make([]any, rv.Len())
		for i := range elems {
			elems[i] = rv.Index(i).Interface()
		}
		return "[" + joinRepr(elems) + "]"
	case reflect.Map:
		entries := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			entries = append(entries, quoted(iter.Key().Interface())+": "+quoted(iter.Value().Interface()))
		}
		slices.Sort(entries)
		return "{" + strings.Join(entries, ", ") + "}"
	case reflect.Func:
		return "<func " + rv.Type().String() + ">"
	}
	return fmt.Sprintf("%v", v)
}

func joinRepr(elems []any) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = quoted(e)
	}
	return strings.Join(parts, ", ")
}

func quoteString(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + strings.ReplaceAll(s, `\`, `\\`) + "'"
	}
	return strconv.Quote(s)
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	format := byte('g')
	if abs := math.Abs(f); abs == 0 || abs >= 1e-4 && abs < 1e16 {
		format = 'f'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "None"
	case Tuple:
		return "tuple"
	case *Set:
		return "set"
	case []any:
		return "list"
	}
	return reflect.TypeOf(v).String()
}
