package replay

import (
	"reflect"
)

// AttrResolver lets a value expose attributes without reflection.
type AttrResolver interface {
	ResolveAttr(name string) (any, bool)
}

// MethodResolver lets a value expose callable members without reflection.
type MethodResolver interface {
	ResolveMethod(name string) (any, bool)
}

func GetAttr(v any, name string) (any, error) {
	if r, ok := v.(AttrResolver); ok {
		if ret, ok := r.ResolveAttr(name); ok {
			return ret, nil
		}
		return nil, &AttributeError{Type: typeName(v), Name: name}
	}
	if ret, ok := reflectMember(v, name, false); ok {
		return ret, nil
	}
	return nil, &AttributeError{Type: typeName(v), Name: name}
}

func GetMethod(v any, name string) (any, error) {
	if r, ok := v.(MethodResolver); ok {
		if ret, ok := r.ResolveMethod(name); ok {
			return ret, nil
		}
	}
	if ret, ok := reflectMember(v, name, true); ok {
		return ret, nil
	}
	return GetAttr(v, name)
}

func reflectMember(v any, name string, methodFirst bool) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)

	method := func() (any, bool) {
		m := rv.MethodByName(name)
		if m.IsValid() {
			return m.Interface(), true
		}
		if rv.Kind() == reflect.Struct {
			// pointer receiver methods on a copy
			ptr := reflect.New(rv.Type())
			ptr.Elem().Set(rv)
			if m := ptr.MethodByName(name); m.IsValid() {
				return m.Interface(), true
			}
		}
		return nil, false
	}

	if methodFirst {
		if ret, ok := method(); ok {
			return ret, true
		}
	}

	elem := rv
	for elem.Kind() == reflect.Pointer || elem.Kind() == reflect.Interface {
		if elem.IsNil() {
			return nil, false
		}
		elem = elem.Elem()
	}
	switch elem.Kind() {
	case reflect.Struct:
		field, ok := elem.Type().FieldByName(name)
		if ok && field.IsExported() {
			return elem.FieldByIndex(field.Index).Interface(), true
		}
	case reflect.Map:
		if elem.Type().Key().Kind() == reflect.String {
			val := elem.MapIndex(reflect.ValueOf(name).Convert(elem.Type().Key()))
			if val.IsValid() {
				return val.Interface(), true
			}
		}
	}

	if !methodFirst {
		return method()
	}
	return nil, false
}
