package cmds

import "strings"

// Var defines a word taking one argument and returns where the argument is
// stored. name followed by a dot resets the value.
func Var[T any](name string, desc ...string) *T {
	value := new(T)
	Define(name, Func(func(v T) {
		*value = v
	}).Desc(strings.Join(desc, " ")))
	Define(name+".", Func(func() {
		var zero T
		*value = zero
	}))
	return value
}

// Switch defines a word without arguments that sets the returned flag.
// "!name" clears it.
func Switch(name string, desc ...string) *bool {
	value := new(bool)
	Define(name, Func(func() {
		*value = true
	}).Desc(strings.Join(desc, " ")))
	Define("!"+name, Func(func() {
		*value = false
	}))
	return value
}

// Collect defines a repeatable word appending its argument to the returned
// slice.
func Collect[T any](name string, desc ...string) *[]T {
	value := new([]T)
	Define(name, Func(func(v T) {
		*value = append(*value, v)
	}).Desc(strings.Join(desc, " ")))
	return value
}
