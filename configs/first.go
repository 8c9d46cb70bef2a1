package configs

import "fmt"

// First decodes the value at path from the first file that defines it. A
// missing value is the zero value. Decode errors panic.
func First[T any](loader Loader, path string) T {
	for value, err := range All[T](loader, path) {
		if err != nil {
			panic(fmt.Errorf("config %s: %w", path, err))
		}
		return value
	}
	var zero T
	return zero
}
