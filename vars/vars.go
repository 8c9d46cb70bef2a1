package vars

import "strings"

// FirstNonZero returns the first of values that is not the zero value. It
// orders command line words before config entries.
func FirstNonZero[T comparable](values ...T) T {
	var zero T
	for _, value := range values {
		if value != zero {
			return value
		}
	}
	return zero
}

// StrToBool parses command line and environment switches. Unknown words are
// false.
func StrToBool(str string) bool {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "true", "t", "yes", "y", "on", "1":
		return true
	}
	return false
}
