package checks

var verbs = map[string]string{
	"==":     "was not equal to",
	"!=":     "was equal to",
	">":      "was not greater than",
	">=":     "was not greater than or equal to",
	"<":      "was not less than",
	"<=":     "was not less than or equal to",
	"in":     "was not contained in",
	"not in": "was contained in",
	"is":     "was not",
	"is not": "was",
}

// Verb returns the phrase describing a failed comparison. Unknown codes are
// returned as is.
func Verb(code string) string {
	if verb, ok := verbs[code]; ok {
		return verb
	}
	return code
}
