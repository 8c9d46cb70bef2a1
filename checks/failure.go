package checks

import (
	"fmt"
	"strings"
)

// Failure is one comparison that evaluated false.
type Failure struct {
	File  string
	Line  int
	Left  string
	Verb  string
	Right string
	Note  string
}

// String is the report block of the failure. Identical failures across runs
// render identically.
func (f Failure) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d --\n", f.File, f.Line)
	fmt.Fprintf(&b, "\t%s\n", f.Left)
	fmt.Fprintf(&b, "\t  %s\n", f.Verb)
	fmt.Fprintf(&b, "\t%s\n", f.Right)
	if f.Note != "" {
		fmt.Fprintf(&b, "\t(%s)\n", f.Note)
	}
	return b.String()
}

// Summary is the failure on one line.
func (f Failure) Summary() string {
	return f.Left + " " + f.Verb + " " + f.Right
}

// ErrorAt renders a runtime error that aborted a method.
func ErrorAt(file string, line int, err error) string {
	return fmt.Sprintf("%s:%d --\n\t%v\n", file, line, err)
}
