package discovery

import (
	"reflect"
	"slices"
	"strings"
)

// DefaultRoutine is the routine tested when a case has no subject.
const DefaultRoutine = "test"

// Reserved names are lifecycle methods of a test case, never tests.
var Reserved = []string{
	"setup",
	"teardown",
	"run",
	"test",
	"print",
}

// RoutineLister lets a subject declare its routines without reflection.
type RoutineLister interface {
	Routines() []string
}

type Registration struct {
	Tests            []string
	UntestedRoutines []string
	ExtraMethods     []string
}

// Routines returns the public routine names of subject. A nil subject has
// the single routine DefaultRoutine. subject may be a value or a
// reflect.Type.
func Routines(subject any) []string {
	if subject == nil {
		return []string{DefaultRoutine}
	}
	if lister, ok := subject.(RoutineLister); ok {
		return publicNames(lister.Routines())
	}

	t, ok := subject.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(subject)
	}
	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface {
		t = reflect.PointerTo(t)
	}
	var names []string
	for i := range t.NumMethod() {
		names = append(names, t.Method(i).Name)
	}
	return publicNames(names)
}

// Discover matches test methods to routines by name prefix.
func Discover(routines []string, methods []string, ignore ...string) Registration {
	var reg Registration
	methods = publicNames(methods)

	tests := make(map[string]bool)
	for _, routine := range routines {
		matched := false
		for _, method := range methods {
			if isReserved(method, ignore) {
				continue
			}
			if strings.HasPrefix(method, routine) {
				tests[method] = true
				matched = true
			}
		}
		if !matched {
			reg.UntestedRoutines = append(reg.UntestedRoutines, routine)
		}
	}

	for _, method := range methods {
		if tests[method] {
			reg.Tests = append(reg.Tests, method)
		} else if !isReserved(method, ignore) {
			reg.ExtraMethods = append(reg.ExtraMethods, method)
		}
	}

	slices.Sort(reg.Tests)
	slices.Sort(reg.UntestedRoutines)
	slices.Sort(reg.ExtraMethods)
	return reg
}

// Warnings renders the non-fatal discovery findings.
func (r Registration) Warnings(subjectName string) []string {
	var ret []string
	if len(r.UntestedRoutines) > 0 {
		ret = append(ret, "Untested routines on `"+subjectName+"`:\n\t- "+
			strings.Join(r.UntestedRoutines, "\n\t- "))
	}
	if len(r.ExtraMethods) > 0 {
		ret = append(ret, "Extra test routines:\n\t- "+
			strings.Join(r.ExtraMethods, "\n\t- "))
	}
	return ret
}

func publicNames(names []string) []string {
	var ret []string
	for _, name := range names {
		if name == "" || strings.HasPrefix(name, "_") {
			continue
		}
		if !slices.Contains(ret, name) {
			ret = append(ret, name)
		}
	}
	return ret
}

func isReserved(name string, ignore []string) bool {
	for _, r := range Reserved {
		if strings.EqualFold(name, r) {
			return true
		}
	}
	for _, r := range ignore {
		if strings.EqualFold(name, r) {
			return true
		}
	}
	return false
}
