package suites

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

var stars = strings.Repeat("*", 20)

// Print writes the results of every run. Failures already reported for the
// same method in an earlier run are only counted.
func (c *Case) Print(w io.Writer, color bool) {
	for r, run := range c.Runs {
		if len(c.Runs) > 1 {
			fmt.Fprintf(w, "Run %d / %d\n", r+1, len(c.Runs))
		}

		names := make([]string, 0, len(run))
		for name := range run {
			names = append(names, name)
		}
		slices.Sort(names)

		for _, name := range names {
			result := run[name]
			fmt.Fprintf(w, "%s %s (%d/%d OK) %s\n\n",
				name,
				verdict(len(result.Failures) > 0, color),
				result.Passed,
				result.Checks,
				stars,
			)
			if len(result.Failures) == 0 {
				continue
			}

			unique, repeated := c.partition(r, name, result.Failures)
			if repeated > 0 {
				fmt.Fprintf(w, "  %d previous errors were repeated\n\n", repeated)
			}
			for _, failure := range unique {
				fmt.Fprintf(w, "  %s\n", failure)
			}
		}
	}
}

// partition splits the failures of run r into those not seen in earlier
// runs and the count of repeated ones.
func (c *Case) partition(r int, name string, failures []string) (unique []string, repeated int) {
	seen := make(map[string]bool)
	for _, prev := range c.Runs[:r] {
		for _, failure := range prev[name].Failures {
			seen[failure] = true
		}
	}
	for _, failure := range failures {
		if seen[failure] {
			repeated++
			continue
		}
		unique = append(unique, failure)
	}
	return
}

// Repeated returns the number of failures of run r that were seen in an
// earlier run, per method.
func (c *Case) Repeated(r int) map[string]int {
	ret := make(map[string]int)
	for name, result := range c.Runs[r] {
		if _, n := c.partition(r, name, result.Failures); n > 0 {
			ret[name] = n
		}
	}
	return ret
}

func verdict(failed bool, color bool) string {
	if failed {
		return paint("FAILED", red, color)
	}
	return paint("PASSED", green, color)
}
