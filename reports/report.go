package reports

import (
	"slices"
	"time"

	"github.com/reusee/plaintest/suites"
)

// Report is the serialized outcome of one invocation.
type Report struct {
	RunID     string `yaml:"run_id"`
	Generated string `yaml:"generated"`
	Runs      int    `yaml:"runs"`
	Failed    int    `yaml:"failed"`
	Cases     []Case `yaml:"cases"`
}

type Case struct {
	Name             string   `yaml:"name"`
	Failed           bool     `yaml:"failed"`
	UntestedRoutines []string `yaml:"untested_routines,omitempty"`
	ExtraMethods     []string `yaml:"extra_methods,omitempty"`
	Runs             []Run    `yaml:"runs"`
}

type Run struct {
	Index   int      `yaml:"index"`
	Methods []Method `yaml:"methods"`
}

type Method struct {
	Name     string   `yaml:"name"`
	Checks   int      `yaml:"checks"`
	Passed   int      `yaml:"passed"`
	Repeated int      `yaml:"repeated,omitempty"`
	Failures []string `yaml:"failures,omitempty"`
}

// Build collects the runs of every registered case.
func Build(registry *suites.Registry, runID string, now time.Time) *Report {
	report := &Report{
		RunID:     runID,
		Generated: now.UTC().Format(time.RFC3339),
	}
	for c := range registry.Cases {
		item := Case{
			Name:             c.Name,
			Failed:           c.Failed(),
			UntestedRoutines: c.Registration.UntestedRoutines,
			ExtraMethods:     c.Registration.ExtraMethods,
		}
		if c.Failed() {
			report.Failed++
		}
		report.Runs = max(report.Runs, len(c.Runs))

		for r, run := range c.Runs {
			repeated := c.Repeated(r)
			names := make([]string, 0, len(run))
			for name := range run {
				names = append(names, name)
			}
			slices.Sort(names)

			reportRun := Run{
				Index: r + 1,
			}
			for _, name := range names {
				result := run[name]
				reportRun.Methods = append(reportRun.Methods, Method{
					Name:     name,
					Checks:   result.Checks,
					Passed:   result.Passed,
					Repeated: repeated[name],
					Failures: result.Failures,
				})
			}
			item.Runs = append(item.Runs, reportRun)
		}

		report.Cases = append(report.Cases, item)
	}
	return report
}
