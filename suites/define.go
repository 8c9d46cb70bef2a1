package suites

import (
	"fmt"

	"github.com/reusee/plaintest/logs"
)

// Define builds a case and prints its discovery warnings once.
type Define func(def CaseDef) (*Case, error)

func (Module) Define(
	logger logs.Logger,
	output Output,
) Define {
	return func(def CaseDef) (*Case, error) {
		c, err := NewCase(def)
		if err != nil {
			return nil, err
		}

		subjectName := def.SubjectName
		if subjectName == "" && def.Subject != nil {
			subjectName = fmt.Sprintf("%T", def.Subject)
		}
		warnings := c.Registration.Warnings(subjectName)
		if len(warnings) > 0 {
			fmt.Fprintf(output, "Meta Failures for `%s` %s\n", c.Name, stars)
			for _, warning := range warnings {
				fmt.Fprintf(output, "  %s\n", warning)
			}
			logger.Warn("case discovery",
				"case", c.Name,
				"untested", c.Registration.UntestedRoutines,
				"extra", c.Registration.ExtraMethods,
			)
		}

		logger.Info("case defined",
			"case", c.Name,
			"tests", c.Registration.Tests,
		)
		return c, nil
	}
}
