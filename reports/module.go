package reports

import (
	"context"
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/plaintest/configs"
	"github.com/reusee/plaintest/logs"
	"github.com/reusee/plaintest/suites"
)

type Module struct {
	dscope.Module
	Suites suites.Module
}

// Save writes the yaml report when a report path is configured.
type Save func(ctx context.Context, registry *suites.Registry) error

func (Module) Save(
	path configs.ReportPath,
	runID suites.RunID,
	logger logs.Logger,
) Save {
	return func(ctx context.Context, registry *suites.Registry) error {
		if path == "" {
			return nil
		}
		report := Build(registry, string(runID), time.Now())
		if err := Write(report, string(path)); err != nil {
			return err
		}
		logger.InfoContext(ctx, "report written",
			"path", path,
			"cases", len(report.Cases),
		)
		return nil
	}
}
