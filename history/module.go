package history

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

// Save appends the runs of registry to the history database when a history
// path is configured.
type Save func(ctx context.Context, started time.Time, registry *suites.Registry) error

func (Module) Save(
	path configs.HistoryPath,
	runID suites.RunID,
	logger logs.Logger,
) Save {
	return func(ctx context.Context, started time.Time, registry *suites.Registry) error {
		if path == "" {
			return nil
		}
		h, err := Open(string(path))
		if err != nil {
			return err
		}
		defer h.Close()

		if err := h.Record(ctx, string(runID), started, registry); err != nil {
			return err
		}
		for c := range registry.Cases {
			flaky, err := h.Flaky(ctx, c.Name)
			if err != nil {
				return err
			}
			if len(flaky) > 0 {
				logger.WarnContext(ctx, "flaky methods",
					"case", c.Name,
					"methods", flaky,
				)
			}
		}
		logger.InfoContext(ctx, "history recorded",
			"path", path,
			"run_id", runID,
		)
		return nil
	}
}

// Flaky opens the configured history and lists the flaky methods of a case.
type Flaky func(ctx context.Context, suite string) ([]string, error)

func (Module) Flaky(
	path configs.HistoryPath,
) Flaky {
	return func(ctx context.Context, suite string) ([]string, error) {
		if path == "" {
			return nil, nil
		}
		h, err := Open(string(path))
		if err != nil {
			return nil, err
		}
		defer h.Close()
		return h.Flaky(ctx, suite)
	}
}
