package suites

import (
	"context"
	"fmt"
	"time"

	"github.com/reusee/plaintest/logs"
)

// Main runs every registered case runs times in name order and prints the
// reports. failCount is the number of cases that failed at least once.
type Main func(ctx context.Context, registry *Registry, runs int) (failCount int, err error)

func (Module) Main(
	logger logs.Logger,
	newSpan logs.NewSpan,
	output Output,
	colorize Colorize,
	runID RunID,
) Main {
	return func(ctx context.Context, registry *Registry, runs int) (failCount int, err error) {
		runs = max(1, runs)
		for c := range registry.Cases {
			ctx, _ := newSpan(ctx, c.Name)
			logger.InfoContext(ctx, "case start",
				"case", c.Name,
				"runs", runs,
				"run_id", runID,
			)
			begin := time.Now()

			for range runs {
				run, err := c.Run(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "case aborted",
						"case", c.Name,
						"error", err,
					)
					return failCount, logs.WrapSpan(ctx, fmt.Errorf("%s: %w", c.Name, err))
				}
				for name, result := range run {
					logger.DebugContext(ctx, "method result",
						"case", c.Name,
						"method", name,
						"checks", result.Checks,
						"failures", len(result.Failures),
					)
				}
			}

			fmt.Fprintf(output, "%s %s %s\n", c.Name, verdict(c.Failed(), bool(colorize)), stars)
			if c.Failed() {
				failCount++
			}
			c.Print(output, bool(colorize))

			logger.InfoContext(ctx, "case end",
				"case", c.Name,
				"failed", c.Failed(),
				"duration", time.Since(begin),
			)
		}
		return failCount, nil
	}
}
