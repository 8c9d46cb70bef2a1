package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/plaintest/cmds"
	"github.com/reusee/plaintest/configs"
	"github.com/reusee/plaintest/history"
	"github.com/reusee/plaintest/logs"
	"github.com/reusee/plaintest/reports"
	"github.com/reusee/plaintest/suites"
)

var (
	files []string

	flakyFlag = cmds.Var[string]("flaky", "list flaky methods of a case from history")
)

func init() {
	cmds.Args(func(arg string) error {
		files = append(files, arg)
		return nil
	})
}

func main() {
	if err := cmds.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
	ctx := context.Background()

	scope := dscope.New(
		new(Module),
	)

	if *flakyFlag != "" {
		scope.Call(func(
			flaky history.Flaky,
		) {
			methods, err := flaky(ctx, *flakyFlag)
			ce(err)
			for _, method := range methods {
				fmt.Println(method)
			}
		})
		return
	}

	var failCount int
	scope.Call(func(
		getSuiteDefs configs.GetSuiteDefs,
		loadRegistry LoadRegistry,
		runSuites suites.Main,
		runs configs.Runs,
		saveReport reports.Save,
		saveHistory history.Save,
		logger logs.Logger,
	) {
		var defs []configs.SuiteDef
		if len(files) > 0 {
			for _, file := range files {
				defs = append(defs, DefFromFile(file))
			}
		} else {
			var err error
			defs, err = getSuiteDefs()
			ce(err)
		}

		registry, err := loadRegistry(defs)
		ce(err)

		started := time.Now()
		failCount, err = runSuites(ctx, registry, int(runs))
		ce(err)

		ce(saveReport(ctx, registry))
		ce(saveHistory(ctx, started, registry))

		logger.Info("done",
			"cases", len(registry.Names()),
			"failed", failCount,
			"duration", time.Since(started),
		)
	})

	os.Exit(failCount)
}
