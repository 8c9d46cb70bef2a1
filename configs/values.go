package configs

import (
	"errors"
	"sync"

	"github.com/reusee/plaintest/cmds"
	"github.com/reusee/plaintest/vars"
)

var (
	runsFlag    = cmds.Var[int]("runs", "run each case n times")
	reportFlag  = cmds.Var[string]("report", "write a yaml report")
	historyFlag = cmds.Var[string]("history", "record runs in a sqlite database")
	colorFlag   = cmds.Switch("-color")
	noColorFlag = cmds.Switch("-no-color")
	tapFlag     = cmds.Switch("tap", "open a starlark repl on failures")
)

// Runs is how many times each case runs in one invocation.
type Runs int

func (Module) Runs(
	loader Loader,
) Runs {
	return Runs(max(1, vars.FirstNonZero(
		*runsFlag,
		First[int](loader, "runs"),
	)))
}

// ReportPath is the yaml report destination. Empty disables the report.
type ReportPath string

func (Module) ReportPath(
	loader Loader,
) ReportPath {
	return ReportPath(vars.FirstNonZero(
		*reportFlag,
		First[string](loader, "report"),
	))
}

// HistoryPath is the sqlite history database. Empty disables history.
type HistoryPath string

func (Module) HistoryPath(
	loader Loader,
) HistoryPath {
	return HistoryPath(vars.FirstNonZero(
		*historyFlag,
		First[string](loader, "history"),
	))
}

type Color int

const (
	ColorAuto Color = iota
	ColorAlways
	ColorNever
)

func (Module) Color(
	loader Loader,
) Color {
	switch {
	case *noColorFlag:
		return ColorNever
	case *colorFlag:
		return ColorAlways
	}
	var color bool
	if err := loader.AssignFirst("color", &color); err != nil {
		if errors.Is(err, ErrValueNotFound) {
			return ColorAuto
		}
		panic(err)
	}
	if color {
		return ColorAlways
	}
	return ColorNever
}

// Tap enables the interactive REPL on failing methods.
type Tap bool

func (Module) Tap(
	loader Loader,
) Tap {
	return Tap(*tapFlag || First[bool](loader, "tap"))
}

type SuiteDef struct {
	Name string `json:"name"`
	// Subject is a starlark file whose public functions are the routines
	// under test.
	Subject string `json:"subject"`
	// Tests is a starlark file of test functions.
	Tests  string   `json:"tests"`
	Ignore []string `json:"ignore"`
}

type GetSuiteDefs func() ([]SuiteDef, error)

func (Module) GetSuiteDefs(
	loader Loader,
) GetSuiteDefs {
	return sync.OnceValues(func() (ret []SuiteDef, err error) {
		seen := make(map[string]bool)
		for defs, err := range All[[]SuiteDef](loader, "suites") {
			if err != nil {
				return nil, err
			}
			for _, def := range defs {
				// earlier files win
				if seen[def.Name] {
					continue
				}
				seen[def.Name] = true
				ret = append(ret, def)
			}
		}
		return
	})
}
