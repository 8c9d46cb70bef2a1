package debugs

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/reusee/plaintest/configs"
	"github.com/reusee/plaintest/logs"
	"github.com/reusee/plaintest/replay"
	"github.com/reusee/plaintest/subjects"
	"go.starlark.net/repl"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Tap opens an interactive starlark session over the symbols of a failed
// method. Without the tap switch it only logs them.
type Tap func(ctx context.Context, what string, symbols map[string]any)

func (Module) Tap(
	logger logs.Logger,
	enabled configs.Tap,
) Tap {
	return func(ctx context.Context, what string, symbols map[string]any) {
		names := slices.Sorted(maps.Keys(symbols))
		for _, name := range names {
			logger.DebugContext(ctx, "symbol",
				"what", what,
				"name", name,
				"value", replay.Repr(symbols[name]),
			)
		}
		if !enabled {
			return
		}

		logger.InfoContext(ctx, "tap: "+what,
			"symbols", names,
		)
		defer func() {
			logger.InfoContext(ctx, "tap end: "+what)
		}()

		globals, skipped := Globals(symbols)
		if len(skipped) > 0 {
			logger.WarnContext(ctx, "symbols not available in tap",
				"names", skipped,
			)
		}

		thread := &starlark.Thread{
			Name: "tap",
		}
		repl.REPLOptions(&syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
		}, thread, globals)
	}
}

// Globals converts symbols to starlark values. Names of values that have no
// starlark form are returned sorted.
func Globals(symbols map[string]any) (globals starlark.StringDict, skipped []string) {
	globals = make(starlark.StringDict, len(symbols))
	for name, value := range symbols {
		v, err := convert(value)
		if err != nil {
			skipped = append(skipped, name)
			continue
		}
		globals[name] = v
	}
	slices.Sort(skipped)
	return
}

func convert(value any) (ret starlark.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%v", p)
		}
	}()
	return subjects.ToStarlark(value), nil
}
