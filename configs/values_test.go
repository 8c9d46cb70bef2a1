package configs

import (
	"bytes"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/plaintest/logs"
)

func testScope(paths ...string) dscope.Scope {
	return dscope.New(new(Module)).Fork(
		func() logs.Writer {
			return new(bytes.Buffer)
		},
		func() Loader {
			return NewLoader(paths, Schema)
		},
	)
}

func TestValues(t *testing.T) {
	testScope("test.cue", "test2.cue").Call(func(
		runs Runs,
		report ReportPath,
		history HistoryPath,
		color Color,
		tap Tap,
	) {
		if runs != 3 {
			t.Fatalf("got %v", runs)
		}
		if report != "report.yaml" {
			t.Fatalf("got %v", report)
		}
		if history != "history.db" {
			t.Fatalf("got %v", history)
		}
		if color != ColorNever {
			t.Fatalf("got %v", color)
		}
		if tap {
			t.Fatal()
		}
	})
}

func TestDefaultValues(t *testing.T) {
	testScope().Call(func(
		runs Runs,
		report ReportPath,
		color Color,
	) {
		if runs != 1 {
			t.Fatalf("got %v", runs)
		}
		if report != "" {
			t.Fatalf("got %v", report)
		}
		if color != ColorAuto {
			t.Fatalf("got %v", color)
		}
	})
}

func TestSuiteDefs(t *testing.T) {
	testScope("test.cue", "test2.cue").Call(func(
		getDefs GetSuiteDefs,
	) {
		defs, err := getDefs()
		if err != nil {
			t.Fatal(err)
		}
		if len(defs) != 2 {
			t.Fatalf("got %+v", defs)
		}
		if defs[0].Name != "ExampleTest" ||
			defs[0].Subject != "example.star" ||
			defs[0].Tests != "example_test.star" ||
			len(defs[0].Ignore) != 1 {
			t.Fatalf("got %+v", defs[0])
		}
		if defs[1].Name != "MathTest" || defs[1].Subject != "" {
			t.Fatalf("got %+v", defs[1])
		}
	})
}
