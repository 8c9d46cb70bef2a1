package suites

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/reusee/plaintest/configs"
)

const (
	red   = "\x1b[31m"
	green = "\x1b[32m"
	reset = "\x1b[0m"
)

func paint(str string, code string, color bool) string {
	if !color {
		return str
	}
	return code + str + reset
}

// Colorize reports whether the report is colored.
type Colorize bool

func (Module) Colorize(
	color configs.Color,
	output Output,
) Colorize {
	switch color {
	case configs.ColorAlways:
		return true
	case configs.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := output.(*os.File)
	if !ok {
		return false
	}
	return Colorize(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
