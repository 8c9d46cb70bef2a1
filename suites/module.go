package suites

import (
	"io"
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/plaintest/configs"
	"github.com/reusee/plaintest/logs"
)

type Module struct {
	dscope.Module
	Logs    logs.Module
	Configs configs.Module
}

// Output receives reports.
type Output io.Writer

func (Module) Output() Output {
	return os.Stdout
}
