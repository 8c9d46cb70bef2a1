package logs

import (
	"fmt"
	"io"
	"os"

	"github.com/reusee/plaintest/cmds"
)

var logFile = cmds.Var[string]("log-file", "append logs to a file instead of stderr")

// Writer receives text logs. Reports never go here.
type Writer io.Writer

func (Module) Writer() Writer {
	if *logFile == "" {
		return os.Stderr
	}
	f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		panic(fmt.Errorf("open log file: %w", err))
	}
	return f
}
