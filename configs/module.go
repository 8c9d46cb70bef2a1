package configs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/dscope"
	"github.com/reusee/plaintest/cmds"
	"github.com/reusee/plaintest/logs"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}

//go:embed schema.cue
var Schema string

var (
	configPaths    = cmds.Collect[string]("config", "load a cue config file")
	noConfigSearch = cmds.Switch("-no-config")
)

// Filenames are searched in the working directory then the user config dir.
var Filenames = []string{
	"plaintest.cue",
	".plaintest.cue",
}

func (Module) Loader(
	logger logs.Logger,
) Loader {
	var paths []string
	defer func() {
		if len(paths) > 0 {
			logger.Info("config file",
				"paths", paths,
			)
		}
	}()

	// explicit
	paths = append(paths, *configPaths...)
	if *noConfigSearch {
		return NewLoader(paths, Schema)
	}

	// working directory
	workingDir, err := os.Getwd()
	if err == nil {
		for _, filename := range Filenames {
			path := filepath.Join(workingDir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}

	// user config dir
	configDir, err := os.UserConfigDir()
	if err == nil {
		for _, filename := range Filenames {
			path := filepath.Join(configDir, "plaintest", filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}

	return NewLoader(paths, Schema)
}
