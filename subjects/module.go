package subjects

import (
	"path/filepath"
	"strings"

	"github.com/reusee/dscope"
	"github.com/reusee/plaintest/logs"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}

// Load reads a subject file. The subject is named after the file.
type Load func(path string) (*Subject, error)

func (Module) Load(
	logger logs.Logger,
) Load {
	return func(path string) (*Subject, error) {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		subject, err := LoadSource(name, path, nil, func(msg string) {
			logger.Info("subject print",
				"subject", name,
				"msg", msg,
			)
		})
		if err != nil {
			return nil, err
		}
		logger.Debug("subject loaded",
			"subject", name,
			"routines", subject.Routines(),
		)
		return subject, nil
	}
}
