package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reusee/plaintest/configs"
	"github.com/reusee/plaintest/debugs"
	"github.com/reusee/plaintest/logs"
	"github.com/reusee/plaintest/starcode"
	"github.com/reusee/plaintest/subjects"
	"github.com/reusee/plaintest/suites"
)

const testSuffix = "_test.star"

// DefFromFile derives a suite from a test file path. foo_test.star tests
// foo.star in the same directory when that file exists.
func DefFromFile(path string) configs.SuiteDef {
	base := filepath.Base(path)
	def := configs.SuiteDef{
		Name:  strings.TrimSuffix(base, filepath.Ext(base)),
		Tests: path,
	}
	if strings.HasSuffix(base, testSuffix) {
		subject := filepath.Join(filepath.Dir(path), strings.TrimSuffix(base, testSuffix)+".star")
		if _, err := os.Stat(subject); err == nil {
			def.Subject = subject
		}
	}
	return def
}

// LoadRegistry compiles and defines a case for each suite.
type LoadRegistry func(defs []configs.SuiteDef) (*suites.Registry, error)

func (Module) LoadRegistry(
	load subjects.Load,
	define suites.Define,
	tap debugs.Tap,
	logger logs.Logger,
) LoadRegistry {
	return func(defs []configs.SuiteDef) (*suites.Registry, error) {
		if len(defs) == 0 {
			return nil, errors.New("no suites")
		}
		registry := suites.NewRegistry()
		for _, def := range defs {
			caseDef := suites.CaseDef{
				Name:   def.Name,
				Ignore: def.Ignore,
			}

			globals := starcode.Globals()
			if def.Subject != "" {
				subject, err := load(def.Subject)
				if err != nil {
					return nil, err
				}
				caseDef.Subject = subject
				caseDef.SubjectName = subject.Name
				globals = starcode.Globals(subject.Globals())
			}

			unit, err := starcode.Compile(def.Tests, nil, globals)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", def.Name, err)
			}
			caseDef.Methods = unit.Functions

			name := def.Name
			caseDef.OnFailure = func(ctx context.Context, method string, symbols map[string]any) {
				tap(ctx, name+"."+method, symbols)
			}

			c, err := define(caseDef)
			if err != nil {
				return nil, err
			}
			if err := registry.Register(c); err != nil {
				return nil, err
			}
			logger.Debug("suite loaded",
				"suite", def.Name,
				"tests", def.Tests,
				"subject", def.Subject,
			)
		}
		return registry, nil
	}
}
