package suites

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/reusee/plaintest/checks"
	"github.com/reusee/plaintest/discovery"
	"github.com/reusee/plaintest/replay"
)

type CaseDef struct {
	Name string
	// Subject provides the routines tests must cover: a discovery.RoutineLister,
	// any Go value, or a reflect.Type. Nil means the single routine "test".
	Subject     any
	SubjectName string
	Methods     []*replay.Code
	// Receiver is bound to self. Defaults to an empty attribute map.
	Receiver any
	Setup    func(ctx context.Context) error
	Teardown func(ctx context.Context) error
	// Ignore lists method names that are neither tests nor extra methods.
	Ignore []string
	// OnFailure receives the final symbols of a method that failed.
	OnFailure func(ctx context.Context, method string, symbols map[string]any)
}

type Case struct {
	Name         string
	Registration discovery.Registration
	Runs         []Run
	def          CaseDef
	methods      map[string]*replay.Code
	receiver     any
	failed       bool
}

func NewCase(def CaseDef) (*Case, error) {
	if def.Name == "" {
		return nil, errors.New("case without name")
	}
	methods := make(map[string]*replay.Code, len(def.Methods))
	var names []string
	for _, code := range def.Methods {
		if code == nil {
			return nil, fmt.Errorf("%s: nil method", def.Name)
		}
		if _, ok := methods[code.Name]; ok {
			return nil, fmt.Errorf("%s: duplicated method %s", def.Name, code.Name)
		}
		methods[code.Name] = code
		names = append(names, code.Name)
	}

	receiver := def.Receiver
	if receiver == nil {
		receiver = make(map[string]any)
	}

	return &Case{
		Name: def.Name,
		Registration: discovery.Discover(
			discovery.Routines(def.Subject),
			names,
			def.Ignore...,
		),
		def:      def,
		methods:  methods,
		receiver: receiver,
	}, nil
}

// Failed reports whether any method failed in any run so far.
func (c *Case) Failed() bool {
	return c.failed
}

// Run executes every test method once, in name order, and appends the
// results to Runs. Only integration errors are returned.
func (c *Case) Run(ctx context.Context) (Run, error) {
	run := make(Run)
	for _, name := range c.Registration.Tests {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := c.runMethod(ctx, name)
		if err != nil {
			return nil, err
		}
		if len(result.Failures) > 0 {
			c.failed = true
		}
		run[name] = result
	}
	c.Runs = append(c.Runs, run)
	return run, nil
}

func (c *Case) runMethod(ctx context.Context, name string) (result Result, err error) {
	fail := func(msg string) {
		result.Failures = append(result.Failures, msg)
	}

	defer func() {
		if e := c.teardown(ctx); e != nil {
			if errors.Is(e, replay.ErrIntegration) && err == nil {
				err = e
				return
			}
			fail(hookFailure("teardown", e))
		}
	}()

	if e := c.setup(ctx); e != nil {
		if errors.Is(e, replay.ErrIntegration) {
			return result, e
		}
		fail(hookFailure("setup", e))
		return result, nil
	}

	code := c.methods[name]
	runner, e := checks.NewRunner(code, c.options(code))
	if e != nil {
		fail(checks.ErrorAt(code.File, code.FirstLine, e))
		return result, nil
	}
	_, e = runner.Run()
	result.Checks = runner.Checks
	result.Passed = runner.Checks - len(runner.Failures)
	for _, failure := range runner.Failures {
		fail(failure.String())
	}
	if e != nil {
		var runtimeErr *checks.RuntimeError
		if !errors.As(e, &runtimeErr) {
			return result, e
		}
		fail(runtimeErr.Report())
	}

	if len(result.Failures) > 0 && c.def.OnFailure != nil {
		c.def.OnFailure(ctx, name, runner.VM.Symbols())
	}

	return result, nil
}

func (c *Case) options(code *replay.Code) replay.Options {
	if code.IsMethod() {
		return replay.Options{
			Receiver: c.receiver,
		}
	}
	return replay.Options{}
}

func (c *Case) setup(ctx context.Context) error {
	if c.def.Setup != nil {
		if err := c.def.Setup(ctx); err != nil {
			return err
		}
	}
	return c.lifecycle("setup")
}

func (c *Case) teardown(ctx context.Context) error {
	err := c.lifecycle("teardown")
	if c.def.Teardown != nil {
		err = errors.Join(err, c.def.Teardown(ctx))
	}
	return err
}

// lifecycle runs a source-defined setup or teardown method without check
// tracking.
func (c *Case) lifecycle(name string) error {
	code, ok := c.methods[name]
	if !ok {
		return nil
	}
	vm, err := replay.NewVM(code, c.options(code))
	if err != nil {
		return err
	}
	if _, err := vm.Exec(); err != nil {
		return fmt.Errorf("%s:%d: %w", code.File, vm.Line, err)
	}
	return nil
}

func hookFailure(hook string, err error) string {
	return fmt.Sprintf("%s --\n\t%v\n", hook, err)
}

// MethodNames returns the names of all methods of the case, tests or not.
func (c *Case) MethodNames() []string {
	ret := make([]string, 0, len(c.methods))
	for name := range c.methods {
		ret = append(ret, name)
	}
	slices.Sort(ret)
	return ret
}
