package checks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reusee/plaintest/replay"
)

const NoteListOrder = "lists were equal when order was ignored"

// Runner replays a function and records every false comparison instead of
// stopping at it.
type Runner struct {
	VM       *replay.VM
	Checks   int
	Failures []Failure
	file     string
}

func NewRunner(code *replay.Code, options replay.Options) (*Runner, error) {
	vm, err := replay.NewVM(code, options)
	if err != nil {
		return nil, err
	}
	return &Runner{
		VM:   vm,
		file: relPath(code.File),
	}, nil
}

// Run executes the function. Failed checks are collected in Failures; the
// returned error is the runtime error that aborted execution, if any.
func (r *Runner) Run() (any, error) {
	for inst, err := range r.VM.Run {
		if err != nil {
			if errors.Is(err, replay.ErrIntegration) {
				return nil, fmt.Errorf("%s:%d: %w", r.file, r.VM.Line, err)
			}
			return nil, &RuntimeError{
				File: r.file,
				Line: r.VM.Line,
				Err:  err,
			}
		}
		if inst.Op.IsCheck() {
			r.check()
		}
	}
	return r.VM.ReturnValue, nil
}

func (r *Runner) check() {
	r.Checks++
	top, _ := r.VM.Top()
	res, ok := top.(*replay.CallResult)
	if !ok || res.Val == true || len(res.Args) != 2 {
		return
	}
	var code string
	if c, ok := res.Action.(replay.Comparison); ok {
		code = c.Code
	}
	left, right := res.Args[0], res.Args[1]
	r.Failures = append(r.Failures, Failure{
		File:  r.file,
		Line:  r.VM.Line,
		Left:  left.String(),
		Verb:  Verb(code),
		Right: right.String(),
		Note:  note(left.Value(), right.Value()),
	})
}

func note(l, r any) string {
	ll, ok1 := replay.AsList(l)
	rl, ok2 := replay.AsList(r)
	if !ok1 || !ok2 {
		return ""
	}
	if replay.NewSet(ll...).Equal(replay.NewSet(rl...)) {
		return NoteListOrder
	}
	return ""
}

func relPath(file string) string {
	if !filepath.IsAbs(file) {
		return file
	}
	wd, err := os.Getwd()
	if err != nil {
		return file
	}
	rel, err := filepath.Rel(wd, file)
	if err != nil {
		return file
	}
	return rel
}

// RuntimeError is an error raised while replaying a method, located at the
// line being executed.
type RuntimeError struct {
	File string
	Line int
	Err  error
}

func (r *RuntimeError) Error() string {
	return fmt.Sprintf("%s:%d: %v", r.File, r.Line, r.Err)
}

func (r *RuntimeError) Unwrap() error {
	return r.Err
}

// Report renders the error the way failures are rendered.
func (r *RuntimeError) Report() string {
	return ErrorAt(r.File, r.Line, r.Err)
}
