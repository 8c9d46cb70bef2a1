package starcode

import (
	"fmt"

	"github.com/reusee/plaintest/replay"
	"go.starlark.net/syntax"
)

var fileOptions = &syntax.FileOptions{
	Set:            true,
	GlobalReassign: true,
}

// Unit is a compiled test file.
type Unit struct {
	File      string
	Functions []*replay.Code
}

// Function returns the compiled function named name.
func (u *Unit) Function(name string) (*replay.Code, bool) {
	for _, fn := range u.Functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return nil, false
}

// Names returns the function names in source order.
func (u *Unit) Names() []string {
	ret := make([]string, 0, len(u.Functions))
	for _, fn := range u.Functions {
		ret = append(ret, fn.Name)
	}
	return ret
}

// Compile parses a test file and compiles each top-level def into a Code
// replaying against globals. src is as for syntax.FileOptions.Parse: nil
// reads filename.
func Compile(filename string, src any, globals map[string]any) (*Unit, error) {
	file, err := fileOptions.Parse(filename, src, 0)
	if err != nil {
		return nil, err
	}

	unit := &Unit{
		File: filename,
	}
	seen := make(map[string]bool)
	for i, stmt := range file.Stmts {
		switch s := stmt.(type) {
		case *syntax.DefStmt:
			if seen[s.Name.Name] {
				return nil, errorf(s.Name.NamePos, "duplicated function %s", s.Name.Name)
			}
			seen[s.Name.Name] = true
			code, err := compileDef(filename, s, globals)
			if err != nil {
				return nil, err
			}
			unit.Functions = append(unit.Functions, code)
		case *syntax.ExprStmt:
			if i == 0 && isDocString(s) {
				continue
			}
			return nil, errorf(stmtPos(stmt), "unsupported top-level statement")
		default:
			return nil, errorf(stmtPos(stmt), "unsupported top-level statement")
		}
	}

	return unit, nil
}

func isDocString(s *syntax.ExprStmt) bool {
	lit, ok := s.X.(*syntax.Literal)
	return ok && lit.Token == syntax.STRING
}

func stmtPos(stmt syntax.Stmt) syntax.Position {
	start, _ := stmt.Span()
	return start
}

func errorf(pos syntax.Position, format string, args ...any) error {
	return fmt.Errorf("%s: %s", pos, fmt.Sprintf(format, args...))
}
