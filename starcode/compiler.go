package starcode

import (
	"math/big"

	"github.com/reusee/plaintest/replay"
	"go.starlark.net/syntax"
)

type compiler struct {
	code   *replay.Code
	locals map[string]bool
	line   int
}

func compileDef(filename string, def *syntax.DefStmt, globals map[string]any) (*replay.Code, error) {
	c := &compiler{
		code: &replay.Code{
			Name:      def.Name.Name,
			File:      filename,
			FirstLine: int(def.Def.Line),
			Globals:   globals,
		},
		locals: make(map[string]bool),
		line:   int(def.Def.Line),
	}

	for _, param := range def.Params {
		ident, ok := param.(*syntax.Ident)
		if !ok {
			start, _ := param.Span()
			return nil, errorf(start, "unsupported parameter")
		}
		c.code.Params = append(c.code.Params, ident.Name)
		c.locals[ident.Name] = true
	}
	collectLocals(def.Body, c.locals)

	body := def.Body
	if len(body) > 0 {
		if s, ok := body[0].(*syntax.ExprStmt); ok && isDocString(s) {
			body = body[1:]
		}
	}
	if err := c.compileStmts(body); err != nil {
		return nil, err
	}

	// implicit return None
	_, end := def.Span()
	c.line = int(end.Line)
	c.emit(replay.OpLoadConst.With(nil))
	c.emit(replay.OpReturn.With(nil))

	return c.code, nil
}

// collectLocals marks every name assigned in the body.
func collectLocals(stmts []syntax.Stmt, locals map[string]bool) {
	for _, stmt := range stmts {
		if s, ok := stmt.(*syntax.AssignStmt); ok {
			if ident, ok := s.LHS.(*syntax.Ident); ok {
				locals[ident.Name] = true
			}
		}
	}
}

func (c *compiler) emit(inst replay.Instruction) {
	c.code.Instructions = append(c.code.Instructions, inst.At(c.line))
}

func (c *compiler) compileStmts(stmts []syntax.Stmt) error {
	for _, stmt := range stmts {
		start := stmtPos(stmt)
		c.line = int(start.Line)
		if err := c.compileStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) compileStmt(stmt syntax.Stmt) error {
	switch s := stmt.(type) {

	case *syntax.ExprStmt:
		if err := c.compileExpr(s.X); err != nil {
			return err
		}
		c.emit(replay.OpPop.With(nil))

	case *syntax.AssignStmt:
		return c.compileAssign(s)

	case *syntax.ReturnStmt:
		if s.Result != nil {
			if err := c.compileExpr(s.Result); err != nil {
				return err
			}
		} else {
			c.emit(replay.OpLoadConst.With(nil))
		}
		c.emit(replay.OpReturn.With(nil))

	case *syntax.BranchStmt:
		if s.Token != syntax.PASS {
			return errorf(s.TokenPos, "unsupported statement: %s", s.Token)
		}

	default:
		return errorf(stmtPos(stmt), "unsupported statement: %T", stmt)
	}
	return nil
}

var inplaceOps = map[syntax.Token]replay.BinaryOp{
	syntax.PLUS_EQ:       replay.BinaryAdd,
	syntax.MINUS_EQ:      replay.BinarySubtract,
	syntax.STAR_EQ:       replay.BinaryMultiply,
	syntax.SLASH_EQ:      replay.BinaryTrueDivide,
	syntax.SLASHSLASH_EQ: replay.BinaryFloorDivide,
	syntax.PERCENT_EQ:    replay.BinaryModulo,
	syntax.AMP_EQ:        replay.BinaryAnd,
	syntax.PIPE_EQ:       replay.BinaryOr,
	syntax.CIRCUMFLEX_EQ: replay.BinaryXor,
	syntax.LTLT_EQ:       replay.BinaryLshift,
	syntax.GTGT_EQ:       replay.BinaryRshift,
}

func (c *compiler) compileAssign(s *syntax.AssignStmt) error {
	ident, ok := s.LHS.(*syntax.Ident)
	if !ok {
		return errorf(s.OpPos, "unsupported assignment target")
	}

	if s.Op == syntax.EQ {
		if err := c.compileExpr(s.RHS); err != nil {
			return err
		}
		c.emit(replay.OpStoreLocal.With(ident.Name))
		return nil
	}

	op, ok := inplaceOps[s.Op]
	if !ok {
		return errorf(s.OpPos, "unsupported operator: %s", s.Op)
	}
	c.loadName(ident.Name)
	if err := c.compileExpr(s.RHS); err != nil {
		return err
	}
	c.emit(replay.OpInplace.With(op))
	c.emit(replay.OpStoreLocal.With(ident.Name))
	return nil
}

func (c *compiler) loadName(name string) {
	if c.locals[name] {
		c.emit(replay.OpLoadLocal.With(name))
	} else {
		c.emit(replay.OpLoadGlobal.With(name))
	}
}

var constants = map[string]any{
	"None":  nil,
	"True":  true,
	"False": false,
}

func (c *compiler) compileExpr(expr syntax.Expr) error {
	switch e := expr.(type) {

	case *syntax.Literal:
		value, err := literal(e)
		if err != nil {
			return err
		}
		c.emit(replay.OpLoadConst.With(value))

	case *syntax.Ident:
		if value, ok := constants[e.Name]; ok && !c.locals[e.Name] {
			c.emit(replay.OpLoadConst.With(value))
			return nil
		}
		c.loadName(e.Name)

	case *syntax.ParenExpr:
		return c.compileExpr(e.X)

	case *syntax.UnaryExpr:
		return c.compileUnaryExpr(e)

	case *syntax.BinaryExpr:
		return c.compileBinaryExpr(e)

	case *syntax.CallExpr:
		return c.compileCallExpr(e)

	case *syntax.DotExpr:
		if err := c.compileExpr(e.X); err != nil {
			return err
		}
		c.emit(replay.OpLoadAttr.With(e.Name.Name))

	case *syntax.IndexExpr:
		if err := c.compileExpr(e.X); err != nil {
			return err
		}
		if err := c.compileExpr(e.Y); err != nil {
			return err
		}
		c.emit(replay.OpBinary.With(replay.BinarySubscript))

	case *syntax.ListExpr:
		if err := c.compileExprs(e.List); err != nil {
			return err
		}
		c.emit(replay.OpBuildList.With(len(e.List)))

	case *syntax.TupleExpr:
		if err := c.compileExprs(e.List); err != nil {
			return err
		}
		c.emit(replay.OpBuildTuple.With(len(e.List)))

	default:
		start, _ := expr.Span()
		return errorf(start, "unsupported expression: %T", expr)
	}
	return nil
}

func (c *compiler) compileExprs(exprs []syntax.Expr) error {
	for _, expr := range exprs {
		if err := c.compileExpr(expr); err != nil {
			return err
		}
	}
	return nil
}

func literal(e *syntax.Literal) (any, error) {
	switch v := e.Value.(type) {
	case *big.Int:
		return nil, errorf(e.TokenPos, "integer literal out of range: %s", e.Raw)
	case string:
		if e.Token == syntax.BYTES {
			return []byte(v), nil
		}
		return v, nil
	}
	return e.Value, nil
}

func (c *compiler) compileUnaryExpr(e *syntax.UnaryExpr) error {
	lit, ok := e.X.(*syntax.Literal)
	if ok && (e.Op == syntax.MINUS || e.Op == syntax.PLUS) {
		value, err := literal(lit)
		if err != nil {
			return err
		}
		if e.Op == syntax.MINUS {
			switch v := value.(type) {
			case int64:
				value = -v
			case float64:
				value = -v
			default:
				return errorf(e.OpPos, "bad operand for unary -")
			}
		}
		c.emit(replay.OpLoadConst.With(value))
		return nil
	}
	return errorf(e.OpPos, "unsupported unary operator: %s", e.Op)
}

var binaryOps = map[syntax.Token]replay.BinaryOp{
	syntax.PLUS:       replay.BinaryAdd,
	syntax.MINUS:      replay.BinarySubtract,
	syntax.STAR:       replay.BinaryMultiply,
	syntax.SLASH:      replay.BinaryTrueDivide,
	syntax.SLASHSLASH: replay.BinaryFloorDivide,
	syntax.PERCENT:    replay.BinaryModulo,
	syntax.AMP:        replay.BinaryAnd,
	syntax.PIPE:       replay.BinaryOr,
	syntax.CIRCUMFLEX: replay.BinaryXor,
	syntax.LTLT:       replay.BinaryLshift,
	syntax.GTGT:       replay.BinaryRshift,
}

var compareOps = map[syntax.Token]string{
	syntax.EQL: "==",
	syntax.NEQ: "!=",
	syntax.LT:  "<",
	syntax.LE:  "<=",
	syntax.GT:  ">",
	syntax.GE:  ">=",
}

func (c *compiler) compileBinaryExpr(e *syntax.BinaryExpr) error {
	if e.Op == syntax.AND || e.Op == syntax.OR {
		return errorf(e.OpPos, "unsupported operator: %s", e.Op)
	}

	if err := c.compileExpr(e.X); err != nil {
		return err
	}
	if err := c.compileExpr(e.Y); err != nil {
		return err
	}

	if op, ok := binaryOps[e.Op]; ok {
		c.emit(replay.OpBinary.With(op))
		return nil
	}
	if code, ok := compareOps[e.Op]; ok {
		c.emit(replay.OpCompare.With(code))
		return nil
	}
	switch e.Op {
	case syntax.IN:
		c.emit(replay.OpContains.With(false))
		return nil
	case syntax.NOT_IN:
		c.emit(replay.OpContains.With(true))
		return nil
	}

	return errorf(e.OpPos, "unsupported operator: %s", e.Op)
}

func (c *compiler) compileCallExpr(e *syntax.CallExpr) error {
	if dot, ok := e.Fn.(*syntax.DotExpr); ok {
		if err := c.compileExpr(dot.X); err != nil {
			return err
		}
		c.emit(replay.OpLoadMethod.With(dot.Name.Name))
	} else {
		if err := c.compileExpr(e.Fn); err != nil {
			return err
		}
	}

	for _, arg := range e.Args {
		switch a := arg.(type) {
		case *syntax.BinaryExpr:
			if a.Op == syntax.EQ {
				return errorf(a.OpPos, "keyword arguments are not supported")
			}
		case *syntax.UnaryExpr:
			if a.Op == syntax.STAR || a.Op == syntax.STARSTAR {
				return errorf(a.OpPos, "variadic arguments are not supported")
			}
		}
		if err := c.compileExpr(arg); err != nil {
			return err
		}
	}
	c.emit(replay.OpCall.With(len(e.Args)))
	return nil
}
