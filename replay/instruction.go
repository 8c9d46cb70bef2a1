package replay

import "fmt"

// Instruction is one decoded operation of a replayed function.
// Arg depends on Op:
//   - string name for loads, stores, LOAD_ATTR and LOAD_METHOD
//   - literal value for LOAD_CONST
//   - int count for CALL, ROTATE and the BUILD_* ops
//   - BinaryOp for BINARY_OP and INPLACE_OP
//   - comparison code string for COMPARE
//   - bool invert flag for IS and CONTAINS
//
// Line is the source line the instruction starts; zero means unchanged.
type Instruction struct {
	Op   OpCode
	Arg  any
	Line int
}

func (i Instruction) At(line int) Instruction {
	i.Line = line
	return i
}

func (i Instruction) String() string {
	if i.Arg == nil {
		return i.Op.String()
	}
	return fmt.Sprintf("%s(%v)", i.Op, i.Arg)
}

func (i Instruction) name() (string, error) {
	s, ok := i.Arg.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s expects a name operand, got %T", ErrIntegration, i.Op, i.Arg)
	}
	return s, nil
}

func (i Instruction) count() (int, error) {
	n, ok := i.Arg.(int)
	if !ok || n < 0 {
		return 0, fmt.Errorf("%w: %s expects a count operand, got %v", ErrIntegration, i.Op, i.Arg)
	}
	return n, nil
}

func (i Instruction) invert() (bool, error) {
	switch arg := i.Arg.(type) {
	case nil:
		return false, nil
	case bool:
		return arg, nil
	}
	return false, fmt.Errorf("%w: %s expects an invert flag, got %T", ErrIntegration, i.Op, i.Arg)
}
