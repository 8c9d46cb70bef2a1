package replay

import (
	"errors"
	"fmt"
)

var (
	// ErrIntegration marks errors caused by an instruction stream the
	// interpreter cannot replay. They are fatal to the whole harness.
	ErrIntegration = errors.New("integration error")

	ErrClassicDivision = errors.New("only true division is supported")
	ErrZeroDivision    = errors.New("division by zero")
	ErrUnsupported     = errors.New("unsupported operand types")
)

type AttributeError struct {
	Type string
	Name string
}

func (a *AttributeError) Error() string {
	return fmt.Sprintf("%s has no attribute %q", a.Type, a.Name)
}

type NameError struct {
	Name string
}

func (n *NameError) Error() string {
	return fmt.Sprintf("name %q is not defined", n.Name)
}

func unsupported(op string, l, r any) error {
	return fmt.Errorf("%w for %s: %s and %s", ErrUnsupported, op, typeName(l), typeName(r))
}
