package replay

// Code is a decoded function ready to be replayed.
type Code struct {
	Name         string
	File         string
	FirstLine    int
	Instructions []Instruction
	// Globals is the enclosing global scope. It is copied when a VM is
	// created and never written.
	Globals map[string]any
	// Params are the declared parameter names. A leading "self" is bound to
	// the receiver.
	Params []string
}

// IsMethod reports whether the code takes a receiver.
func (c *Code) IsMethod() bool {
	return len(c.Params) > 0 && c.Params[0] == "self"
}
