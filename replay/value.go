package replay

import (
	"reflect"
	"strings"
)

// Value is an operand stack slot: a runtime value paired with the
// expression that produced it.
type Value interface {
	Value() any
	Name() string
	String() string
}

// Action is what a CallResult invoked.
type Action interface {
	Name() string
}

type Plain struct {
	Val   any
	Ident string
}

var _ Value = new(Plain)

func NewPlain(val any, name string) *Plain {
	return &Plain{
		Val:   val,
		Ident: name,
	}
}

func (p *Plain) Value() any   { return p.Val }
func (p *Plain) Name() string { return p.Ident }

func (p *Plain) String() string {
	if opaque(p.Val) {
		return p.Ident
	}
	repr := Repr(p.Val)
	if p.Ident == repr {
		return repr
	}
	return p.Ident + " <" + repr + ">"
}

type CallResult struct {
	Val    any
	Args   []Value
	Action Action
}

var _ Value = new(CallResult)

func (c *CallResult) Value() any { return c.Val }

func (c *CallResult) Name() string {
	var b strings.Builder
	b.WriteString(c.Action.Name())
	b.WriteString("(")
	for i, arg := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.String())
	}
	b.WriteString(")")
	return b.String()
}

func (c *CallResult) String() string {
	return c.Name() + " <" + Repr(c.Val) + ">"
}

type BoundMethod struct {
	Val    any
	Ident  string
	Parent Value
}

var _ Value = new(BoundMethod)

func (b *BoundMethod) Value() any     { return b.Val }
func (b *BoundMethod) Name() string   { return b.Parent.Name() + "." + b.Ident }
func (b *BoundMethod) String() string { return b.Name() }

type Attribute struct {
	Val    any
	Ident  string
	Parent Value
}

var _ Value = new(Attribute)

func (a *Attribute) Value() any   { return a.Val }
func (a *Attribute) Name() string { return a.Parent.Name() + "." + a.Ident }

func (a *Attribute) String() string {
	if opaque(a.Val) {
		return a.Name()
	}
	return a.Name() + " <" + Repr(a.Val) + ">"
}

// Comparison is the action of a boolean-producing instruction.
type Comparison struct {
	Code string
}

func (c Comparison) Name() string {
	return c.Code
}

// RendersAsValue reports whether v renders exactly as its runtime value,
// as literals do.
func RendersAsValue(v Value) bool {
	return v.String() == Repr(v.Value())
}

// opaque values render by name only.
func opaque(v any) bool {
	switch v.(type) {
	case Callable, Opaque:
		return true
	}
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).Kind() == reflect.Func
}

// Opaque is implemented by values whose rendering adds nothing to their
// name, like modules or namespaces.
type Opaque interface {
	Opaque()
}
