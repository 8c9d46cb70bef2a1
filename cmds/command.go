package cmds

import (
	"fmt"
	"reflect"
)

// Command is a word of the command line. A command either calls Func with
// the following words as arguments or dispatches to Subs.
type Command struct {
	Func        reflect.Value
	Subs        map[string]*Command
	Description string
	Aliases     []string
}

func (c *Command) Desc(desc string) *Command {
	c.Description = desc
	return c
}

func (c *Command) Alias(names ...string) *Command {
	c.Aliases = append(c.Aliases, names...)
	return c
}

// Params returns the argument types Func consumes.
func (c *Command) Params() []reflect.Type {
	if !c.Func.IsValid() {
		return nil
	}
	t := c.Func.Type()
	ret := make([]reflect.Type, t.NumIn())
	for i := range ret {
		ret[i] = t.In(i)
	}
	return ret
}

// Func wraps fn as a command. fn may return nothing or an error.
func Func(fn any) *Command {
	value := reflect.ValueOf(fn)
	if value.Kind() != reflect.Func {
		panic(fmt.Errorf("command must be a function, got %T", fn))
	}
	t := value.Type()
	switch {
	case t.NumOut() > 1:
		panic(fmt.Errorf("command %T returns more than one value", fn))
	case t.NumOut() == 1 && t.Out(0) != errorType:
		panic(fmt.Errorf("command %T must return error", fn))
	case t.IsVariadic():
		panic(fmt.Errorf("command %T is variadic", fn))
	}
	return &Command{
		Func: value,
	}
}

func Sub(subs map[string]*Command) *Command {
	return &Command{
		Subs: subs,
	}
}
