package cmds

// GlobalExecutor holds the words defined by packages at init time.
var GlobalExecutor = NewExecutor()

func Define(name string, command *Command) {
	GlobalExecutor.Define(name, command)
}

func Execute(args []string) error {
	return GlobalExecutor.Execute(args)
}

// Args sets the handler of non-command words of the global executor.
func Args(fn func(arg string) error) {
	GlobalExecutor.Args = fn
}
