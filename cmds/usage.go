package cmds

import (
	"fmt"
	"slices"
	"strings"
)

func (p *Executor) PrintUsage() {
	fmt.Fprintln(p.Output, "usage:")
	printCommands(p, p.commands, 1)
}

func printCommands(p *Executor, commands map[string]*Command, depth int) {
	seen := make(map[*Command]bool)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)

	indent := strings.Repeat("  ", depth)
	for _, name := range names {
		command := commands[name]
		if command == nil || seen[command] || slices.Contains(command.Aliases, name) {
			continue
		}
		seen[command] = true

		words := name
		if len(command.Aliases) > 0 {
			words = strings.Join(append([]string{name}, command.Aliases...), ", ")
		}
		for _, param := range command.Params() {
			words += " <" + param.String() + ">"
		}
		if command.Description != "" {
			fmt.Fprintf(p.Output, "%s%s\t%s\n", indent, words, command.Description)
		} else {
			fmt.Fprintf(p.Output, "%s%s\n", indent, words)
		}

		if len(command.Subs) > 0 {
			printCommands(p, command.Subs, depth+1)
		}
	}
}
