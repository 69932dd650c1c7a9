package tui

import "strings"

// Command is one ":" prompt entry, split into a verb and its argument rest.
type Command struct {
	Name string
	Args string
}

// ParseCommand splits the prompt text into the verb and everything after it.
// The verb is case-insensitive; the argument keeps its case, so file paths
// and bio text pass through untouched.
func ParseCommand(input string) Command {
	verb, rest, _ := strings.Cut(strings.TrimSpace(input), " ")
	return Command{
		Name: strings.ToLower(verb),
		Args: strings.TrimSpace(rest),
	}
}
