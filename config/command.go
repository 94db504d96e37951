package config

import (
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// CommandLine is the worker executable followed by its arguments.
type CommandLine []string

// SplitCommand splits a command string using shell quoting rules:
// whitespace separates words, quotes group them, backslash escapes.
func SplitCommand(s string) (CommandLine, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	words, err := shlex.Split(s)
	if err != nil {
		return nil, fmt.Errorf("parsing command %q: %w", s, err)
	}
	return CommandLine(words), nil
}

// String renders the command for logs.
func (c CommandLine) String() string {
	return strings.Join(c, " ")
}
