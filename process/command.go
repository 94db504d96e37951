package process

import (
	"io"
	"sort"
)

// Command configures the worker process to launch.
type Command struct {
	// Path is the executable path or name (resolved via PATH).
	Path string
	// Args are the command-line arguments.
	Args []string
	// Env is the complete environment (KEY=VALUE). A nil Env inherits the
	// supervisor's environment; an empty non-nil Env starts the worker with none.
	Env []string
	// Dir is the working directory. If empty, uses the current directory.
	Dir string
	// Stdout receives the worker's standard output. Defaults to the launcher's.
	Stdout io.Writer
	// Stderr receives the worker's standard error. Defaults to the launcher's.
	Stderr io.Writer
}

// Argv returns the full command line, path first.
func (c Command) Argv() []string {
	return append([]string{c.Path}, c.Args...)
}

// EnvList renders an environment map as sorted KEY=VALUE pairs.
// The result is never nil so the worker never silently inherits the parent env.
func EnvList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
