package supervisor

import (
	"maps"
	"slices"
	"time"

	"github.com/kbukum/keepalive/validation"
)

const (
	// DefaultRestartDelay is the pause between a worker exit and its relaunch.
	DefaultRestartDelay = 5 * time.Second
	// DefaultGracePeriod is how long a worker may take to exit after SIGTERM
	// before it is killed.
	DefaultGracePeriod = 10 * time.Second
)

// Config is the immutable supervisor configuration.
type Config struct {
	// Command is the worker executable followed by its arguments.
	Command []string
	// Environment is the worker's complete environment. A nil map inherits the
	// supervisor's own environment; an empty map starts the worker with none.
	Environment map[string]string
	// Dir is the worker's working directory. Empty means the current one.
	Dir string
	// RestartDelay is the fixed pause before every relaunch. Zero relaunches
	// immediately.
	RestartDelay time.Duration
	// GracePeriod bounds how long a stopping worker may run after SIGTERM.
	// Zero kills it right away.
	GracePeriod time.Duration
}

// DefaultConfig returns a Config for command with the default restart delay
// and grace period.
func DefaultConfig(command ...string) Config {
	return Config{
		Command:      command,
		RestartDelay: DefaultRestartDelay,
		GracePeriod:  DefaultGracePeriod,
	}
}

// Validate checks the configuration. Errors are INVALID_CONFIG AppErrors.
func (c *Config) Validate() error {
	return validation.New().
		NotEmpty("command", c.Command).
		NonNegativeDuration("restart_delay", c.RestartDelay).
		NonNegativeDuration("grace_period", c.GracePeriod).
		Custom(!hasEmptyKey(c.Environment), "environment", "variable names must not be empty").
		Validate()
}

// clone returns a deep copy so later mutation by the caller cannot leak in.
func (c Config) clone() Config {
	out := c
	out.Command = slices.Clone(c.Command)
	if c.Environment != nil {
		out.Environment = maps.Clone(c.Environment)
	}
	return out
}

func hasEmptyKey(env map[string]string) bool {
	_, ok := env[""]
	return ok
}
