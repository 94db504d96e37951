package config

import (
	"time"

	"github.com/kbukum/keepalive/observability"
	"github.com/kbukum/keepalive/server"
	"github.com/kbukum/keepalive/supervisor"
	"github.com/kbukum/keepalive/validation"
)

// Config is the root keepalive configuration.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Supervisor SupervisorConfig           `yaml:"supervisor" mapstructure:"supervisor"`
	Status     server.Config              `yaml:"status" mapstructure:"status"`
	Tracing    observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	// LockFile, when set, prevents two supervisors for the same worker.
	LockFile string `yaml:"lock_file" mapstructure:"lock_file"`

	// Source is the file the configuration was read from, if any.
	Source string `yaml:"-" mapstructure:"-"`
}

// SupervisorConfig describes the worker and the restart policy.
type SupervisorConfig struct {
	Command CommandLine `yaml:"command" mapstructure:"command"`
	Dir     string      `yaml:"dir" mapstructure:"dir"`
	// EnvFile is a dotenv file re-read before every launch.
	EnvFile string `yaml:"env_file" mapstructure:"env_file"`
	// InheritEnv starts the worker from the supervisor's own environment.
	InheritEnv   bool          `yaml:"inherit_env" mapstructure:"inherit_env"`
	RestartDelay time.Duration `yaml:"restart_delay" mapstructure:"restart_delay"`
	GracePeriod  time.Duration `yaml:"grace_period" mapstructure:"grace_period"`
}

// Default returns a Config carrying the same defaults Load starts from.
// Durations are set here rather than in ApplyDefaults because zero is a
// valid restart delay and grace period.
func Default() *Config {
	cfg := &Config{}
	cfg.Supervisor.InheritEnv = true
	cfg.Supervisor.RestartDelay = supervisor.DefaultRestartDelay
	cfg.Supervisor.GracePeriod = supervisor.DefaultGracePeriod
	cfg.Tracing = observability.DefaultTracerConfig("")
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset values across all sections. Supervisor durations
// are left alone.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Status.ApplyDefaults()
	c.Tracing.ApplyDefaults()
	c.Tracing.ServiceName = c.Name
	c.Tracing.Environment = c.Environment
}

// Validate reports every problem at once as one INVALID_CONFIG error.
func (c *Config) Validate() error {
	return validation.New().
		Merge("", c.ServiceConfig.Validate()).
		NotEmpty("supervisor.command", c.Supervisor.Command).
		NonNegativeDuration("supervisor.restart_delay", c.Supervisor.RestartDelay).
		NonNegativeDuration("supervisor.grace_period", c.Supervisor.GracePeriod).
		Merge("status", c.Status.Validate()).
		Merge("tracing", c.Tracing.Validate()).
		Validate()
}

// SupervisorSettings converts the supervisor section into supervisor.Config.
// The environment is left to WorkerEnv so it can be refreshed per launch.
func (c *Config) SupervisorSettings() supervisor.Config {
	return supervisor.Config{
		Command:      []string(c.Supervisor.Command),
		Dir:          c.Supervisor.Dir,
		RestartDelay: c.Supervisor.RestartDelay,
		GracePeriod:  c.Supervisor.GracePeriod,
	}
}
