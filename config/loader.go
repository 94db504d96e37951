package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kbukum/keepalive/errors"
	"github.com/kbukum/keepalive/supervisor"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "KEEPALIVE"

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	ReadEnv(path string) (map[string]string, error)
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) ReadEnv(path string) (map[string]string, error) {
	return readEnvFile(path)
}

// Resolver finds the config file to load.
type Resolver struct {
	FileSystem FileSystem
}

// searchPaths are tried in order when no config file is given.
var searchPaths = []string{
	"./keepalive.yml",
	"./keepalive.yaml",
	"./config/keepalive.yml",
	"./config/keepalive.yaml",
}

// ResolveConfigFile returns explicit if it exists, otherwise the first file
// found in the search paths. No file at all is not an error.
func (cr *Resolver) ResolveConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if !cr.FileSystem.Exists(explicit) {
			return "", errors.InvalidConfig("config", fmt.Sprintf("file %s not found", explicit))
		}
		return explicit, nil
	}
	for _, path := range searchPaths {
		if cr.FileSystem.Exists(path) {
			return path, nil
		}
	}
	return "", nil
}

// LoaderConfig holds dependencies and optional overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	Flags      *pflag.FlagSet
	// FlagKeys maps flag names to config keys.
	FlagKeys  map[string]string
	Overrides map[string]any
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithFlags binds command-line flags to config keys. Only flags the user
// actually set take precedence over file and environment values.
func WithFlags(flags *pflag.FlagSet, keys map[string]string) LoaderOption {
	return func(lc *LoaderConfig) {
		lc.Flags = flags
		lc.FlagKeys = keys
	}
}

// WithOverride forces key to value regardless of every other source.
func WithOverride(key string, value any) LoaderOption {
	return func(lc *LoaderConfig) {
		if lc.Overrides == nil {
			lc.Overrides = make(map[string]any)
		}
		lc.Overrides[key] = value
	}
}

// keys lists every setting so environment variables reach Unmarshal even
// when the file does not mention them.
var keys = []string{
	"name",
	"environment",
	"logging.level",
	"logging.format",
	"logging.output",
	"logging.no_color",
	"logging.caller",
	"supervisor.command",
	"supervisor.dir",
	"supervisor.env_file",
	"supervisor.inherit_env",
	"supervisor.restart_delay",
	"supervisor.grace_period",
	"status.enabled",
	"status.host",
	"status.port",
	"tracing.enabled",
	"tracing.endpoint",
	"tracing.insecure",
	"tracing.sample_rate",
	"lock_file",
}

// Load reads, defaults and validates the configuration. Every failure is an
// INVALID_CONFIG AppError.
func Load(opts ...LoaderOption) (*Config, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	v := viper.New()
	v.SetDefault("supervisor.inherit_env", true)
	v.SetDefault("supervisor.restart_delay", supervisor.DefaultRestartDelay.String())
	v.SetDefault("supervisor.grace_period", supervisor.DefaultGracePeriod.String())
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_rate", 1.0)

	// 1. YAML file
	resolver := &Resolver{FileSystem: lc.FileSystem}
	path, err := resolver.ResolveConfigFile(lc.ConfigFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.InvalidConfig("config", fmt.Sprintf("reading %s: %v", path, err)).WithCause(err)
		}
	}

	// 2. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Internal(err)
		}
	}

	// 3. Flags, then explicit overrides
	if lc.Flags != nil {
		for name, key := range lc.FlagKeys {
			flag := lc.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, errors.Internal(err)
			}
		}
	}
	for key, value := range lc.Overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook())); err != nil {
		return nil, errors.InvalidConfig("", err.Error()).WithCause(err)
	}
	cfg.Source = path

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := checkEnvFile(lc.FileSystem, cfg.Supervisor.EnvFile); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// checkEnvFile makes a missing or malformed env file a startup error rather
// than a failure of every launch.
func checkEnvFile(fs FileSystem, path string) error {
	if path == "" {
		return nil
	}
	if !fs.Exists(path) {
		return errors.InvalidConfig("supervisor.env_file", fmt.Sprintf("file %s not found", path))
	}
	if _, err := fs.ReadEnv(path); err != nil {
		return errors.InvalidConfig("supervisor.env_file", err.Error()).WithCause(err)
	}
	return nil
}
