// Package config loads keepalive configuration.
//
// Values are layered with Viper, lowest precedence first: built-in defaults,
// a YAML file (explicit path or ./keepalive.yml, ./config/keepalive.yml),
// KEEPALIVE_* environment variables, then bound command-line flags.
//
// Durations accept Go syntax ("1m30s") or bare seconds (5, 0.5). The worker
// command accepts a YAML list or one string split with shell quoting rules.
//
//	cfg, err := config.Load(config.WithConfigFile("keepalive.yml"))
//
// The worker env file is read with godotenv without touching the
// supervisor's own environment.
package config
