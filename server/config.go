package server

import (
	"fmt"
	"net"
	"strconv"

	"github.com/kbukum/keepalive/validation"
)

// Config holds status server configuration.
type Config struct {
	Enabled      bool   `yaml:"enabled" mapstructure:"enabled"`
	Host         string `yaml:"host" mapstructure:"host"`
	Port         int    `yaml:"port" mapstructure:"port"`
	ReadTimeout  int    `yaml:"read_timeout" mapstructure:"read_timeout"`   // seconds
	WriteTimeout int    `yaml:"write_timeout" mapstructure:"write_timeout"` // seconds
	IdleTimeout  int    `yaml:"idle_timeout" mapstructure:"idle_timeout"`   // seconds
}

// ApplyDefaults sets sensible default values for unset fields.
// The status endpoint binds loopback unless told otherwise.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 9090
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 5
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 5
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	v := validation.New().
		Range("status.port", float64(c.Port), 0, 65535).
		Custom(c.ReadTimeout >= 0, "status.read_timeout", fmt.Sprintf("must be non-negative (got: %d)", c.ReadTimeout)).
		Custom(c.WriteTimeout >= 0, "status.write_timeout", fmt.Sprintf("must be non-negative (got: %d)", c.WriteTimeout)).
		Custom(c.IdleTimeout >= 0, "status.idle_timeout", fmt.Sprintf("must be non-negative (got: %d)", c.IdleTimeout))
	if c.Enabled {
		v.Required("status.host", c.Host)
	}
	return v.Validate()
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ParseAddr splits a host:port flag value into Host and Port.
func (c *Config) ParseAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("status address %q: %w", addr, err)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("status address %q: invalid port", addr)
	}
	c.Host = host
	c.Port = n
	return nil
}
