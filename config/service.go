package config

import (
	"github.com/kbukum/keepalive/logger"
	"github.com/kbukum/keepalive/validation"
)

// ServiceConfig contains the fields that identify this supervisor instance.
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string        `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to the service section.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "keepalive"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the service section.
func (c *ServiceConfig) Validate() error {
	return validation.New().
		Merge("", validation.Validate(c)).
		Merge("logging", c.Logging.Validate()).
		Validate()
}
