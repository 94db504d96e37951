// Package validation checks keepalive configuration before the supervisor
// loop starts. Failures are returned as INVALID_CONFIG AppErrors, the only
// error class that aborts startup.
//
// # Struct Tag Validation
//
//	type SupervisorConfig struct {
//	    Command []string `mapstructure:"command" validate:"required,min=1,dive,required"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.NonNegativeDuration("restart_delay", cfg.RestartDelay)
//	err := v.Validate()
package validation
