// Package logger provides structured logging for keepalive using zerolog.
//
// It supports console and JSON output, level configuration, and
// component-scoped loggers with structured fields. The supervisor emits one
// line per lifecycle transition through this package.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.NewDefault("keepalive").WithComponent("supervisor")
//	log.Info("worker started", logger.Fields("pid", 4242))
package logger
