// Package observability wires OpenTelemetry tracing into keepalive.
//
// Every worker launch becomes one span covering the worker's lifetime:
//
//	tp, err := observability.InitTracer(ctx, cfg)
//	defer tp.Shutdown(ctx)
//
// Tracing is off unless tracing.enabled is set; without a provider the
// global no-op tracer is used and spans cost nothing.
package observability
