// Package server provides the optional read-only status server of keepalive,
// built on Gin and served over HTTP/1.1 and h2c.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request id generation and propagation
//   - RequestLogger: request logging with duration tracking
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /status: supervisor state with current and last attempt
//   - /livez: 200 while the loop runs, 503 once stopped
//   - /version: build version information
//   - /health: component health aggregation
package server
