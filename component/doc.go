// Package component defines the lifecycle interface shared by the pieces
// keepalive runs next to the supervisor loop: the instance lock, the tracer
// provider and the status server.
//
// # Interfaces
//
//   - Component: Start/Stop lifecycle plus Health
//   - Describable: one-line description for the startup summary
//   - RouteProvider: HTTP routes for the startup summary
package component
