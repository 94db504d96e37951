package middleware

import "net/http"

// Middleware wraps an http.Handler with additional behavior. It runs at the
// server handler level so it sees every request, including unmatched routes.
type Middleware func(http.Handler) http.Handler

// Chain composes multiple middleware. The first in the list is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
