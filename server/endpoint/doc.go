// Package endpoint holds the read-only handlers of the status server.
package endpoint
