// Package errors provides the structured error type used across keepalive.
// Every failure the supervisor can observe (launch failures, abnormal worker
// exits, bad configuration) is expressed as an AppError with a stable code so
// log lines and the status endpoint can report it uniformly.
package errors
