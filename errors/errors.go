package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates the supervisor recovers from this error by restarting.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the status code used when the error is served by the status endpoint.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Worker lifecycle ---

// LaunchFailed creates an AppError for a worker command that could not be started.
func LaunchFailed(command []string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeLaunchFailed, Message: fmt.Sprintf("Unable to start worker %q.", strings.Join(command, " ")),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"command": command}, Cause: cause,
	}
}

// AbnormalExit creates an AppError for a worker killed by a signal.
func AbnormalExit(signal string) *AppError {
	return &AppError{
		Code: ErrCodeAbnormalExit, Message: fmt.Sprintf("Worker terminated by signal %s.", signal),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"signal": signal},
	}
}

// NonZeroExit creates an AppError for a worker that exited with a failure code.
func NonZeroExit(code int) *AppError {
	return &AppError{
		Code: ErrCodeNonZeroExit, Message: fmt.Sprintf("Worker exited with code %d.", code),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"exit_code": code},
	}
}

// EnvironmentUnavailable creates an AppError for a worker environment that
// could not be assembled before a launch.
func EnvironmentUnavailable(source string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeEnvironment, Message: fmt.Sprintf("Unable to prepare worker environment from %s.", source),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"source": source}, Cause: cause,
	}
}

// --- Startup ---

// InvalidConfig creates an AppError for malformed configuration.
func InvalidConfig(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	msg := reason
	if field != "" {
		msg = fmt.Sprintf("%s: %s", field, reason)
	}
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: msg,
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// AlreadyRunning creates an AppError for an instance lock held elsewhere.
func AlreadyRunning(lockPath string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyRunning, Message: fmt.Sprintf("Another supervisor holds %s.", lockPath),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"lock_file": lockPath},
	}
}

// --- Generic ---

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"resource": resource},
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
