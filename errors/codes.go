package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Worker lifecycle errors (retryable: the supervisor restarts after them)
const (
	// ErrCodeLaunchFailed indicates the worker command could not be started.
	ErrCodeLaunchFailed ErrorCode = "LAUNCH_FAILED"
	// ErrCodeAbnormalExit indicates the worker was terminated by a signal.
	ErrCodeAbnormalExit ErrorCode = "ABNORMAL_EXIT"
	// ErrCodeNonZeroExit indicates the worker exited with a non-zero code.
	ErrCodeNonZeroExit ErrorCode = "NONZERO_EXIT"
	// ErrCodeEnvironment indicates the worker environment could not be prepared.
	ErrCodeEnvironment ErrorCode = "ENVIRONMENT_UNAVAILABLE"
)

// Startup errors (fatal before the loop begins)
const (
	// ErrCodeInvalidConfig indicates malformed or missing configuration.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeAlreadyRunning indicates another supervisor holds the instance lock.
	ErrCodeAlreadyRunning ErrorCode = "ALREADY_RUNNING"
)

// Endpoint errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeLaunchFailed: true,
	ErrCodeAbnormalExit: true,
	ErrCodeNonZeroExit:  true,
	ErrCodeEnvironment:  true,
	ErrCodeInternal:     false,
}

// IsRetryableCode returns true if the error code describes a worker-side
// failure that the supervisor recovers from by restarting.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// IsFatalCode returns true if the error code must abort startup.
func IsFatalCode(code ErrorCode) bool {
	return code == ErrCodeInvalidConfig || code == ErrCodeAlreadyRunning
}
