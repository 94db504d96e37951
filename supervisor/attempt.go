package supervisor

import (
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/keepalive/errors"
)

// Outcome classifies how a run attempt ended.
type Outcome string

const (
	OutcomeRunning      Outcome = "running"
	OutcomeExited       Outcome = "exited"
	OutcomeSignaled     Outcome = "signaled"
	OutcomeLaunchFailed Outcome = "launch_failed"
	OutcomeStopped      Outcome = "stopped"
)

// RunAttempt records one launch of the worker.
type RunAttempt struct {
	ID        uuid.UUID
	Number    int
	StartedAt time.Time
	EndedAt   time.Time
	Pid       int
	// ExitCode is set once the worker has exited with a code.
	ExitCode *int
	// Signal is the terminating signal for abnormal exits.
	Signal string
	// LaunchErr is set when the worker never started.
	LaunchErr error
	// Stopped is true when the supervisor terminated the worker on a stop request.
	Stopped bool
}

// Ended reports whether the attempt is over.
func (a RunAttempt) Ended() bool {
	return !a.EndedAt.IsZero()
}

// Duration is the worker's lifetime, or time since start while running.
func (a RunAttempt) Duration() time.Duration {
	if a.EndedAt.IsZero() {
		return time.Since(a.StartedAt)
	}
	return a.EndedAt.Sub(a.StartedAt)
}

// Outcome classifies the attempt.
func (a RunAttempt) Outcome() Outcome {
	switch {
	case a.LaunchErr != nil:
		return OutcomeLaunchFailed
	case !a.Ended():
		return OutcomeRunning
	case a.Stopped:
		return OutcomeStopped
	case a.Signal != "":
		return OutcomeSignaled
	default:
		return OutcomeExited
	}
}

// Err describes a worker-side failure, or nil for a clean exit, a stop or a
// still-running attempt.
func (a RunAttempt) Err() error {
	switch a.Outcome() {
	case OutcomeLaunchFailed:
		return a.LaunchErr
	case OutcomeSignaled:
		return errors.AbnormalExit(a.Signal)
	case OutcomeExited:
		if a.ExitCode != nil && *a.ExitCode != 0 {
			return errors.NonZeroExit(*a.ExitCode)
		}
	}
	return nil
}
