package process

import (
	"fmt"
	"time"
)

// Launcher starts worker processes.
type Launcher interface {
	// Launch starts cmd and returns a handle to the running process.
	// An error means the process never started.
	Launch(cmd Command) (Handle, error)
}

// Handle is a running (or finished) worker process.
type Handle interface {
	// Pid returns the OS process identifier.
	Pid() int
	// Done is closed once the process has exited and been reaped.
	Done() <-chan struct{}
	// Status returns the exit status. Only meaningful after Done is closed.
	Status() ExitStatus
	// Terminate asks the process to exit, escalating to a forced kill if it
	// is still alive after grace. It does not wait; callers wait on Done.
	Terminate(grace time.Duration)
	// Kill forces the process to exit now. It does not wait either.
	Kill()
}

// ExitStatus describes how a worker process ended.
type ExitStatus struct {
	// Code is the exit code. -1 if the process was killed by a signal.
	Code int
	// Signaled is true when the process was terminated by a signal.
	Signaled bool
	// Signal is the signal name when Signaled is true.
	Signal string
	// Err is set when waiting on the process failed for a reason other than
	// a non-zero exit (for example an I/O copy error).
	Err error
}

// Success reports a clean zero exit.
func (s ExitStatus) Success() bool {
	return !s.Signaled && s.Code == 0 && s.Err == nil
}

// Abnormal reports a signal death rather than a regular exit.
func (s ExitStatus) Abnormal() bool {
	return s.Signaled
}

// String returns a short human-readable description.
func (s ExitStatus) String() string {
	switch {
	case s.Signaled:
		return fmt.Sprintf("signal: %s", s.Signal)
	case s.Err != nil:
		return fmt.Sprintf("exit code %d (%v)", s.Code, s.Err)
	default:
		return fmt.Sprintf("exit code %d", s.Code)
	}
}
