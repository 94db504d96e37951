package supervisor

// State is the supervisor's lifecycle state.
type State int32

const (
	// Idle: created, Run not yet called.
	Idle State = iota
	// Running: a worker has been launched and is being waited on.
	Running
	// Sleeping: the worker exited; waiting out the restart delay.
	Sleeping
	// Stopping: a stop was requested; the running worker is being terminated.
	Stopping
	// Stopped: Run has returned. Terminal.
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Sleeping:
		return "sleeping"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// TerminationReason explains why Run returned.
type TerminationReason int

const (
	// RequestedStop: the stop signal was observed. The only way the loop ends.
	RequestedStop TerminationReason = iota + 1
	// AlreadyRan: Run was called on a supervisor that has already run.
	AlreadyRan
)

func (r TerminationReason) String() string {
	switch r {
	case RequestedStop:
		return "requested_stop"
	case AlreadyRan:
		return "already_ran"
	default:
		return "unknown"
	}
}
