package observability

// Span names.
const (
	SpanAttempt = "supervisor.attempt"
)

// Attribute keys recorded on attempt spans.
const (
	AttrAttemptNumber  = "attempt.number"
	AttrAttemptID      = "attempt.id"
	AttrAttemptOutcome = "attempt.outcome"
	AttrWorkerCommand  = "worker.command"
	AttrWorkerPid      = "worker.pid"
	AttrWorkerExitCode = "worker.exit_code"
	AttrWorkerSignal   = "worker.signal"
)
