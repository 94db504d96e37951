package supervisor

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/keepalive/errors"
	"github.com/kbukum/keepalive/logger"
	"github.com/kbukum/keepalive/observability"
	"github.com/kbukum/keepalive/process"
)

const tracerName = "github.com/kbukum/keepalive/supervisor"

// Supervisor runs the spawn, wait, pause, respawn loop for one worker.
type Supervisor struct {
	cfg       Config
	launcher  process.Launcher
	sleeper   Sleeper
	log       *logger.Logger
	tracer    trace.Tracer
	observers []Observer
	envName   string
	envSource EnvironmentFunc
	now       func() time.Time

	// span covers the lifetime of the current worker; loop-owned.
	span trace.Span

	state    atomic.Int32
	ran      atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	killCh   chan struct{}
	killOnce sync.Once

	// mu guards the attempt bookkeeping read by Snapshot.
	mu       sync.RWMutex
	attempts int
	current  *RunAttempt
	last     *RunAttempt
}

// Snapshot is a point-in-time view of the supervisor.
type Snapshot struct {
	State    State
	Attempts int
	// Restarts counts launches after the first.
	Restarts int
	Current  *RunAttempt
	Last     *RunAttempt
}

// New validates cfg and creates a Supervisor.
func New(cfg Config, opts ...Option) (*Supervisor, error) {
	cfg = cfg.clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Supervisor{
		cfg:      cfg,
		launcher: process.NewExecLauncher(),
		sleeper:  TimerSleeper{},
		log:      logger.WithComponent("supervisor"),
		tracer:   observability.Tracer(tracerName),
		now:      time.Now,
		stopCh:   make(chan struct{}),
		killCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns a copy of the supervisor configuration.
func (s *Supervisor) Config() Config {
	return s.cfg.clone()
}

// State returns the current lifecycle state.
func (s *Supervisor) State() State {
	return State(s.state.Load())
}

// Stop requests the loop to stop. Safe to call from any goroutine, any
// number of times, before or during Run.
func (s *Supervisor) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Kill stops the loop like Stop and cuts the grace period short: a worker
// that is being terminated, or is about to be, gets SIGKILL right away.
func (s *Supervisor) Kill() {
	s.Stop()
	s.killOnce.Do(func() { close(s.killCh) })
}

// Snapshot returns the current state and attempt bookkeeping.
func (s *Supervisor) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{State: s.State(), Attempts: s.attempts}
	if s.attempts > 1 {
		snap.Restarts = s.attempts - 1
	}
	if s.current != nil {
		cur := *s.current
		snap.Current = &cur
	}
	if s.last != nil {
		last := *s.last
		snap.Last = &last
	}
	return snap
}

// Run blocks, keeping the worker alive until ctx is cancelled or Stop is
// called. Worker failures never end the loop. Run may only be used once.
func (s *Supervisor) Run(ctx context.Context) TerminationReason {
	if !s.ran.CompareAndSwap(false, true) {
		return AlreadyRan
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	select {
	case <-s.stopCh:
		cancel()
	default:
	}
	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	defer func() {
		s.setState(Stopped)
		s.log.Info("supervisor stopped", logger.Fields("attempts", s.Snapshot().Attempts))
	}()

	for {
		// Checked before every launch so a stop that lands between an exit
		// and the next spawn never produces another worker.
		if ctx.Err() != nil {
			s.stopping()
			return RequestedStop
		}

		attempt, handle := s.spawn(ctx)
		if handle != nil {
			select {
			case <-handle.Done():
				s.finish(attempt, handle.Status(), false)
			case <-ctx.Done():
				s.stopping()
				s.terminate(attempt, handle)
				return RequestedStop
			}
		}

		if ctx.Err() != nil {
			s.stopping()
			return RequestedStop
		}

		s.setState(Sleeping)
		s.log.Info("restarting worker after delay", logger.Fields(
			logger.FieldDelay, s.cfg.RestartDelay.String(),
			logger.FieldAttempt, attempt.Number,
		))
		if err := s.sleeper.Sleep(ctx, s.cfg.RestartDelay); err != nil {
			s.stopping()
			return RequestedStop
		}
	}
}

// spawn launches one worker. A nil handle means the launch failed and the
// attempt is already recorded as finished.
func (s *Supervisor) spawn(ctx context.Context) (*RunAttempt, process.Handle) {
	s.mu.Lock()
	s.attempts++
	attempt := &RunAttempt{
		ID:        uuid.New(),
		Number:    s.attempts,
		StartedAt: s.now(),
	}
	s.current = attempt
	s.mu.Unlock()

	s.setState(Running)

	_, span := s.tracer.Start(ctx, observability.SpanAttempt, trace.WithAttributes(
		attribute.Int(observability.AttrAttemptNumber, attempt.Number),
		attribute.String(observability.AttrAttemptID, attempt.ID.String()),
		attribute.String(observability.AttrWorkerCommand, strings.Join(s.cfg.Command, " ")),
	))

	handle, err := s.launch()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "launch failed")
		span.End()
		s.mu.Lock()
		attempt.LaunchErr = err
		attempt.EndedAt = s.now()
		s.mu.Unlock()

		fields := logger.Fields(
			logger.FieldAttempt, attempt.Number,
			logger.FieldCommand, strings.Join(s.cfg.Command, " "),
		)
		if appErr, ok := errors.AsAppError(err); ok {
			fields[logger.FieldCode] = string(appErr.Code)
		}
		s.log.Error("worker launch failed", logger.MergeWithError(fields, err))
		s.retire(attempt)
		return attempt, nil
	}

	s.mu.Lock()
	attempt.Pid = handle.Pid()
	s.mu.Unlock()
	span.SetAttributes(attribute.Int(observability.AttrWorkerPid, attempt.Pid))
	s.span = span

	s.log.Info("worker started", logger.Fields(
		logger.FieldAttempt, attempt.Number,
		logger.FieldAttemptID, attempt.ID.String(),
		logger.FieldPid, attempt.Pid,
		logger.FieldCommand, strings.Join(s.cfg.Command, " "),
	))
	s.notifySpawn(*attempt)
	return attempt, handle
}

func (s *Supervisor) launch() (process.Handle, error) {
	env := s.cfg.Environment
	if s.envSource != nil {
		fresh, err := s.envSource()
		if err != nil {
			return nil, errors.EnvironmentUnavailable(s.envName, err)
		}
		env = fresh
	}

	cmd := process.Command{
		Path: s.cfg.Command[0],
		Args: s.cfg.Command[1:],
		Dir:  s.cfg.Dir,
	}
	if env != nil {
		cmd.Env = process.EnvList(env)
	}

	handle, err := s.launcher.Launch(cmd)
	if err != nil {
		return nil, errors.LaunchFailed(s.cfg.Command, err)
	}
	return handle, nil
}

// terminate stops a running worker and waits until it has been reaped.
func (s *Supervisor) terminate(attempt *RunAttempt, handle process.Handle) {
	s.log.Info("terminating worker", logger.Fields(
		logger.FieldPid, attempt.Pid,
		logger.FieldAttempt, attempt.Number,
		"grace_period", s.cfg.GracePeriod.String(),
	))
	handle.Terminate(s.cfg.GracePeriod)
	select {
	case <-handle.Done():
	case <-s.killCh:
		s.log.Warn("killing worker", logger.Fields(
			logger.FieldPid, attempt.Pid,
			logger.FieldAttempt, attempt.Number,
		))
		handle.Kill()
		<-handle.Done()
	}
	s.finish(attempt, handle.Status(), true)
}

// finish records the exit of a launched worker and logs it.
func (s *Supervisor) finish(attempt *RunAttempt, st process.ExitStatus, stopped bool) {
	s.mu.Lock()
	attempt.EndedAt = s.now()
	attempt.Stopped = stopped
	if st.Signaled {
		attempt.Signal = st.Signal
	} else {
		code := st.Code
		attempt.ExitCode = &code
	}
	s.mu.Unlock()

	fields := logger.Fields(
		logger.FieldAttempt, attempt.Number,
		logger.FieldPid, attempt.Pid,
	)
	if attempt.ExitCode != nil {
		fields[logger.FieldExitCode] = *attempt.ExitCode
	}
	if attempt.Signal != "" {
		fields[logger.FieldSignal] = attempt.Signal
	}
	if st.Err != nil {
		fields = logger.MergeWithError(fields, st.Err)
	}
	fields = logger.MergeWithDuration(fields, attempt.Duration())
	s.endSpan(attempt)

	switch {
	case stopped:
		s.log.Info("worker stopped", fields)
	case st.Success():
		s.log.Info("worker exited", fields)
	default:
		if appErr, ok := errors.AsAppError(attempt.Err()); ok {
			fields[logger.FieldCode] = string(appErr.Code)
		}
		s.log.Warn("worker exited", fields)
	}

	s.retire(attempt)
}

// retire moves a finished attempt from current to last.
func (s *Supervisor) retire(attempt *RunAttempt) {
	s.mu.Lock()
	s.last = attempt
	if s.current == attempt {
		s.current = nil
	}
	snapshot := *attempt
	s.mu.Unlock()

	for _, o := range s.observers {
		o.OnExit(snapshot)
	}
}

func (s *Supervisor) endSpan(attempt *RunAttempt) {
	if s.span == nil {
		return
	}
	s.span.SetAttributes(attribute.String(observability.AttrAttemptOutcome, string(attempt.Outcome())))
	if attempt.ExitCode != nil {
		s.span.SetAttributes(attribute.Int(observability.AttrWorkerExitCode, *attempt.ExitCode))
	}
	if attempt.Signal != "" {
		s.span.SetAttributes(attribute.String(observability.AttrWorkerSignal, attempt.Signal))
	}
	if err := attempt.Err(); err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, string(attempt.Outcome()))
	}
	s.span.End()
	s.span = nil
}

func (s *Supervisor) stopping() {
	if s.State() == Stopping {
		return
	}
	s.setState(Stopping)
	s.log.Info("stop requested")
}

func (s *Supervisor) setState(to State) {
	from := State(s.state.Swap(int32(to)))
	if from == to {
		return
	}
	s.log.Debug("state changed", logger.Fields("from", from.String(), logger.FieldState, to.String()))
	for _, o := range s.observers {
		o.OnStateChange(from, to)
	}
}

func (s *Supervisor) notifySpawn(attempt RunAttempt) {
	for _, o := range s.observers {
		o.OnSpawn(attempt)
	}
}
