package supervisor

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/keepalive/logger"
	"github.com/kbukum/keepalive/process"
)

// Option configures a Supervisor.
type Option func(*Supervisor)

// EnvironmentFunc produces the worker environment right before a launch.
type EnvironmentFunc func() (map[string]string, error)

// WithLauncher replaces the default ExecLauncher.
func WithLauncher(l process.Launcher) Option {
	return func(s *Supervisor) { s.launcher = l }
}

// WithSleeper replaces the default TimerSleeper.
func WithSleeper(sl Sleeper) Option {
	return func(s *Supervisor) { s.sleeper = sl }
}

// WithLogger sets the logger used for lifecycle lines.
func WithLogger(l *logger.Logger) Option {
	return func(s *Supervisor) { s.log = l }
}

// WithObserver registers an observer. May be given more than once.
func WithObserver(o Observer) Option {
	return func(s *Supervisor) { s.observers = append(s.observers, o) }
}

// WithTracer sets the tracer used for per-attempt spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Supervisor) { s.tracer = t }
}

// WithClock overrides the time source for attempt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Supervisor) { s.now = now }
}

// WithEnvironmentSource re-evaluates the worker environment before every
// launch instead of using Config.Environment. A failure counts as a failed
// launch for that attempt.
func WithEnvironmentSource(name string, fn EnvironmentFunc) Option {
	return func(s *Supervisor) {
		s.envName = name
		s.envSource = fn
	}
}
