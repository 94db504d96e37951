package bootstrap

import (
	"io"
	"os"
	"time"

	"github.com/kbukum/keepalive/config"
	"github.com/kbukum/keepalive/logger"
	"github.com/kbukum/keepalive/supervisor"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout *time.Duration
	signals         []os.Signal
	supervisorOpts  []supervisor.Option
	fs              config.FileSystem
	summaryOut      io.Writer
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is initialized from the config's Logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout bounds how long component shutdown may take.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithSignals replaces the signals that stop the supervisor.
// The default is SIGINT and SIGTERM.
func WithSignals(sigs ...os.Signal) Option {
	return func(o *appOptions) {
		o.signals = sigs
	}
}

// WithSupervisorOptions passes extra options to the supervisor, after the
// ones derived from config.
func WithSupervisorOptions(opts ...supervisor.Option) Option {
	return func(o *appOptions) {
		o.supervisorOpts = append(o.supervisorOpts, opts...)
	}
}

// WithFileSystem sets the file system used to read the worker env file.
func WithFileSystem(fs config.FileSystem) Option {
	return func(o *appOptions) {
		o.fs = fs
	}
}

// WithSummaryWriter sets where the startup summary is printed.
// The default is stderr; io.Discard silences it.
func WithSummaryWriter(w io.Writer) Option {
	return func(o *appOptions) {
		o.summaryOut = w
	}
}
