package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/kbukum/keepalive/component"
	"github.com/kbukum/keepalive/config"
	"github.com/kbukum/keepalive/logger"
	"github.com/kbukum/keepalive/observability"
	"github.com/kbukum/keepalive/server"
	"github.com/kbukum/keepalive/supervisor"
	"github.com/kbukum/keepalive/version"
)

// App is a configured keepalive process: one supervisor plus the components
// that support it.
type App struct {
	Name       string
	Version    string
	Cfg        *config.Config
	Components *component.Registry
	Logger     *logger.Logger
	Summary    *Summary
	Supervisor *supervisor.Supervisor

	gracefulTimeout time.Duration
	signals         []os.Signal

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp applies defaults to cfg, validates it and builds the supervisor and
// its components. Nothing is started until Run.
func NewApp(cfg *config.Config, opts ...Option) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := resolveOptions(opts)
	app := &App{
		Name:            cfg.Name,
		Version:         version.Get().Short(),
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
		signals:         []os.Signal{unix.SIGINT, unix.SIGTERM},
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if len(o.signals) > 0 {
		app.signals = o.signals
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&cfg.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	app.Components = component.NewRegistry(app.Logger)
	app.Summary = NewSummary(app.Name, app.Version, o.summaryOut)

	if cfg.LockFile != "" {
		if err := app.RegisterComponent(NewLockComponent(cfg.LockFile)); err != nil {
			return nil, err
		}
	}
	if cfg.Tracing.Enabled {
		if err := app.RegisterComponent(observability.NewTracerComponent(cfg.Tracing)); err != nil {
			return nil, err
		}
	}

	sup, err := app.buildSupervisor(o)
	if err != nil {
		return nil, err
	}
	app.Supervisor = sup

	if cfg.Status.Enabled {
		srv := server.New(cfg.Status, app.Logger)
		srv.ApplyDefaults(sup, app.Components.HealthAll, version.Get())
		if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// buildSupervisor converts the supervisor section. With an env file the
// environment is re-read before every launch; otherwise it is fixed now.
func (a *App) buildSupervisor(o *appOptions) (*supervisor.Supervisor, error) {
	settings := a.Cfg.SupervisorSettings()
	workerEnv := a.Cfg.Supervisor.WorkerEnv(o.fs)

	supOpts := []supervisor.Option{
		supervisor.WithLogger(a.Logger.WithComponent("supervisor")),
	}
	if a.Cfg.Supervisor.EnvFile != "" {
		supOpts = append(supOpts, supervisor.WithEnvironmentSource(a.Cfg.Supervisor.EnvFile, workerEnv.Load))
	} else {
		env, err := workerEnv.Load()
		if err != nil {
			return nil, err
		}
		settings.Environment = env
	}
	supOpts = append(supOpts, o.supervisorOpts...)

	a.Summary.SetWorker(WorkerInfo{
		Command:      strings.Join(settings.Command, " "),
		Dir:          settings.Dir,
		Env:          describeEnv(a.Cfg.Supervisor),
		RestartDelay: a.Cfg.Supervisor.RestartDelay,
		GracePeriod:  a.Cfg.Supervisor.GracePeriod,
	})

	return supervisor.New(settings, supOpts...)
}

// RegisterComponent adds a component to the application's registry.
func (a *App) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// Stop asks the supervisor to stop. Safe to call from any goroutine.
func (a *App) Stop() {
	a.Supervisor.Stop()
}

// Run starts the components, then runs the supervisor loop until ctx is
// cancelled, Stop is called or one of the stop signals arrives. Components
// are stopped before Run returns. The error is nil on a clean stop.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, a.signals...)
	defer signal.Stop(sigCh)

	finished := make(chan struct{})
	defer close(finished)
	go a.watchSignals(ctx, sigCh, cancel, finished)

	if err := a.startup(ctx); err != nil {
		if stopErr := a.stop(); stopErr != nil {
			a.Logger.Warn("shutdown after failed startup reported errors", logger.ErrorFields("stop", stopErr))
		}
		return err
	}

	reason := a.Supervisor.Run(ctx)
	a.Logger.Info("supervisor loop ended", map[string]interface{}{
		"reason": reason.String(),
	})

	stopErr := a.stop()
	if reason == supervisor.AlreadyRan {
		return fmt.Errorf("supervisor has already run")
	}
	return stopErr
}

// watchSignals cancels ctx on the first signal and kills the worker on the
// second. After that the signals are released, so a third one gets the
// default disposition.
func (a *App) watchSignals(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc, finished <-chan struct{}) {
	select {
	case sig := <-sigCh:
		a.Logger.Info("received signal, stopping supervisor", map[string]interface{}{
			"signal": sig.String(),
		})
		cancel()
	case <-ctx.Done():
		return
	}

	// ctx is cancelled now, so wait for Run to return instead.
	select {
	case sig := <-sigCh:
		a.Logger.Warn("received second signal, killing worker", map[string]interface{}{
			"signal": sig.String(),
		})
		signal.Stop(sigCh)
		a.Supervisor.Kill()
	case <-finished:
	}
}

// startup starts components and runs the start and ready hooks.
func (a *App) startup(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("starting keepalive", map[string]interface{}{
		"name":    a.Name,
		"version": a.Version,
		"command": a.Summary.worker.Command,
	})

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("ready check reported issues", logger.ErrorFields("ready_check", err))
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.Summary.DisplaySummary(a.Components)
	return nil
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// stop runs the stop hooks and stops all components within the graceful timeout.
func (a *App) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("onStop hook error", logger.ErrorFields("on_stop", err))
		shutdownErr = err
	}

	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("shutdown completed with errors", logger.ErrorFields("stop_components", err))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	a.Logger.Info("keepalive shutdown complete")
	return shutdownErr
}

func describeEnv(c config.SupervisorConfig) string {
	switch {
	case c.EnvFile != "" && c.InheritEnv:
		return "inherited + " + c.EnvFile + " (re-read per launch)"
	case c.EnvFile != "":
		return c.EnvFile + " (re-read per launch)"
	case c.InheritEnv:
		return "inherited"
	default:
		return "empty"
	}
}
