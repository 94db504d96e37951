package supervisor_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/keepalive/errors"
	"github.com/kbukum/keepalive/observability"
	"github.com/kbukum/keepalive/supervisor"
)

func runAsync(ctx context.Context, s *supervisor.Supervisor) <-chan supervisor.TerminationReason {
	out := make(chan supervisor.TerminationReason, 1)
	go func() { out <- s.Run(ctx) }()
	return out
}

func awaitReason(t *testing.T, ch <-chan supervisor.TerminationReason, within time.Duration) supervisor.TerminationReason {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(within):
		t.Fatalf("Run did not return within %s", within)
		return 0
	}
}

func TestRunRelaunchesAfterEachExit(t *testing.T) {
	const delay = 100 * time.Millisecond

	launcher := newFakeLauncher(
		outcome{code: 1},
		outcome{code: 0},
		outcome{code: 137},
	)
	rec := newRecorder()
	logs := &syncBuffer{}
	s := mustNew(t, supervisor.Config{
		Command:      []string{"/usr/local/bin/bot"},
		RestartDelay: delay,
	},
		supervisor.WithLauncher(launcher),
		supervisor.WithObserver(rec),
		supervisor.WithLogger(testLogger(logs)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := runAsync(ctx, s)

	var spawnTimes []time.Time
	for i := 0; i < 4; i++ {
		awaitAttempt(t, rec.spawnCh, fmt.Sprintf("spawn %d", i+1))
		spawnTimes = append(spawnTimes, time.Now())
	}
	cancel()

	if r := awaitReason(t, done, 2*time.Second); r != supervisor.RequestedStop {
		t.Fatalf("expected RequestedStop, got %s", r)
	}

	if launcher.Calls() != 4 {
		t.Errorf("expected 4 launches (3 scripted + 1 held), got %d", launcher.Calls())
	}
	if launcher.Overlaps() != 0 {
		t.Errorf("expected no overlapping workers, got %d", launcher.Overlaps())
	}

	for i := 0; i < 3; i++ {
		exited := launcher.Handle(i).ExitedAt()
		if gap := spawnTimes[i+1].Sub(exited); gap < delay-10*time.Millisecond {
			t.Errorf("relaunch %d happened %s after exit, want >= %s", i+2, gap, delay)
		}
	}

	exits := rec.Exits()
	if len(exits) != 4 {
		t.Fatalf("expected 4 exits, got %d", len(exits))
	}
	if *exits[0].ExitCode != 1 || *exits[1].ExitCode != 0 {
		t.Errorf("unexpected exit codes %d, %d", *exits[0].ExitCode, *exits[1].ExitCode)
	}
	// 137 is only a code here; the worker was not killed by a signal.
	if exits[2].Outcome() != supervisor.OutcomeExited || *exits[2].ExitCode != 137 {
		t.Errorf("expected third attempt exited with 137, got %s", exits[2].Outcome())
	}
	if !errors.HasCode(exits[2].Err(), errors.ErrCodeNonZeroExit) {
		t.Errorf("expected NONZERO_EXIT for code 137, got %v", exits[2].Err())
	}
	if exits[3].Outcome() != supervisor.OutcomeStopped {
		t.Errorf("expected last attempt stopped, got %s", exits[3].Outcome())
	}

	if n := logs.Count(t, "worker started"); n != 4 {
		t.Errorf("expected 4 'worker started' lines, got %d", n)
	}
	if n := logs.Count(t, "worker exited"); n != 3 {
		t.Errorf("expected 3 'worker exited' lines, got %d", n)
	}
	if n := logs.Count(t, "restarting worker after delay"); n != 3 {
		t.Errorf("expected 3 pause lines, got %d", n)
	}
	if n := logs.Count(t, "worker stopped"); n != 1 {
		t.Errorf("expected 1 'worker stopped' line, got %d", n)
	}
}

func TestRunStopBeforeStart(t *testing.T) {
	launcher := newFakeLauncher()
	s := mustNew(t, supervisor.Config{Command: []string{"bot"}},
		supervisor.WithLauncher(launcher),
		supervisor.WithLogger(testLogger(&syncBuffer{})),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if r := s.Run(ctx); r != supervisor.RequestedStop {
		t.Fatalf("expected RequestedStop, got %s", r)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("expected immediate return, took %s", elapsed)
	}
	if launcher.Calls() != 0 {
		t.Errorf("expected zero spawns, got %d", launcher.Calls())
	}
	if s.State() != supervisor.Stopped {
		t.Errorf("expected Stopped, got %s", s.State())
	}
}

func TestRunStopMethodBeforeStart(t *testing.T) {
	launcher := newFakeLauncher()
	s := mustNew(t, supervisor.Config{Command: []string{"bot"}},
		supervisor.WithLauncher(launcher),
		supervisor.WithLogger(testLogger(&syncBuffer{})),
	)
	s.Stop()
	s.Stop()

	done := runAsync(context.Background(), s)
	if r := awaitReason(t, done, time.Second); r != supervisor.RequestedStop {
		t.Fatalf("expected RequestedStop, got %s", r)
	}
	if launcher.Calls() != 0 {
		t.Errorf("expected zero spawns, got %d", launcher.Calls())
	}
}

func TestRunStopDuringDelay(t *testing.T) {
	launcher := newFakeLauncher(outcome{code: 1})
	rec := newRecorder()
	s := mustNew(t, supervisor.Config{
		Command:      []string{"bot"},
		RestartDelay: 10 * time.Second,
	},
		supervisor.WithLauncher(launcher),
		supervisor.WithObserver(rec),
		supervisor.WithLogger(testLogger(&syncBuffer{})),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := runAsync(ctx, s)

	awaitAttempt(t, rec.exitCh, "first exit")
	deadline := time.Now().Add(2 * time.Second)
	for s.State() != supervisor.Sleeping && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if s.State() != supervisor.Sleeping {
		t.Fatalf("expected Sleeping, got %s", s.State())
	}

	start := time.Now()
	cancel()
	if r := awaitReason(t, done, time.Second); r != supervisor.RequestedStop {
		t.Fatalf("expected RequestedStop, got %s", r)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("expected prompt return from delay, took %s", elapsed)
	}
	if launcher.Calls() != 1 {
		t.Errorf("expected no relaunch after stop, got %d launches", launcher.Calls())
	}
}

func TestRunStopWhileRunningTerminatesWorker(t *testing.T) {
	launcher := newFakeLauncher(outcome{hold: true})
	launcher.exitDelayOnTerm = 100 * time.Millisecond
	rec := newRecorder()
	s := mustNew(t, supervisor.Config{
		Command:     []string{"bot"},
		GracePeriod: 3 * time.Second,
	},
		supervisor.WithLauncher(launcher),
		supervisor.WithObserver(rec),
		supervisor.WithLogger(testLogger(&syncBuffer{})),
	)

	done := runAsync(context.Background(), s)
	awaitAttempt(t, rec.spawnCh, "spawn")

	s.Stop()
	if r := awaitReason(t, done, 2*time.Second); r != supervisor.RequestedStop {
		t.Fatalf("expected RequestedStop, got %s", r)
	}

	h := launcher.Handle(0)
	select {
	case grace := <-h.terminated:
		if grace != 3*time.Second {
			t.Errorf("expected grace 3s, got %s", grace)
		}
	default:
		t.Fatal("expected Terminate to be called")
	}
	select {
	case <-h.Done():
	default:
		t.Fatal("Run returned before the worker exited")
	}

	exits := rec.Exits()
	if len(exits) != 1 || !exits[0].Stopped || exits[0].Err() != nil {
		t.Errorf("expected one stopped attempt without error, got %+v", exits)
	}
	if launcher.Calls() != 1 {
		t.Errorf("expected a single launch, got %d", launcher.Calls())
	}
}

func TestRunKillCutsGracePeriod(t *testing.T) {
	launcher := newFakeLauncher(outcome{hold: true})
	launcher.exitDelayOnTerm = 10 * time.Second
	rec := newRecorder()
	logs := &syncBuffer{}
	s := mustNew(t, supervisor.Config{
		Command:     []string{"bot"},
		GracePeriod: 10 * time.Second,
	},
		supervisor.WithLauncher(launcher),
		supervisor.WithObserver(rec),
		supervisor.WithLogger(testLogger(logs)),
	)

	done := runAsync(context.Background(), s)
	awaitAttempt(t, rec.spawnCh, "spawn")

	s.Stop()
	h := launcher.Handle(0)
	select {
	case <-h.terminated:
	case <-time.After(2 * time.Second):
		t.Fatal("expected Terminate after Stop")
	}

	start := time.Now()
	s.Kill()
	if r := awaitReason(t, done, 2*time.Second); r != supervisor.RequestedStop {
		t.Fatalf("expected RequestedStop, got %s", r)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("expected kill to skip the grace period, took %s", elapsed)
	}
	select {
	case <-h.killed:
	default:
		t.Fatal("expected Kill on the worker handle")
	}
	if n := logs.Count(t, "killing worker"); n != 1 {
		t.Errorf("expected 1 'killing worker' line, got %d", n)
	}
	if exits := rec.Exits(); len(exits) != 1 || !exits[0].Stopped {
		t.Errorf("expected one stopped attempt, got %+v", exits)
	}
}

func TestRunLaunchFailureRetries(t *testing.T) {
	launcher := newFakeLauncher(
		outcome{launchErr: errNotFound},
		outcome{launchErr: errNotFound},
	)
	rec := newRecorder()
	logs := &syncBuffer{}
	s := mustNew(t, supervisor.Config{
		Command:      []string{"/nonexistent/worker"},
		RestartDelay: 20 * time.Millisecond,
	},
		supervisor.WithLauncher(launcher),
		supervisor.WithObserver(rec),
		supervisor.WithLogger(testLogger(logs)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := runAsync(ctx, s)

	first := awaitAttempt(t, rec.exitCh, "first launch failure")
	second := awaitAttempt(t, rec.exitCh, "second launch failure")
	awaitAttempt(t, rec.spawnCh, "successful spawn")
	cancel()
	awaitReason(t, done, 2*time.Second)

	for _, a := range []supervisor.RunAttempt{first, second} {
		if a.Outcome() != supervisor.OutcomeLaunchFailed {
			t.Errorf("attempt %d: expected launch_failed, got %s", a.Number, a.Outcome())
		}
		if !errors.HasCode(a.Err(), errors.ErrCodeLaunchFailed) {
			t.Errorf("attempt %d: expected LAUNCH_FAILED, got %v", a.Number, a.Err())
		}
	}
	if launcher.Calls() != 3 {
		t.Errorf("expected 3 launch calls, got %d", launcher.Calls())
	}
	if spawns := rec.Spawns(); len(spawns) != 1 || spawns[0].Number != 3 {
		t.Errorf("expected only attempt 3 to spawn, got %+v", spawns)
	}

	failed := 0
	for _, line := range logs.Lines(t) {
		if line["message"] == "worker launch failed" {
			failed++
			if line["code"] != "LAUNCH_FAILED" {
				t.Errorf("expected code LAUNCH_FAILED, got %v", line["code"])
			}
		}
	}
	if failed != 2 {
		t.Errorf("expected 2 launch failure lines, got %d", failed)
	}
}

func TestRunNoSpawnWhenStopArrivesAfterExit(t *testing.T) {
	launcher := newFakeLauncher(outcome{code: 2})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sleeps atomic.Int32
	s := mustNew(t, supervisor.Config{Command: []string{"bot"}, RestartDelay: time.Millisecond},
		supervisor.WithLauncher(launcher),
		supervisor.WithLogger(testLogger(&syncBuffer{})),
		// Stop lands in the window between the exit and the next spawn.
		supervisor.WithObserver(supervisor.ObserverFuncs{Exit: func(supervisor.RunAttempt) { cancel() }}),
		supervisor.WithSleeper(supervisor.SleeperFunc(func(context.Context, time.Duration) error {
			sleeps.Add(1)
			return nil
		})),
	)

	if r := awaitReason(t, runAsync(ctx, s), 2*time.Second); r != supervisor.RequestedStop {
		t.Fatalf("expected RequestedStop, got %s", r)
	}
	if launcher.Calls() != 1 {
		t.Errorf("expected exactly one launch, got %d", launcher.Calls())
	}
	if sleeps.Load() != 0 {
		t.Errorf("expected no pause after stop, got %d", sleeps.Load())
	}
}

func TestRunStateTransitions(t *testing.T) {
	launcher := newFakeLauncher(outcome{code: 0})
	rec := newRecorder()
	s := mustNew(t, supervisor.Config{Command: []string{"bot"}, RestartDelay: 10 * time.Millisecond},
		supervisor.WithLauncher(launcher),
		supervisor.WithObserver(rec),
		supervisor.WithLogger(testLogger(&syncBuffer{})),
	)
	if s.State() != supervisor.Idle {
		t.Fatalf("expected Idle before Run, got %s", s.State())
	}

	done := runAsync(context.Background(), s)
	awaitAttempt(t, rec.spawnCh, "first spawn")
	awaitAttempt(t, rec.spawnCh, "second spawn")
	s.Stop()
	awaitReason(t, done, 2*time.Second)

	want := []supervisor.State{
		supervisor.Running, supervisor.Sleeping, supervisor.Running,
		supervisor.Stopping, supervisor.Stopped,
	}
	got := rec.States()
	if len(got) != len(want) {
		t.Fatalf("expected transitions %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transition %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestRunOnlyOnce(t *testing.T) {
	s := mustNew(t, supervisor.Config{Command: []string{"bot"}},
		supervisor.WithLauncher(newFakeLauncher()),
		supervisor.WithLogger(testLogger(&syncBuffer{})),
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Run(ctx)
	if r := s.Run(context.Background()); r != supervisor.AlreadyRan {
		t.Errorf("expected AlreadyRan, got %s", r)
	}
}

func TestRunEnvironmentPassedToLauncher(t *testing.T) {
	launcher := newFakeLauncher()
	rec := newRecorder()
	env := map[string]string{"TOKEN": "secret", "MODE": "prod"}
	s := mustNew(t, supervisor.Config{
		Command:     []string{"/bin/bot", "--serve"},
		Environment: env,
		Dir:         "/srv/bot",
	},
		supervisor.WithLauncher(launcher),
		supervisor.WithObserver(rec),
		supervisor.WithLogger(testLogger(&syncBuffer{})),
	)
	// Mutating the caller's map after New must not leak into the worker.
	env["TOKEN"] = "changed"

	done := runAsync(context.Background(), s)
	awaitAttempt(t, rec.spawnCh, "spawn")
	s.Stop()
	awaitReason(t, done, 2*time.Second)

	cmd := launcher.cmds[0]
	if cmd.Path != "/bin/bot" || len(cmd.Args) != 1 || cmd.Args[0] != "--serve" {
		t.Errorf("unexpected command %+v", cmd)
	}
	if cmd.Dir != "/srv/bot" {
		t.Errorf("expected dir /srv/bot, got %q", cmd.Dir)
	}
	if len(cmd.Env) != 2 || cmd.Env[0] != "MODE=prod" || cmd.Env[1] != "TOKEN=secret" {
		t.Errorf("unexpected env %v", cmd.Env)
	}
}

func TestRunNilEnvironmentInherits(t *testing.T) {
	launcher := newFakeLauncher()
	rec := newRecorder()
	s := mustNew(t, supervisor.Config{Command: []string{"bot"}},
		supervisor.WithLauncher(launcher),
		supervisor.WithObserver(rec),
		supervisor.WithLogger(testLogger(&syncBuffer{})),
	)
	done := runAsync(context.Background(), s)
	awaitAttempt(t, rec.spawnCh, "spawn")
	s.Stop()
	awaitReason(t, done, 2*time.Second)

	if launcher.cmds[0].Env != nil {
		t.Errorf("expected nil env (inherit), got %v", launcher.cmds[0].Env)
	}
}

func TestRunEnvironmentSource(t *testing.T) {
	launcher := newFakeLauncher(outcome{code: 0})
	rec := newRecorder()

	var calls atomic.Int32
	source := func() (map[string]string, error) {
		n := calls.Add(1)
		if n == 2 {
			return nil, fmt.Errorf("open .env: permission denied")
		}
		return map[string]string{"GENERATION": fmt.Sprint(n)}, nil
	}
	s := mustNew(t, supervisor.Config{Command: []string{"bot"}, RestartDelay: time.Millisecond},
		supervisor.WithLauncher(launcher),
		supervisor.WithObserver(rec),
		supervisor.WithLogger(testLogger(&syncBuffer{})),
		supervisor.WithEnvironmentSource(".env", source),
	)

	done := runAsync(context.Background(), s)
	awaitAttempt(t, rec.exitCh, "first exit")
	failed := awaitAttempt(t, rec.exitCh, "environment failure")
	awaitAttempt(t, rec.spawnCh, "first spawn")
	awaitAttempt(t, rec.spawnCh, "third attempt spawn")
	s.Stop()
	awaitReason(t, done, 2*time.Second)

	if !errors.HasCode(failed.Err(), errors.ErrCodeEnvironment) {
		t.Errorf("expected ENVIRONMENT_UNAVAILABLE, got %v", failed.Err())
	}
	if launcher.Calls() != 2 {
		t.Fatalf("expected 2 launcher calls, got %d", launcher.Calls())
	}
	if got := launcher.cmds[1].Env; len(got) != 1 || got[0] != "GENERATION=3" {
		t.Errorf("expected fresh environment on relaunch, got %v", got)
	}
}

func TestSnapshot(t *testing.T) {
	launcher := newFakeLauncher(outcome{code: 3})
	rec := newRecorder()
	s := mustNew(t, supervisor.Config{Command: []string{"bot"}, RestartDelay: time.Millisecond},
		supervisor.WithLauncher(launcher),
		supervisor.WithObserver(rec),
		supervisor.WithLogger(testLogger(&syncBuffer{})),
	)

	done := runAsync(context.Background(), s)
	awaitAttempt(t, rec.spawnCh, "first spawn")
	second := awaitAttempt(t, rec.spawnCh, "second spawn")

	snap := s.Snapshot()
	if snap.Attempts != 2 || snap.Restarts != 1 {
		t.Errorf("expected 2 attempts / 1 restart, got %d / %d", snap.Attempts, snap.Restarts)
	}
	if snap.Current == nil || snap.Current.ID != second.ID || snap.Current.Pid != second.Pid {
		t.Errorf("expected current attempt %s, got %+v", second.ID, snap.Current)
	}
	if snap.Last == nil || snap.Last.ExitCode == nil || *snap.Last.ExitCode != 3 {
		t.Errorf("expected last attempt with exit code 3, got %+v", snap.Last)
	}
	if !errors.HasCode(snap.Last.Err(), errors.ErrCodeNonZeroExit) {
		t.Errorf("expected NONZERO_EXIT, got %v", snap.Last.Err())
	}

	s.Stop()
	awaitReason(t, done, 2*time.Second)
	if final := s.Snapshot(); final.State != supervisor.Stopped || final.Current != nil {
		t.Errorf("expected stopped with no current attempt, got %+v", final)
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  supervisor.Config
	}{
		{"no command", supervisor.Config{}},
		{"blank command", supervisor.Config{Command: []string{" "}}},
		{"negative delay", supervisor.Config{Command: []string{"bot"}, RestartDelay: -time.Second}},
		{"negative grace", supervisor.Config{Command: []string{"bot"}, GracePeriod: -time.Second}},
		{"empty env key", supervisor.Config{Command: []string{"bot"}, Environment: map[string]string{"": "x"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := supervisor.New(tc.cfg)
			if !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("expected INVALID_CONFIG, got %v", err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := supervisor.DefaultConfig("bot", "--serve")
	if len(cfg.Command) != 2 || cfg.Command[0] != "bot" {
		t.Errorf("unexpected command %v", cfg.Command)
	}
	if cfg.RestartDelay != supervisor.DefaultRestartDelay {
		t.Errorf("expected default delay, got %s", cfg.RestartDelay)
	}
	if cfg.GracePeriod != supervisor.DefaultGracePeriod {
		t.Errorf("expected default grace, got %s", cfg.GracePeriod)
	}
}

func TestNewKeepsZeroDurations(t *testing.T) {
	s := mustNew(t, supervisor.Config{Command: []string{"bot"}})
	cfg := s.Config()
	if cfg.RestartDelay != 0 || cfg.GracePeriod != 0 {
		t.Errorf("expected zero delay and grace to be kept, got %s and %s", cfg.RestartDelay, cfg.GracePeriod)
	}
}

func TestRunSignaledExitRelaunches(t *testing.T) {
	launcher := newFakeLauncher(outcome{signal: "killed"})
	rec := newRecorder()
	s := mustNew(t, supervisor.Config{Command: []string{"bot"}, RestartDelay: time.Millisecond},
		supervisor.WithLauncher(launcher),
		supervisor.WithObserver(rec),
		supervisor.WithLogger(testLogger(&syncBuffer{})),
	)

	done := runAsync(context.Background(), s)
	first := awaitAttempt(t, rec.exitCh, "signaled exit")
	awaitAttempt(t, rec.spawnCh, "first spawn")
	awaitAttempt(t, rec.spawnCh, "relaunch")
	s.Stop()
	awaitReason(t, done, 2*time.Second)

	if first.Outcome() != supervisor.OutcomeSignaled || first.Signal != "killed" {
		t.Errorf("expected signaled attempt, got %s", first.Outcome())
	}
	if first.ExitCode != nil {
		t.Errorf("expected no exit code for a signaled worker, got %d", *first.ExitCode)
	}
	if !errors.HasCode(first.Err(), errors.ErrCodeAbnormalExit) {
		t.Errorf("expected ABNORMAL_EXIT, got %v", first.Err())
	}
}

func TestRunRecordsAttemptSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())

	launcher := newFakeLauncher(outcome{code: 4}, outcome{launchErr: errNotFound})
	rec := newRecorder()
	s := mustNew(t, supervisor.Config{Command: []string{"bot"}, RestartDelay: time.Millisecond},
		supervisor.WithLauncher(launcher),
		supervisor.WithObserver(rec),
		supervisor.WithLogger(testLogger(&syncBuffer{})),
		supervisor.WithTracer(tp.Tracer("test")),
	)

	done := runAsync(context.Background(), s)
	awaitAttempt(t, rec.spawnCh, "first spawn")
	awaitAttempt(t, rec.spawnCh, "third spawn")
	s.Stop()
	awaitReason(t, done, 2*time.Second)

	spans := exporter.GetSpans()
	if len(spans) != 3 {
		t.Fatalf("expected 3 attempt spans, got %d", len(spans))
	}
	outcomes := make([]string, 0, len(spans))
	for _, sp := range spans {
		if sp.Name != observability.SpanAttempt {
			t.Errorf("unexpected span name %q", sp.Name)
		}
		for _, kv := range sp.Attributes {
			if kv.Key == attribute.Key(observability.AttrAttemptOutcome) {
				outcomes = append(outcomes, kv.Value.AsString())
			}
		}
	}
	// Launch failures end their span without an outcome attribute.
	want := []string{"exited", "stopped"}
	if len(outcomes) != len(want) || outcomes[0] != want[0] || outcomes[1] != want[1] {
		t.Errorf("expected outcomes %v, got %v", want, outcomes)
	}
	if spans[0].Status.Code != codes.Error || spans[1].Status.Code != codes.Error {
		t.Errorf("expected error status on nonzero exit and launch failure, got %v / %v",
			spans[0].Status.Code, spans[1].Status.Code)
	}
	if spans[2].Status.Code == codes.Error {
		t.Error("expected stopped attempt span without error status")
	}
}
