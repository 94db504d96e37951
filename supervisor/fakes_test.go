package supervisor_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/keepalive/logger"
	"github.com/kbukum/keepalive/process"
	"github.com/kbukum/keepalive/supervisor"
)

// outcome scripts one launch of the fake launcher.
type outcome struct {
	code      int
	signal    string
	launchErr error
	lifetime  time.Duration
	// hold keeps the worker alive until Terminate.
	hold bool
}

// fakeLauncher hands out scripted handles and checks that lifetimes never overlap.
type fakeLauncher struct {
	mu       sync.Mutex
	script   []outcome
	calls    int
	alive    int
	overlaps int
	handles  []*fakeHandle
	cmds     []process.Command
	// exitDelayOnTerm is how long a held worker takes to die after Terminate.
	exitDelayOnTerm time.Duration
}

func newFakeLauncher(script ...outcome) *fakeLauncher {
	return &fakeLauncher{script: script}
}

func (l *fakeLauncher) Launch(cmd process.Command) (process.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	o := outcome{hold: true}
	if l.calls < len(l.script) {
		o = l.script[l.calls]
	}
	l.calls++
	l.cmds = append(l.cmds, cmd)

	if o.launchErr != nil {
		return nil, o.launchErr
	}
	if l.alive > 0 {
		l.overlaps++
	}
	l.alive++

	h := &fakeHandle{
		pid:        1000 + l.calls,
		done:       make(chan struct{}),
		launcher:   l,
		termDelay:  l.exitDelayOnTerm,
		terminated: make(chan time.Duration, 1),
		killed:     make(chan struct{}, 1),
	}
	l.handles = append(l.handles, h)

	if !o.hold {
		lifetime := o.lifetime
		if lifetime == 0 {
			lifetime = 5 * time.Millisecond
		}
		st := process.ExitStatus{Code: o.code}
		if o.signal != "" {
			st = process.ExitStatus{Code: -1, Signaled: true, Signal: o.signal}
		}
		time.AfterFunc(lifetime, func() { h.exit(st) })
	}
	return h, nil
}

func (l *fakeLauncher) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func (l *fakeLauncher) Overlaps() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.overlaps
}

func (l *fakeLauncher) Handle(i int) *fakeHandle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handles[i]
}

type fakeHandle struct {
	pid        int
	done       chan struct{}
	once       sync.Once
	status     process.ExitStatus
	launcher   *fakeLauncher
	termDelay  time.Duration
	terminated chan time.Duration
	killed     chan struct{}
	exitedAt   time.Time
}

func (h *fakeHandle) Pid() int { return h.pid }

func (h *fakeHandle) Done() <-chan struct{} { return h.done }

func (h *fakeHandle) Status() process.ExitStatus {
	<-h.done
	return h.status
}

func (h *fakeHandle) ExitedAt() time.Time {
	<-h.done
	return h.exitedAt
}

func (h *fakeHandle) Terminate(grace time.Duration) {
	select {
	case h.terminated <- grace:
	default:
	}
	time.AfterFunc(h.termDelay, func() {
		h.exit(process.ExitStatus{Code: -1, Signaled: true, Signal: "terminated"})
	})
}

func (h *fakeHandle) Kill() {
	select {
	case h.killed <- struct{}{}:
	default:
	}
	h.exit(process.ExitStatus{Code: -1, Signaled: true, Signal: "killed"})
}

func (h *fakeHandle) exit(st process.ExitStatus) {
	h.once.Do(func() {
		h.launcher.mu.Lock()
		h.launcher.alive--
		h.launcher.mu.Unlock()
		h.status = st
		h.exitedAt = time.Now()
		close(h.done)
	})
}

// recorder is an Observer that keeps every event and signals spawns/exits.
type recorder struct {
	mu      sync.Mutex
	states  []supervisor.State
	spawns  []supervisor.RunAttempt
	exits   []supervisor.RunAttempt
	spawnCh chan supervisor.RunAttempt
	exitCh  chan supervisor.RunAttempt
}

func newRecorder() *recorder {
	return &recorder{
		spawnCh: make(chan supervisor.RunAttempt, 64),
		exitCh:  make(chan supervisor.RunAttempt, 64),
	}
}

func (r *recorder) OnStateChange(_, to supervisor.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, to)
}

func (r *recorder) OnSpawn(a supervisor.RunAttempt) {
	r.mu.Lock()
	r.spawns = append(r.spawns, a)
	r.mu.Unlock()
	r.spawnCh <- a
}

func (r *recorder) OnExit(a supervisor.RunAttempt) {
	r.mu.Lock()
	r.exits = append(r.exits, a)
	r.mu.Unlock()
	r.exitCh <- a
}

func (r *recorder) States() []supervisor.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]supervisor.State(nil), r.states...)
}

func (r *recorder) Exits() []supervisor.RunAttempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]supervisor.RunAttempt(nil), r.exits...)
}

func (r *recorder) Spawns() []supervisor.RunAttempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]supervisor.RunAttempt(nil), r.spawns...)
}

func awaitAttempt(t *testing.T, ch <-chan supervisor.RunAttempt, what string) supervisor.RunAttempt {
	t.Helper()
	select {
	case a := <-ch:
		return a
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		return supervisor.RunAttempt{}
	}
}

// syncBuffer is a goroutine-safe log sink.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Lines decodes the JSON log lines.
func (b *syncBuffer) Lines(t *testing.T) []map[string]interface{} {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []map[string]interface{}
	for _, raw := range strings.Split(strings.TrimSpace(b.buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			t.Fatalf("bad log line %q: %v", raw, err)
		}
		out = append(out, line)
	}
	return out
}

// Count returns how many lines carry msg.
func (b *syncBuffer) Count(t *testing.T, msg string) int {
	n := 0
	for _, line := range b.Lines(t) {
		if line["message"] == msg {
			n++
		}
	}
	return n
}

func testLogger(buf *syncBuffer) *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, "keepalive", buf)
}

func mustNew(t *testing.T, cfg supervisor.Config, opts ...supervisor.Option) *supervisor.Supervisor {
	t.Helper()
	s, err := supervisor.New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

var errNotFound = fmt.Errorf("fork/exec /nonexistent/worker: no such file or directory")
