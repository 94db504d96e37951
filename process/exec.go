package process

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// ExecLauncher launches workers as OS processes, each in its own process
// group so termination reaches the whole tree.
type ExecLauncher struct {
	// Stdout and Stderr are used when the Command does not set its own.
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecLauncher creates a launcher that forwards worker output to the
// supervisor's own stdout and stderr.
func NewExecLauncher() *ExecLauncher {
	return &ExecLauncher{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Launch starts the command.
func (l *ExecLauncher) Launch(cmd Command) (Handle, error) {
	if cmd.Path == "" {
		return nil, fmt.Errorf("process: path is required")
	}

	c := exec.Command(cmd.Path, cmd.Args...) //nolint:gosec // running an operator-supplied command is the purpose of this package
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	c.Stdout = firstWriter(cmd.Stdout, l.Stdout)
	c.Stderr = firstWriter(cmd.Stderr, l.Stderr)

	// Own process group so we can signal the entire tree.
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := c.Start(); err != nil {
		return nil, fmt.Errorf("process: start %s: %w", cmd.Path, err)
	}

	h := &execHandle{
		cmd:  c,
		pid:  c.Process.Pid,
		done: make(chan struct{}),
	}
	go h.wait()
	return h, nil
}

type execHandle struct {
	cmd  *exec.Cmd
	pid  int
	done chan struct{}

	status    ExitStatus
	terminate sync.Once

	// mu orders signals against the reap: once reaped is set the pid and
	// its group may belong to someone else.
	mu     sync.Mutex
	reaped bool
}

func (h *execHandle) Pid() int { return h.pid }

func (h *execHandle) Done() <-chan struct{} { return h.done }

func (h *execHandle) Status() ExitStatus {
	<-h.done
	return h.status
}

// Terminate sends SIGTERM to the process group, then SIGKILL once grace
// elapses without an exit. Repeated calls are no-ops.
func (h *execHandle) Terminate(grace time.Duration) {
	h.terminate.Do(func() {
		if grace <= 0 {
			h.signal(unix.SIGKILL)
			return
		}
		h.signal(unix.SIGTERM)

		go func() {
			timer := time.NewTimer(grace)
			defer timer.Stop()
			select {
			case <-h.done:
			case <-timer.C:
				h.signal(unix.SIGKILL)
			}
		}()
	})
}

// Kill sends SIGKILL to the process group right away.
func (h *execHandle) Kill() {
	h.signal(unix.SIGKILL)
}

// signal reports whether sig was sent. Nothing is sent after the reap.
func (h *execHandle) signal(sig unix.Signal) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.reaped {
		return false
	}
	if err := unix.Kill(-h.pid, sig); err != nil && !errors.Is(err, unix.ESRCH) {
		// Group signalling refused; fall back to the leader alone.
		_ = h.cmd.Process.Signal(sig)
	}
	return true
}

// wait reaps the process exactly once and publishes its status. The exit is
// first observed without reaping, so the pid stays reserved until signal can
// no longer use it.
func (h *execHandle) wait() {
	awaitExit(h.pid)
	h.mu.Lock()
	h.reaped = true
	h.mu.Unlock()

	err := h.cmd.Wait()
	h.status = statusFrom(h.cmd.ProcessState, err)
	close(h.done)
}

// awaitExit blocks until pid has exited, leaving it a zombie.
func awaitExit(pid int) {
	var info unix.Siginfo
	for {
		err := unix.Waitid(unix.P_PID, pid, &info, unix.WEXITED|unix.WNOWAIT, nil)
		if !errors.Is(err, unix.EINTR) {
			return
		}
	}
}

func statusFrom(ps *os.ProcessState, waitErr error) ExitStatus {
	st := ExitStatus{Code: -1}
	if ps != nil {
		st.Code = ps.ExitCode()
		if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			st.Signaled = true
			st.Signal = ws.Signal().String()
			st.Code = -1
		}
	}
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		st.Err = waitErr
	}
	return st
}

func firstWriter(ws ...io.Writer) io.Writer {
	for _, w := range ws {
		if w != nil {
			return w
		}
	}
	return nil
}
