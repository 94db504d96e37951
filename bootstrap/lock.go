package bootstrap

import (
	"context"
	"fmt"
	"sync"

	"github.com/gofrs/flock"

	"github.com/kbukum/keepalive/component"
	"github.com/kbukum/keepalive/errors"
)

var (
	_ component.Component   = (*LockComponent)(nil)
	_ component.Describable = (*LockComponent)(nil)
)

// LockComponent holds an exclusive file lock for the lifetime of the app so
// two supervisors never run the same worker.
type LockComponent struct {
	path string
	lock *flock.Flock

	mu   sync.Mutex
	held bool
}

// NewLockComponent creates a lock component for path.
func NewLockComponent(path string) *LockComponent {
	return &LockComponent{path: path, lock: flock.New(path)}
}

// Name returns the component name used for registration.
func (l *LockComponent) Name() string { return "lock" }

// Start takes the lock without blocking. A lock held elsewhere is ALREADY_RUNNING.
func (l *LockComponent) Start(_ context.Context) error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", l.path, err)
	}
	if !ok {
		return errors.AlreadyRunning(l.path)
	}
	l.mu.Lock()
	l.held = true
	l.mu.Unlock()
	return nil
}

// Stop releases the lock if held.
func (l *LockComponent) Stop(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.held {
		return nil
	}
	l.held = false
	return l.lock.Unlock()
}

// Health reports whether the lock is held.
func (l *LockComponent) Health(_ context.Context) component.Health {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.held {
		return component.Health{Name: l.Name(), Status: component.StatusUnhealthy, Message: "lock not held"}
	}
	return component.Health{Name: l.Name(), Status: component.StatusHealthy}
}

// Describe returns infrastructure summary info for the startup summary.
func (l *LockComponent) Describe() component.Description {
	return component.Description{Name: "Instance Lock", Type: "lock", Details: l.path}
}
