package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/keepalive/supervisor"
)

// StatusSource exposes the supervisor state to handlers.
type StatusSource interface {
	Snapshot() supervisor.Snapshot
}

// AttemptView is the JSON form of one run attempt.
type AttemptView struct {
	ID         string     `json:"id"`
	Number     int        `json:"number"`
	Pid        int        `json:"pid,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	Outcome    string     `json:"outcome"`
	ExitCode   *int       `json:"exit_code,omitempty"`
	Signal     string     `json:"signal,omitempty"`
	Error      string     `json:"error,omitempty"`
	DurationMs int64      `json:"duration_ms"`
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	State          string       `json:"state"`
	Attempts       int          `json:"attempts"`
	Restarts       int          `json:"restarts"`
	CurrentAttempt *AttemptView `json:"current_attempt"`
	LastAttempt    *AttemptView `json:"last_attempt"`
}

// NewStatusResponse converts a snapshot for the wire.
func NewStatusResponse(snap supervisor.Snapshot) StatusResponse {
	return StatusResponse{
		State:          snap.State.String(),
		Attempts:       snap.Attempts,
		Restarts:       snap.Restarts,
		CurrentAttempt: newAttemptView(snap.Current),
		LastAttempt:    newAttemptView(snap.Last),
	}
}

func newAttemptView(a *supervisor.RunAttempt) *AttemptView {
	if a == nil {
		return nil
	}
	v := &AttemptView{
		ID:         a.ID.String(),
		Number:     a.Number,
		Pid:        a.Pid,
		StartedAt:  a.StartedAt.UTC(),
		Outcome:    string(a.Outcome()),
		ExitCode:   a.ExitCode,
		Signal:     a.Signal,
		DurationMs: a.Duration().Milliseconds(),
	}
	if a.Ended() {
		ended := a.EndedAt.UTC()
		v.EndedAt = &ended
	}
	if err := a.Err(); err != nil {
		v.Error = err.Error()
	}
	return v
}

// Status returns a handler reporting the supervisor state and attempts.
func Status(src StatusSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, NewStatusResponse(src.Snapshot()))
	}
}
