package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kbukum/keepalive/component"
)

// WorkerInfo describes the supervised worker for the startup summary.
type WorkerInfo struct {
	Command      string
	Dir          string
	Env          string
	RestartDelay time.Duration
	GracePeriod  time.Duration
}

// Summary prints what keepalive is about to supervise and with which
// supporting components.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	worker          WorkerInfo
	out             io.Writer
}

// NewSummary creates a summary printer. A nil out writes to stderr so the
// worker's stdout stays clean.
func NewSummary(serviceName, version string, out io.Writer) *Summary {
	if out == nil {
		out = os.Stderr
	}
	return &Summary{serviceName: serviceName, version: version, out: out}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// SetWorker records the worker description.
func (s *Summary) SetWorker(w WorkerInfo) {
	s.worker = w
}

// Worker returns the recorded worker description.
func (s *Summary) Worker() WorkerInfo {
	return s.worker
}

// DisplaySummary prints the summary, including live health from the registry.
func (s *Summary) DisplaySummary(registry *component.Registry) {
	w := s.out
	fmt.Fprintf(w, "\n🚀 %s %s started in %.2fs\n\n", s.serviceName, s.version, s.startupDuration.Seconds())

	fmt.Fprintf(w, "🔁 Worker\n")
	lines := [][2]string{{"command", s.worker.Command}}
	if s.worker.Dir != "" {
		lines = append(lines, [2]string{"dir", s.worker.Dir})
	}
	lines = append(lines,
		[2]string{"env", s.worker.Env},
		[2]string{"restart delay", s.worker.RestartDelay.String()},
		[2]string{"grace period", s.worker.GracePeriod.String()},
	)
	for i, l := range lines {
		fmt.Fprintf(w, "   %s %s: %s\n", branch(i, len(lines)), l[0], l[1])
	}

	if registry == nil {
		fmt.Fprintf(w, "\n")
		return
	}

	var infra []component.Description
	var routes []component.Route
	for _, c := range registry.All() {
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			if desc.Name == "" {
				desc.Name = c.Name()
			}
			infra = append(infra, desc)
		}
		if rp, ok := c.(component.RouteProvider); ok {
			routes = append(routes, rp.Routes()...)
		}
	}

	if len(infra) > 0 {
		fmt.Fprintf(w, "\n📊 Infrastructure\n")
		for i, d := range infra {
			fmt.Fprintf(w, "   %s %s: %s\n", branch(i, len(infra)), d.Name, d.Details)
		}
	}

	if len(routes) > 0 {
		fmt.Fprintf(w, "\n🌐 Routes (%d)\n", len(routes))
		for i, r := range routes {
			fmt.Fprintf(w, "   %s %-7s %s → %s\n", branch(i, len(routes)), r.Method, r.Path, r.Handler)
		}
	}

	health := registry.HealthAll(context.Background())
	if len(health) > 0 {
		fmt.Fprintf(w, "\n🏥 Health Check\n")
		for i, h := range health {
			msg := ""
			if h.Message != "" {
				msg = " (" + h.Message + ")"
			}
			fmt.Fprintf(w, "   %s %s %s: %s%s\n", branch(i, len(health)), healthStatusIcon(h.Status), h.Name, strings.ToLower(string(h.Status)), msg)
		}
	}

	fmt.Fprintf(w, "\n")
}

func branch(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
