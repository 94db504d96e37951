package observability

import (
	"context"
	"sync"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/keepalive/component"
)

var _ component.Component = (*TracerComponent)(nil)
var _ component.Describable = (*TracerComponent)(nil)

// TracerComponent owns the tracer provider lifecycle.
type TracerComponent struct {
	cfg TracerConfig

	mu sync.Mutex
	tp *sdktrace.TracerProvider
}

// NewTracerComponent creates a component that installs the tracer on Start.
func NewTracerComponent(cfg TracerConfig) *TracerComponent {
	return &TracerComponent{cfg: cfg}
}

func (c *TracerComponent) Name() string { return "tracer" }

// Start initializes the provider.
func (c *TracerComponent) Start(ctx context.Context) error {
	tp, err := InitTracer(ctx, c.cfg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.tp = tp
	c.mu.Unlock()
	return nil
}

// Stop flushes pending spans and shuts the provider down.
func (c *TracerComponent) Stop(ctx context.Context) error {
	c.mu.Lock()
	tp := c.tp
	c.tp = nil
	c.mu.Unlock()
	if tp == nil {
		return nil
	}
	return tp.Shutdown(ctx)
}

func (c *TracerComponent) Health(_ context.Context) component.Health {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tp == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "tracer not initialized"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *TracerComponent) Describe() component.Description {
	return component.Description{
		Name:    "OpenTelemetry Tracer",
		Type:    "tracing",
		Details: c.cfg.Endpoint,
	}
}
