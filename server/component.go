package server

import (
	"context"
	"slices"
	"sort"

	"github.com/kbukum/keepalive/component"
)

const componentName = "status-server"

var (
	_ component.Component     = (*ServerComponent)(nil)
	_ component.Describable   = (*ServerComponent)(nil)
	_ component.RouteProvider = (*ServerComponent)(nil)
)

// ServerComponent wraps Server to implement component.Component.
type ServerComponent struct {
	server *Server
}

// NewComponent returns a component.Component backed by the given Server.
func NewComponent(s *Server) *ServerComponent {
	return &ServerComponent{server: s}
}

// Name returns the component name used for registration.
func (sc *ServerComponent) Name() string { return componentName }

// Server returns the wrapped server.
func (sc *ServerComponent) Server() *Server { return sc.server }

// Start starts the underlying HTTP server.
func (sc *ServerComponent) Start(ctx context.Context) error {
	return sc.server.Start(ctx)
}

// Stop gracefully shuts down the underlying HTTP server.
func (sc *ServerComponent) Stop(ctx context.Context) error {
	return sc.server.Stop(ctx)
}

// Health reports healthy once the listener is bound.
func (sc *ServerComponent) Health(ctx context.Context) component.Health {
	sc.server.mu.Lock()
	bound := sc.server.listener != nil
	sc.server.mu.Unlock()

	if !bound {
		return component.Health{
			Name:    componentName,
			Status:  component.StatusUnhealthy,
			Message: "listener not bound",
		}
	}
	return component.Health{Name: componentName, Status: component.StatusHealthy}
}

// Describe returns infrastructure summary info for the startup summary.
func (sc *ServerComponent) Describe() component.Description {
	return component.Description{
		Name:    "Status Server",
		Type:    "server",
		Details: "http://" + sc.server.Addr(),
		Port:    sc.server.config.Port,
	}
}

// Routes returns the registered routes sorted by path then method.
func (sc *ServerComponent) Routes() []component.Route {
	sc.server.mu.Lock()
	routes := slices.Clone(sc.server.routes)
	sc.server.mu.Unlock()

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return methodOrder(routes[i].Method) < methodOrder(routes[j].Method)
	})
	return routes
}

func methodOrder(m string) int {
	switch m {
	case "GET":
		return 0
	case "POST":
		return 1
	case "PUT":
		return 2
	case "PATCH":
		return 3
	case "DELETE":
		return 4
	default:
		return 5
	}
}
