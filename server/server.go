package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/keepalive/component"
	"github.com/kbukum/keepalive/errors"
	"github.com/kbukum/keepalive/logger"
	"github.com/kbukum/keepalive/server/endpoint"
	"github.com/kbukum/keepalive/server/middleware"
	"github.com/kbukum/keepalive/version"
)

// Server is the read-only status server, backed by Gin and served over
// HTTP/1.1 and h2c.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	mux        *http.ServeMux
	config     Config
	log        *logger.Logger

	mu       sync.Mutex
	listener net.Listener
	routes   []component.Route
}

// New creates a Server. No middleware or routes are registered yet.
func New(cfg Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	if log.GetLogger().GetLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	mux := http.NewServeMux()
	mux.Handle("/", engine)

	s := &Server{
		engine: engine,
		mux:    mux,
		config: cfg,
		log:    log.WithComponent("status-server"),
	}

	h2s := &http2.Server{
		MaxConcurrentStreams: 64,
		IdleTimeout:          time.Duration(cfg.IdleTimeout) * time.Second,
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h2c.NewHandler(middleware.RequestLogger(s.log)(mux), h2s),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}
	return s
}

// GinEngine returns the underlying Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handler returns the full handler chain, as served on the listener.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("status server failed to bind %s: %w", s.httpServer.Addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("status server error", logger.ErrorFields("serve", err))
		}
	}()

	s.log.Info("status server started", logger.Fields("addr", listener.Addr().String()))
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("status server shutdown error", logger.ErrorFields("shutdown", err))
		return fmt.Errorf("status server shutdown: %w", err)
	}

	s.log.Info("status server stopped")
	return nil
}

// Addr returns the bound address once started, else the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// ApplyMiddleware installs panic recovery and request ids on the engine.
// Request logging wraps the whole handler and is always on.
func (s *Server) ApplyMiddleware() {
	s.engine.Use(middleware.Recovery(s.log))
	s.engine.Use(middleware.RequestID())
}

// RegisterStatusEndpoints registers /status, /livez, /version and /health.
// Unknown routes answer with a NOT_FOUND error body.
func (s *Server) RegisterStatusEndpoints(src endpoint.StatusSource, checker endpoint.HealthChecker, info version.Info) {
	s.Handle(http.MethodGet, "/status", "endpoint.Status", endpoint.Status(src))
	s.Handle(http.MethodGet, "/livez", "endpoint.Liveness", endpoint.Liveness(src))
	s.Handle(http.MethodGet, "/version", "endpoint.Version", endpoint.Version(info))
	s.Handle(http.MethodGet, "/health", "endpoint.Health", endpoint.Health(checker))
	s.engine.NoRoute(func(c *gin.Context) {
		RespondWithError(c, errors.NotFound("route "+c.Request.URL.Path))
	})
}

// Handle registers h on the engine and records it under name for the
// startup summary.
func (s *Server) Handle(method, path, name string, h gin.HandlerFunc) {
	s.engine.Handle(method, path, h)
	s.mu.Lock()
	s.routes = append(s.routes, component.Route{Method: method, Path: path, Handler: name})
	s.mu.Unlock()
}

// ApplyDefaults applies the middleware stack and registers the status endpoints.
func (s *Server) ApplyDefaults(src endpoint.StatusSource, checker endpoint.HealthChecker, info version.Info) {
	s.ApplyMiddleware()
	s.RegisterStatusEndpoints(src, checker, info)
}
