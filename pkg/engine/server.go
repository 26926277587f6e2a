package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/SaaSy-Solutions/statemock/pkg/config"
	"github.com/SaaSy-Solutions/statemock/pkg/logging"
	"github.com/SaaSy-Solutions/statemock/pkg/mock"
	"github.com/SaaSy-Solutions/statemock/pkg/requestlog"
	"github.com/SaaSy-Solutions/statemock/pkg/stateful"
)

// Server is the statemock server engine.
type Server struct {
	cfg         *config.ServerConfiguration
	log         *slog.Logger
	registry    *mock.Registry
	stateStore  *stateful.Store
	stateEngine *stateful.Engine
	handler     *Handler

	httpServer *http.Server
	listener   net.Listener
	mu         sync.RWMutex
	running    bool
	startTime  time.Time
}

// ServerOption is a functional option for configuring a Server.
type ServerOption func(*Server)

// WithLogger sets the operational logger for the server.
func WithLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStateStore supplies a state instance store, letting tests and
// embedders share or pre-seed it. By default the server owns a fresh store.
func WithStateStore(store *stateful.Store) ServerOption {
	return func(s *Server) {
		if store != nil {
			s.stateStore = store
		}
	}
}

// NewServer creates a new Server with the given configuration.
func NewServer(cfg *config.ServerConfiguration, opts ...ServerOption) *Server {
	if cfg == nil {
		cfg = config.DefaultServerConfiguration()
	}
	s := &Server{
		cfg: cfg,
		log: logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.stateStore == nil {
		s.stateStore = stateful.NewStore()
	}
	s.registry = mock.NewRegistry()
	s.stateEngine = stateful.NewEngine(s.stateStore, s.log)
	s.handler = NewHandler(s.registry, s.stateEngine, s.log)
	s.handler.adminDisabled = cfg.AdminDisabled

	return s
}

// LoadCollection registers a collection's definitions and stateful endpoints
// with the server. Lint warnings are logged, not fatal.
func (s *Server) LoadCollection(c *config.Collection) error {
	if c == nil {
		return nil
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid collection: %w", err)
	}
	for _, w := range c.Warnings() {
		s.log.Warn("configuration warning", "path", w.Path, "detail", w.Message)
	}
	for _, m := range c.Mocks {
		s.registry.Add(m)
	}
	for _, f := range c.Folders {
		s.registry.AddFolder(f)
	}
	for _, se := range c.Stateful {
		cfg := se.Config
		if err := s.stateEngine.AddConfig(se.PathPattern, &cfg); err != nil {
			return fmt.Errorf("stateful endpoint %s: %w", se.PathPattern, err)
		}
	}
	s.log.Info("collection loaded",
		"name", c.Name,
		"mocks", s.registry.Len(),
		"stateful_endpoints", len(c.Stateful))
	return nil
}

// Start binds the listener and begins serving. It returns once the listener
// is accepting connections.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server is already running")
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.log.Info("starting HTTP server", "addr", listener.Addr().String())
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("HTTP server error", "error", err)
		}
	}()

	s.running = true
	s.startTime = time.Now()
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var firstErr error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			firstErr = fmt.Errorf("HTTP shutdown: %w", err)
		}
	}
	s.running = false
	return firstErr
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Uptime returns the seconds since Start, or 0 when stopped.
func (s *Server) Uptime() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return int(time.Since(s.startTime).Seconds())
}

// Addr returns the bound listen address, useful when port 0 was configured.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Config returns the server configuration.
func (s *Server) Config() *config.ServerConfiguration {
	return s.cfg
}

// Registry returns the mock definition registry.
func (s *Server) Registry() *mock.Registry {
	return s.registry
}

// StateEngine returns the stateful engine.
func (s *Server) StateEngine() *stateful.Engine {
	return s.stateEngine
}

// StateStore returns the state instance store.
func (s *Server) StateStore() *stateful.Store {
	return s.stateStore
}

// Handler returns the HTTP handler, for serving through a custom listener or
// in tests via httptest.
func (s *Server) Handler() *Handler {
	return s.handler
}

// RequestLog returns the served-request history.
func (s *Server) RequestLog() *requestlog.Log {
	return s.handler.RequestLog()
}
