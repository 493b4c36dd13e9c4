package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/targetplatform/internal/infrastructure/config"
	"github.com/nerrad567/targetplatform/internal/infrastructure/logging"
	"github.com/nerrad567/targetplatform/internal/relay"
	"github.com/nerrad567/targetplatform/internal/target"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// EventLister reads recorded device events. Implemented by relay.Recorder.
type EventLister interface {
	List(ctx context.Context, filter relay.Filter) ([]relay.Record, error)
}

// HealthChecker is a dependency whose health /health reports.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config  config.APIConfig
	WS      config.WebSocketConfig
	Logger  *logging.Logger
	Module  *target.Module
	Events  EventLister              // optional: /events answers 503 without it
	Checks  map[string]HealthChecker // optional: reported by /health
	Metrics *Metrics                 // optional: created if nil
	Hub     *Hub                     // optional: created if nil
	Version string
}

// Server is the HTTP API server of the target platform service.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg     config.APIConfig
	wsCfg   config.WebSocketConfig
	logger  *logging.Logger
	module  *target.Module
	events  EventLister
	checks  map[string]HealthChecker
	metrics *Metrics
	hub     *Hub
	version string
	server  *http.Server
	cancel  context.CancelFunc
}

// New creates a new API server with the given dependencies.
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Module == nil {
		return nil, fmt.Errorf("target module is required")
	}

	s := &Server{
		cfg:     deps.Config,
		wsCfg:   deps.WS,
		logger:  deps.Logger,
		module:  deps.Module,
		events:  deps.Events,
		checks:  deps.Checks,
		metrics: deps.Metrics,
		hub:     deps.Hub,
		version: deps.Version,
	}
	if s.hub == nil {
		s.hub = NewHub(deps.Logger)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(deps.Module, s.hub)
	}
	return s, nil
}

// Hub returns the WebSocket hub, for registering it as a relay sink.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Metrics returns the Prometheus metrics, for registering them as a relay sink.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Handler returns the router with every route and middleware.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)
	go s.hub.Run(srvCtx)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server, waiting up to 10 seconds
// for in-flight requests.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
