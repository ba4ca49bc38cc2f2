package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evagobi/internal/config"
	apierrors "evagobi/internal/errors"
	"evagobi/internal/files"
	customMiddleware "evagobi/internal/middleware"
	"evagobi/internal/operations"
	handlers "evagobi/internal/transport/http"
	ws "evagobi/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// Server is the dashboard API: REST endpoints over the pipeline outputs,
// operation control and the status websocket
type Server struct {
	Runtime *Runtime
	Router  *chi.Mux
	HTTP    *http.Server
	Hub     *ws.Hub
	Manager *operations.Manager
	Catalog *files.Catalog

	logger *slog.Logger
}

// NewServer builds the hub, the operations manager and the router on top of rt
func NewServer(rt *Runtime) (*Server, error) {
	hub := ws.NewHub(ws.HubConfigFrom(rt.Config.WebSocket), rt.Logger)

	manager, err := rt.NewManager(hub)
	if err != nil {
		return nil, fmt.Errorf("failed to create operations manager: %w", err)
	}
	return newServer(rt, hub, manager), nil
}

func newServer(rt *Runtime, hub *ws.Hub, manager *operations.Manager) *Server {
	hub.SetReplay(manager.List)

	s := &Server{
		Runtime: rt,
		Hub:     hub,
		Manager: manager,
		Catalog: files.NewCatalog(rt.Paths),
		logger:  rt.Logger.With(slog.String("component", "server")),
	}
	s.Router = s.setupRouter()
	s.HTTP = s.createServer()
	return s
}

func (s *Server) setupRouter() *chi.Mux {
	cfg := s.Runtime.Config
	errHandler := apierrors.NewErrorHandler(s.Runtime.Logger, false)

	r := chi.NewRouter()
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	// the websocket endpoint must not be wrapped by Compress or Timeout
	r.Handle("/ws", handlers.NewWebSocketHandler(s.Hub, cfg.WebSocket, cfg.Server.AllowedOrigins, s.Runtime.Logger))

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Telemetry(s.Runtime.OTel.Tracer, s.Runtime.Metrics))
		r.Use(customMiddleware.StructuredLogger(s.Runtime.Logger))
		r.Use(customMiddleware.Recoverer(errHandler))
		r.Use(customMiddleware.StripSlashes)
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			MaxAge:         300,
			Logger:         s.Runtime.Logger,
		}))
		if cfg.Server.RateLimit.Enabled {
			limiter := customMiddleware.NewRateLimiter(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst, errHandler)
			r.Use(limiter.Handler)
		}
		r.Use(customMiddleware.Compress(5))
		if cfg.Server.WriteTimeout > 0 {
			r.Use(customMiddleware.Timeout(cfg.Server.WriteTimeout))
		}

		if s.Runtime.OTel.PrometheusHTTP != nil {
			r.Handle("/metrics", s.Runtime.OTel.PrometheusHTTP)
		}

		health := handlers.NewHealthHandler(s.Manager, s.Catalog, s.Hub, s.Runtime.System, s.Runtime.Logger)
		data := handlers.NewDataHandler(s.Catalog, errHandler, s.Runtime.Logger)
		ops := handlers.NewOperationsHandler(s.Manager, errHandler, s.Runtime.Logger)

		r.Route("/api", func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Get("/health", health.HealthCheck)
			r.Get("/version", health.Version)
			r.Mount("/charts", data.ChartRoutes())
			r.Mount("/datasets", data.DatasetRoutes())
			r.Mount("/operations", ops.Routes())
		})
	})

	r.NotFound(errHandler.NotFound)
	r.MethodNotAllowed(errHandler.MethodNotAllowed)

	return r
}

func (s *Server) createServer() *http.Server {
	cfg := s.Runtime.Config.Server
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// Start starts the hub and serves HTTP until the server is closed
func (s *Server) Start() error {
	s.Hub.Start()

	s.logger.Info("Starting HTTP server",
		slog.String("address", s.HTTP.Addr),
		slog.String("version", config.AppVersion))

	if err := s.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Stop shuts the server down: HTTP first, then running operations, the hub
// and finally telemetry
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server")

	var errs []error
	if err := s.HTTP.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := s.Manager.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("operations shutdown: %w", err))
	}
	s.Hub.Stop()
	if err := s.Runtime.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	s.logger.Info("Server stopped")
	return nil
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		s.logger.Info("Shutdown signal received")
	}

	timeout := s.Runtime.Config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return s.Stop(shutdownCtx)
}
