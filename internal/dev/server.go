package dev

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/routegen/pkg/middleware"
)

// Server exposes the coordinator over HTTP during development.
//
// Routes:
//
//	GET /_routegen/reload     WebSocket rebuild notifications
//	GET /_routegen/client.js  browser client for the notifications
//	GET /routes               manifest of the last successful rebuild
//	GET /metrics              Prometheus metrics
//	GET /healthz              liveness
//
// Requests other than /metrics and /healthz are traced, and all requests are
// counted in the coordinator's registry.
type Server struct {
	coord      *Coordinator
	reload     *ReloadServer
	log        *slog.Logger
	handler    http.Handler
	httpServer *http.Server
}

// NewServer creates a dev server for coord. A nil reload disables the
// WebSocket endpoint.
func NewServer(addr string, coord *Coordinator, reload *ReloadServer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		coord:  coord,
		reload: reload,
		log:    logger,
	}
	s.handler = s.routes()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the dev server's routes.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		chimw.Recoverer,
		middleware.OpenTelemetry(middleware.WithRequestFilter(traced)),
		middleware.Prometheus(middleware.WithRegistry(s.coord.Registry())),
	)

	if s.reload != nil {
		r.Get(ReloadPath, s.reload.HandleWebSocket)
	}
	r.Get(ClientScriptPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Write([]byte(ClientScript))
	})
	r.Get("/routes", s.handleRoutes)
	r.Handle("/metrics", promhttp.HandlerFor(s.coord.Registry(), promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return r
}

func traced(r *http.Request) bool {
	return r.URL.Path != "/metrics" && r.URL.Path != "/healthz"
}

func (s *Server) handleRoutes(w http.ResponseWriter, _ *http.Request) {
	manifest := s.coord.Manifest()
	if manifest == nil {
		http.Error(w, "routes not generated yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(manifest)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.log.Info("dev server listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if s.reload != nil {
			s.reload.Close()
		}
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
