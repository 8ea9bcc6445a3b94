package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/return-heatmap/internal/adapter/leaflet"
	"github.com/couchcryptid/return-heatmap/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ViewSource supplies the most recently built map view.
type ViewSource interface {
	LastView() (domain.MapView, bool)
}

// Server exposes the map page, its JSON form, and the health, readiness,
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	views      ViewSource
	tileURL    string
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /, /map.json, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, views ViewSource, tileURL string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		views:   views,
		tileURL: tileURL,
		logger:  logger,
	}

	mux.HandleFunc("GET /{$}", s.handleMap)
	mux.HandleFunc("GET /map.json", s.handleMapJSON)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleMap(w http.ResponseWriter, _ *http.Request) {
	view, ok := s.views.LastView()
	if !ok {
		sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "no map built yet"})
		return
	}

	var buf bytes.Buffer
	if err := leaflet.Render(&buf, view, s.tileURL); err != nil {
		s.logger.Error("render map page failed", "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "render failed"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w) //nolint:errcheck // client may have gone away
}

func (s *Server) handleMapJSON(w http.ResponseWriter, _ *http.Request) {
	view, ok := s.views.LastView()
	if !ok {
		sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "no map built yet"})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, view)
}
