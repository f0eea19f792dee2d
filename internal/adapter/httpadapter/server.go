package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/outbreak-etl/internal/analysis"
)

// Server exposes health, readiness, metrics and the read-only aggregation API.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	analyzer   atomic.Pointer[analysis.Analyzer]
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /api routes. The API answers 503 until SetAnalyzer is called.
func NewServer(addr string, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/records", s.withAnalyzer(s.handleRecords))
	mux.HandleFunc("GET /api/summary", s.withAnalyzer(s.handleSummary))
	mux.HandleFunc("GET /api/diseases", s.withAnalyzer(s.handleDiseases))
	mux.HandleFunc("GET /api/severity", s.withAnalyzer(s.handleSeverity))
	mux.HandleFunc("GET /api/high-priority", s.withAnalyzer(s.handleHighPriority))
	mux.HandleFunc("GET /api/temporal", s.withAnalyzer(s.handleTemporal))
	mux.HandleFunc("GET /api/report", s.withAnalyzer(s.handleReport))

	return s
}

// SetAnalyzer publishes the dataset the API serves. It may be called again to
// swap in a newer dataset.
func (s *Server) SetAnalyzer(a *analysis.Analyzer) {
	s.analyzer.Store(a)
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
