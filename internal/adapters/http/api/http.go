// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cylin-ms/scenara-sub003/internal/app"
	"github.com/cylin-ms/scenara-sub003/internal/domain/types"
	"github.com/cylin-ms/scenara-sub003/pkg/logger"
	"github.com/cylin-ms/scenara-sub003/pkg/metrics"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 32 << 20

// Analyzer runs one collaborator analysis. *app.Engine implements it.
type Analyzer interface {
	Analyze(ctx context.Context, req app.Request) (types.Report, error)
}

// Server wires HTTP routes for the analysis API.
type Server struct {
	log          logger.Logger
	metrics      *metrics.Manager
	maxBodyBytes int64
	clock        func() time.Time

	healthHandler  *HealthHandler
	analyzeHandler *AnalyzeHandler
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics sets the metrics manager; its registry is served on /metrics.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Server) { s.metrics = m }
}

// WithMaxBodyBytes caps POST /analyze bodies. Non-positive values keep the default.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithClock sets the clock used when a request omits "now".
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.clock = now
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(analyzer Analyzer, opts ...Option) *Server {
	s := &Server{
		log:          logger.Discard(),
		maxBodyBytes: DefaultMaxBodyBytes,
		clock:        time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.analyzeHandler = NewAnalyzeHandler(analyzer, s.log, s.maxBodyBytes, s.clock)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.metrics, s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/analyze", MetricsMiddleware(s.metrics, s.analyzeHandler.HandleAnalyze, "analyze"))
	if reg := s.metrics.Registry(); reg != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
