// Package http exposes a running engine's introspection surface over
// HTTP: task list, engine status, health, and Prometheus metrics.
//
// The adapter is read-only. It never drives the engine; the host's tick
// loop stays the single writer.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/treadle/pkg/ports"
)

// Server serves the introspection endpoints for one engine.
type Server struct {
	inspector ports.Inspector
	logger    *slog.Logger
	gatherer  prometheus.Gatherer
}

type Option func(*Server)

// WithLogger sets a structured logger for request errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer sets the metrics registry served at /metrics. The default
// is the global Prometheus registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler builds the HTTP handler for the inspector.
func NewHandler(inspector ports.Inspector, opts ...Option) http.Handler {
	s := &Server{
		inspector: inspector,
		logger:    slog.Default(),
		gatherer:  prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/status", s.handleStatus)
	r.Get("/tasks", s.handleTasks)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

// statusResponse is the body of GET /status.
type statusResponse struct {
	Ticks uint64 `json:"ticks"`
	Live  int    `json:"live"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, statusResponse{
		Ticks: s.inspector.Ticks(),
		Live:  s.inspector.Live(),
	})
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	tasks := s.inspector.Tasks()
	if tasks == nil {
		tasks = []ports.TaskSummary{}
	}
	s.writeJSON(w, tasks)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}
