// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/hello/internal/app"
	"github.com/okian/hello/pkg/logger"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	GreetingDependencies
}

// Message mirrors the body returned by GET /api/hello.
type Message = service.Message

// Server wires HTTP routes for the greeting API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	greetingHandler *GreetingHandler

	allowOrigin string
	logger      logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAllowOrigin sets the Access-Control-Allow-Origin value for API routes.
func WithAllowOrigin(origin string) Option {
	return func(s *Server) {
		if origin != "" {
			s.allowOrigin = origin
		}
	}
}

// WithLogger sets the logger used by handlers.
func WithLogger(log logger.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.logger = log
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		allowOrigin: "*",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.greetingHandler = NewGreetingHandler(deps, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/hello", s.apiRoute(s.greetingHandler.HandleGetGreeting, "hello"))
	// Everything else under /api/ is a JSON 404, never the page fallback.
	mux.HandleFunc("/api/", s.apiRoute(handleAPINotFound, "api"))
}

func (s *Server) apiRoute(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return MetricsMiddleware(
		RequestIDMiddleware(
			CORSMiddleware(next, s.allowOrigin),
			s.logger,
		),
		endpoint,
	)
}

// NotFoundDetail is the detail of every API 404 body.
const NotFoundDetail = "Not found"

func handleAPINotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{Detail: NotFoundDetail})
}

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, ErrorResponse{Detail: msg})
}
