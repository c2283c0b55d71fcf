// Package service provides the greeting service behind the HTTP API.
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/hello/pkg/logger"
	"github.com/okian/hello/pkg/metrics"
)

// DefaultGreeting is served when no greeting is configured.
const DefaultGreeting = "Hello World"

// Message is the body of GET /api/hello.
type Message struct {
	Message string `json:"message"`
}

// Service answers greeting requests and tracks how many were served.
type Service struct {
	mu sync.RWMutex

	// Configuration
	greeting string

	// State
	started   bool
	startedAt time.Time
	served    atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGreeting sets the greeting text.
func WithGreeting(greeting string) Option {
	return func(s *Service) {
		if greeting != "" {
			s.greeting = greeting
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		greeting: DefaultGreeting,
		logger:   nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start marks the service ready to serve greetings.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "greeting service started", logger.String("greeting", s.greeting))

	return nil
}

// Stop shuts the service down. Greeting fails with ErrNotStarted afterwards.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "greeting service stopped",
		logger.Any("greetingsServed", s.served.Load()),
	)
}

// Greeting returns the greeting message and counts it as served.
func (s *Service) Greeting(ctx context.Context) (Message, error) {
	s.mu.RLock()
	started, greeting := s.started, s.greeting
	s.mu.RUnlock()

	if !started {
		return Message{}, ErrNotStarted
	}

	s.served.Add(1)
	metrics.RecordGreetingServed()
	s.logger.Debug(ctx, "greeting served")

	return Message{Message: greeting}, nil
}

// Served returns the number of greetings served since construction.
func (s *Service) Served() int64 {
	return s.served.Load()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"greetingsServed": s.served.Load(),
		"greeting":        s.greeting,
	}
	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}

	return stats
}
