package api

import (
	"context"
	"net/http"

	"github.com/okian/hello/pkg/logger"
)

// GreetingDependencies defines the interface for greeting operations.
type GreetingDependencies interface {
	Greeting(ctx context.Context) (Message, error)
}

// GreetingHandler handles greeting requests.
type GreetingHandler struct {
	deps   GreetingDependencies
	logger logger.Logger
}

// NewGreetingHandler creates a new greeting handler.
func NewGreetingHandler(deps GreetingDependencies, log logger.Logger) *GreetingHandler {
	return &GreetingHandler{deps: deps, logger: log}
}

// HandleGetGreeting handles GET /api/hello requests.
func (h *GreetingHandler) HandleGetGreeting(w http.ResponseWriter, r *http.Request) {
	const op = "api.greeting"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	msg, err := h.deps.Greeting(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "greeting failed",
			logger.String("requestID", RequestIDFromContext(r.Context())),
			logger.Error(err),
		)
		writeError(w, http.StatusServiceUnavailable, WrapKind(op, ErrUnavailable, err))
		return
	}
	writeJSON(w, http.StatusOK, msg)
}
