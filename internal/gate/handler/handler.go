// Package handler wires the gate service to its HTTP endpoint.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"steamgate/internal/gate/models"
	dErrors "steamgate/pkg/domain-errors"
	"steamgate/pkg/platform/httputil"
	"steamgate/pkg/requestcontext"
)

// Service defines the interface for gate check operations.
type Service interface {
	Check(ctx context.Context, rawID string) (*models.Decision, error)
}

// Handler wires the check endpoint to the gate service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a gate handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts gate endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/check", h.HandleCheck)
}

// HandleCheck handles GET /check?user=<identifier> requests.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	rawID := r.URL.Query().Get("user")
	if rawID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "query parameter 'user' is required"))
		return
	}

	decision, err := h.service.Check(ctx, rawID)
	if err != nil {
		h.logger.ErrorContext(ctx, "check failed",
			"request_id", requestID,
			"user", rawID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "check served",
		"request_id", requestID,
		"authorized", decision.Authorized,
		"from_cache", decision.FromCache,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromDecision(decision))
}
