package activity

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"dynaform/internal/identity"
	"dynaform/internal/platform/metrics"
	"dynaform/internal/platform/middleware"
	dErrors "dynaform/pkg/domain-errors"
	"dynaform/pkg/platform/httputil"
)

// Handler serves the recent-activity feed. Authentication is enforced
// here, not by the gate, which always lets requests through.
type Handler struct {
	logger  *slog.Logger
	service *Service
	metrics *metrics.Metrics
}

func NewHandler(service *Service, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service, metrics: m}
}

// Register registers the activity routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/activities", h.handleRecentActivities)
}

func (h *Handler) handleRecentActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	principal := identity.FromContext(ctx)

	h.metrics.ActivityRequests.Inc()

	entries, err := h.service.RecentActivity(ctx, principal, time.Now())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			h.logger.WarnContext(ctx, "unauthenticated attempt to access recent activities",
				"request_id", requestID,
			)
		} else {
			h.logger.ErrorContext(ctx, "failed to fetch activities",
				"error", err.Error(),
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "activities retrieved",
		"count", len(entries),
		"user_id", principal.UserID,
		"request_id", requestID,
	)
	httputil.WriteJSON(w, http.StatusOK, entries)
}
