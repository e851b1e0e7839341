package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dynaform/internal/identity"
	"dynaform/internal/platform/middleware"
	dErrors "dynaform/pkg/domain-errors"
	"dynaform/pkg/platform/httputil"
)

// Handler handles submission endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the response routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/forms/{id}/responses", h.handleSubmit)
	r.Get("/api/forms/{id}/responses", h.handleList)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	formID := chi.URLParam(r, "id")
	principal := identity.FromContext(ctx)

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.service.Submit(ctx, formID, principal, &req); err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to submit response",
				"form_id", formID,
				"error", err.Error(),
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Response submitted successfully"})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	formID := chi.URLParam(r, "id")
	principal := identity.FromContext(ctx)

	responses, err := h.service.ListByForm(ctx, formID, principal)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to list responses",
				"form_id", formID,
				"error", err.Error(),
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	if responses == nil {
		responses = []Response{}
	}
	httputil.WriteJSON(w, http.StatusOK, responses)
}
