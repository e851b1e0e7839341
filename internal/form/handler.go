package form

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"dynaform/internal/audit"
	"dynaform/internal/identity"
	"dynaform/internal/platform/middleware"
	dErrors "dynaform/pkg/domain-errors"
	"dynaform/pkg/platform/httputil"
)

// Handler handles form endpoints. /respond is public: anonymous viewers
// are attributed by IP.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the form routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/forms", h.handleCreate)
	r.Get("/api/forms", h.handleList)
	r.Get("/api/forms/{id}", h.handleGet)
	r.Get("/api/forms/{id}/respond", h.handleGetForResponse)
	r.Get("/api/forms/{id}/activity", h.handleActivityTrail)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := identity.FromContext(ctx)

	var req CreateFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	f, err := h.service.Create(ctx, principal, &req)
	if err != nil {
		h.logError(r, "failed to create form", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "form created",
		"form_id", f.ID,
		"owner_id", f.OwnerID,
		"request_id", middleware.GetRequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"id":      f.ID,
		"message": "Form created successfully",
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := identity.FromContext(ctx)

	forms, err := h.service.ListByOwner(ctx, principal)
	if err != nil {
		h.logError(r, "failed to list forms", err)
		httputil.WriteError(w, err)
		return
	}
	if forms == nil {
		forms = []Form{}
	}
	httputil.WriteJSON(w, http.StatusOK, forms)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	f, questions, err := h.service.Get(ctx, id)
	if err != nil {
		h.logError(r, "failed to fetch form", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"id":          f.ID,
		"title":       f.Title,
		"description": f.Description,
		"view_count":  f.ViewCount,
		"created_at":  f.CreatedAt,
		"questions":   questions,
	})
}

func (h *Handler) handleGetForResponse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	principal := identity.FromContext(ctx)

	f, questions, err := h.service.GetForResponse(ctx, id, principal, clientIP(r), r.UserAgent())
	if err != nil {
		h.logError(r, "failed to fetch form for response", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"id":          f.ID,
		"title":       f.Title,
		"description": f.Description,
		"fields":      questions,
		"message":     "Form retrieved for response successfully",
	})
}

func (h *Handler) handleActivityTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	principal := identity.FromContext(ctx)

	events, err := h.service.ActivityTrail(ctx, id, principal)
	if err != nil {
		h.logError(r, "failed to fetch activity trail", err)
		httputil.WriteError(w, err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	ctx := r.Context()
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		return
	}
	h.logger.WarnContext(ctx, msg,
		"error", err.Error(),
		"request_id", middleware.GetRequestID(ctx),
	)
}

// clientIP extracts the viewer address, preferring the first entry of
// X-Forwarded-For when a proxy set one.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
