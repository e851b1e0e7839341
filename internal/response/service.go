package response

import (
	"context"
	"encoding/json"
	"time"

	"dynaform/internal/audit"
	"dynaform/internal/form"
	"dynaform/internal/identity"
	"dynaform/internal/platform/metrics"
	dErrors "dynaform/pkg/domain-errors"

	"github.com/google/uuid"
)

// Service stores submissions against existing forms. Submitting requires
// an authenticated principal.
type Service struct {
	responses Store
	forms     form.Store
	audit     audit.Emitter
	metrics   *metrics.Metrics
}

func NewService(responses Store, forms form.Store, emitter audit.Emitter, m *metrics.Metrics) *Service {
	return &Service{
		responses: responses,
		forms:     forms,
		audit:     emitter,
		metrics:   m,
	}
}

func (s *Service) Submit(ctx context.Context, formID string, p identity.Principal, req *SubmitRequest) error {
	if !p.IsAuthenticated() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if req == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(req.Responses) == 0 && req.Content == "" {
		return dErrors.New(dErrors.CodeValidation, "response data is required")
	}

	f, err := s.forms.FindByID(ctx, formID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load form")
	}

	var answers json.RawMessage
	if len(req.Responses) > 0 {
		answers, err = json.Marshal(req.Responses)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid response data")
		}
	}

	r := Response{
		ID:          uuid.NewString(),
		FormID:      f.ID,
		UserID:      p.UserID,
		Answers:     answers,
		Content:     req.Content,
		SubmittedAt: time.Now(),
	}
	if err := s.responses.Save(ctx, r); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save response")
	}

	s.metrics.ResponsesSubmitted.Inc()
	_ = s.audit.Emit(ctx, audit.Event{
		FormID: f.ID,
		UserID: p.UserID,
		Action: audit.ActionResponseSubmitted,
	})
	return nil
}

// ListByForm returns submissions for a form, owner only.
func (s *Service) ListByForm(ctx context.Context, formID string, p identity.Principal) ([]Response, error) {
	if !p.IsAuthenticated() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	f, err := s.forms.FindByID(ctx, formID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load form")
	}
	if f.OwnerID != p.UserID {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the form owner can read responses")
	}

	responses, err := s.responses.FindByForm(ctx, formID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list responses")
	}
	return responses, nil
}
