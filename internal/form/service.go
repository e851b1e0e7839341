package form

import (
	"context"
	"fmt"
	"time"

	"dynaform/internal/audit"
	"dynaform/internal/identity"
	dErrors "dynaform/pkg/domain-errors"

	"github.com/google/uuid"
	"github.com/mssola/useragent"
)

// ViewRegistrar is the slice of the view deduplicator the form service
// needs. Satisfied by view.Service.
type ViewRegistrar interface {
	RegisterView(ctx context.Context, formID string, p identity.Principal, remoteIP string, now time.Time) (bool, error)
}

// AuditTrail is the audit surface the form service uses: it emits
// lifecycle events and reads a form's trail back for the owner.
// Satisfied by audit.Publisher.
type AuditTrail interface {
	audit.Emitter
	ListByForm(ctx context.Context, formID string) ([]audit.Event, error)
}

// Service owns form creation and retrieval. Fetching a form for
// responding is the only operation that feeds the view pipeline.
type Service struct {
	forms     Store
	questions QuestionStore
	views     ViewRegistrar
	audit     AuditTrail
}

func NewService(forms Store, questions QuestionStore, views ViewRegistrar, trail AuditTrail) *Service {
	return &Service{
		forms:     forms,
		questions: questions,
		views:     views,
		audit:     trail,
	}
}

// Create stores a new form with its questions for the authenticated owner.
func (s *Service) Create(ctx context.Context, p identity.Principal, req *CreateFormRequest) (Form, error) {
	if !p.IsAuthenticated() {
		return Form{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if req == nil {
		return Form{}, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return Form{}, err
	}

	f := Form{
		ID:          uuid.NewString(),
		OwnerID:     p.UserID,
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	if err := s.forms.Save(ctx, f); err != nil {
		return Form{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save form")
	}

	if len(req.Questions) > 0 {
		questions := make([]Question, 0, len(req.Questions))
		for _, qr := range req.Questions {
			questions = append(questions, Question{
				ID:       uuid.NewString(),
				FormID:   f.ID,
				Type:     qr.Type,
				Label:    qr.Question,
				Required: qr.Required,
				Options:  qr.Options,
				Min:      qr.Min,
				Max:      qr.Max,
			})
		}
		if err := s.questions.SaveQuestions(ctx, f.ID, questions); err != nil {
			return Form{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save questions")
		}
	}

	_ = s.audit.Emit(ctx, audit.Event{
		FormID:      f.ID,
		UserID:      p.UserID,
		Action:      audit.ActionFormCreated,
		Description: fmt.Sprintf("Form %q created", f.Title),
	})

	return f, nil
}

// ListByOwner returns the authenticated principal's forms.
func (s *Service) ListByOwner(ctx context.Context, p identity.Principal) ([]Form, error) {
	if !p.IsAuthenticated() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	forms, err := s.forms.FindByOwner(ctx, p.UserID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list forms")
	}
	return forms, nil
}

// Get fetches a form and its questions by id.
func (s *Service) Get(ctx context.Context, id string) (Form, []Question, error) {
	f, err := s.forms.FindByID(ctx, id)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return Form{}, nil, err
		}
		return Form{}, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load form")
	}
	questions, err := s.questions.QuestionsByForm(ctx, id)
	if err != nil {
		return Form{}, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load questions")
	}
	return f, questions, nil
}

// GetForResponse fetches a form for a viewer and feeds the access into
// the view deduplicator. The viewer identity comes from the principal
// when authenticated and the remote IP otherwise.
func (s *Service) GetForResponse(ctx context.Context, id string, p identity.Principal, remoteIP, userAgent string) (Form, []Question, error) {
	f, questions, err := s.Get(ctx, id)
	if err != nil {
		return Form{}, nil, err
	}

	recorded, err := s.views.RegisterView(ctx, id, p, remoteIP, time.Now())
	if err != nil {
		return Form{}, nil, err
	}
	if recorded {
		_ = s.audit.Emit(ctx, audit.Event{
			FormID:      f.ID,
			UserID:      p.UserID,
			Action:      audit.ActionFormViewed,
			Description: viewDescription(userAgent),
			IPAddress:   remoteIP,
		})
	}

	return f, questions, nil
}

// ActivityTrail returns a form's audit events, newest first. Only the
// form's owner may read its trail.
func (s *Service) ActivityTrail(ctx context.Context, id string, p identity.Principal) ([]audit.Event, error) {
	if !p.IsAuthenticated() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	f, err := s.forms.FindByID(ctx, id)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load form")
	}
	if f.OwnerID != p.UserID {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the form owner can read the activity trail")
	}
	events, err := s.audit.ListByForm(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load activity trail")
	}
	return events, nil
}

// viewDescription summarizes the client from its User-Agent header.
func viewDescription(userAgent string) string {
	if userAgent == "" {
		return "Form viewed"
	}
	ua := useragent.New(userAgent)
	name, version := ua.Browser()
	if name == "" {
		return "Form viewed"
	}
	if os := ua.OS(); os != "" {
		return fmt.Sprintf("Form viewed via %s %s on %s", name, version, os)
	}
	return fmt.Sprintf("Form viewed via %s %s", name, version)
}
