package form

import (
	"context"

	dErrors "dynaform/pkg/domain-errors"
)

var (
	// ErrNotFound keeps storage-specific 404s consistent across
	// implementations.
	ErrNotFound = dErrors.New(dErrors.CodeNotFound, "form not found")
)

// Store persists forms. IncrementViewCount is the only mutation the view
// pipeline performs.
type Store interface {
	Save(ctx context.Context, f Form) error
	FindByID(ctx context.Context, id string) (Form, error)
	FindByOwner(ctx context.Context, ownerID string) ([]Form, error)
	IncrementViewCount(ctx context.Context, formID string) error
}

// QuestionStore persists a form's questions.
type QuestionStore interface {
	SaveQuestions(ctx context.Context, formID string, questions []Question) error
	QuestionsByForm(ctx context.Context, formID string) ([]Question, error)
}
