package form

import (
	"strings"
	"time"

	dErrors "dynaform/pkg/domain-errors"
)

// Form is owned by a user and carries a monotonic view counter that only
// the view deduplicator increments.
type Form struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ViewCount   int64     `json:"view_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Question is one typed field of a form.
type Question struct {
	ID       string   `json:"id"`
	FormID   string   `json:"-"`
	Type     string   `json:"type"`
	Label    string   `json:"question"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
	Min      *int     `json:"min,omitempty"`
	Max      *int     `json:"max,omitempty"`
}

type QuestionRequest struct {
	Type     string   `json:"type"`
	Question string   `json:"question"`
	Required bool     `json:"required"`
	Options  []string `json:"options"`
	Min      *int     `json:"min"`
	Max      *int     `json:"max"`
}

type CreateFormRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []QuestionRequest `json:"questions"`
}

func (r *CreateFormRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

func (r *CreateFormRequest) Validate() error {
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	for _, q := range r.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return dErrors.New(dErrors.CodeValidation, "question text is required")
		}
		if q.Type == "" {
			return dErrors.New(dErrors.CodeValidation, "question type is required")
		}
	}
	return nil
}
