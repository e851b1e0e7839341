package response

import "context"

// Store persists form submissions.
type Store interface {
	Save(ctx context.Context, r Response) error
	FindByForm(ctx context.Context, formID string) ([]Response, error)
}
