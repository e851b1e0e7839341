// Package audit records the form lifecycle trail: who created, viewed, or
// submitted what, and from where. Events are emitted from domain logic and
// kept transport-agnostic so stores can fan out.
package audit

import (
	"context"
	"time"
)

// Action classifies an audit event.
type Action string

const (
	ActionFormCreated       Action = "form_created"
	ActionFormViewed        Action = "form_viewed"
	ActionResponseSubmitted Action = "response_submitted"
)

// Event is one entry in the lifecycle trail. UserID is empty for
// anonymous actors.
type Event struct {
	FormID      string    `json:"form_id"`
	UserID      string    `json:"user_id,omitempty"`
	Action      Action    `json:"action"`
	Description string    `json:"description,omitempty"`
	IPAddress   string    `json:"ip_address,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByForm(ctx context.Context, formID string) ([]Event, error)
}

// Emitter is what domain services depend on. Satisfied by Publisher.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}
