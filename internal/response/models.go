package response

import (
	"encoding/json"
	"time"
)

// Response is one submission against a form. Answers are stored as the
// raw JSON the client sent, keyed by question id.
type Response struct {
	ID          string          `json:"id"`
	FormID      string          `json:"form_id"`
	UserID      string          `json:"user_id"`
	Answers     json.RawMessage `json:"answers"`
	Content     string          `json:"content,omitempty"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

type SubmitRequest struct {
	Responses map[string]any `json:"responses"`
	Content   string         `json:"content"`
}
