// Package view decides which form views count. A view is attributed to
// either a user or an IP address, and repeats from the same identity
// inside the dedup window are suppressed.
package view

import "time"

// Event is an append-only record of one admitted form view. Exactly one
// of UserID and IPAddress is set; the two identity channels are never
// merged.
type Event struct {
	ID        string
	FormID    string
	UserID    string
	IPAddress string
	ViewedAt  time.Time
}

// ByUser reports whether the event is keyed by a user identity.
func (e Event) ByUser() bool { return e.UserID != "" }
