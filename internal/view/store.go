package view

import (
	"context"
	"time"
)

// EventStore persists view events. The recency lookups are per identity
// channel: a user lookup never matches IP-keyed events and vice versa.
type EventStore interface {
	Append(ctx context.Context, event Event) error
	// MostRecentByFormAndUser returns the latest user-keyed event for the
	// pair at or after since, or nil when none exists.
	MostRecentByFormAndUser(ctx context.Context, formID, userID string, since time.Time) (*Event, error)
	// MostRecentByFormAndIP is the IP-channel counterpart.
	MostRecentByFormAndIP(ctx context.Context, formID, ip string, since time.Time) (*Event, error)
	// TopNAcrossForms returns at most n events across the given forms,
	// ordered by descending view time.
	TopNAcrossForms(ctx context.Context, formIDs []string, n int) ([]Event, error)
}
