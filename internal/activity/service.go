package activity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"dynaform/internal/form"
	"dynaform/internal/identity"
	"dynaform/internal/user"
	"dynaform/internal/view"
	dErrors "dynaform/pkg/domain-errors"
)

// maxEntries bounds the feed regardless of what the store returns.
const maxEntries = 10

const (
	actionFormViewed = "Form viewed"
	colorTag         = "bg-orange-500"
)

// Service assembles the feed by joining view events with forms and viewer
// names.
type Service struct {
	forms  form.Store
	events view.EventStore
	users  user.Store
}

func NewService(forms form.Store, events view.EventStore, users user.Store) *Service {
	return &Service{forms: forms, events: events, users: users}
}

// RecentActivity returns at most maxEntries entries for the owner's
// forms, newest first. Events whose form no longer exists are skipped;
// viewers that no longer resolve are labeled "Unknown User".
func (s *Service) RecentActivity(ctx context.Context, p identity.Principal, now time.Time) ([]Entry, error) {
	if !p.IsAuthenticated() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "you must be authenticated to access recent activities")
	}

	owned, err := s.forms.FindByOwner(ctx, p.UserID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list forms")
	}
	if len(owned) == 0 {
		return []Entry{}, nil
	}

	formIDs := make([]string, 0, len(owned))
	for _, f := range owned {
		formIDs = append(formIDs, f.ID)
	}

	events, err := s.events.TopNAcrossForms(ctx, formIDs, maxEntries)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load view events")
	}
	// Defensive re-clamp in case a store returns more than asked.
	if len(events) > maxEntries {
		events = events[:maxEntries]
	}

	viewers, err := s.resolveViewers(ctx, events)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(events))
	for _, e := range events {
		f, err := s.forms.FindByID(ctx, e.FormID)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeNotFound) {
				continue // form deleted since the view, drop silently
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load form")
		}

		entry := Entry{
			Action: actionFormViewed,
			Form:   f.Title,
			Color:  colorTag,
			Time:   relativeTime(now.Sub(e.ViewedAt)),
		}
		if e.ByUser() {
			id := e.UserID
			entry.UserID = &id
			if viewer, ok := viewers[e.UserID]; ok {
				entry.UserName = viewer.Name
			} else {
				entry.UserName = "Unknown User"
			}
		} else {
			entry.UserName = "Anonymous"
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// resolveViewers looks up the distinct viewer ids concurrently. Missing
// users are simply absent from the result; store failures abort.
func (s *Service) resolveViewers(ctx context.Context, events []view.Event) (map[string]user.User, error) {
	ids := make(map[string]struct{})
	for _, e := range events {
		if e.ByUser() {
			ids[e.UserID] = struct{}{}
		}
	}

	var mu sync.Mutex
	viewers := make(map[string]user.User, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for id := range ids {
		g.Go(func() error {
			u, err := s.users.FindByID(gctx, id)
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeNotFound) {
					return nil
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve viewer")
			}
			mu.Lock()
			viewers[id] = u
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return viewers, nil
}

// relativeTime renders the age of an event the way the dashboard shows
// it: whole hours truncated down, days as hours/24.
func relativeTime(age time.Duration) string {
	hours := int(age.Hours())
	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	default:
		return fmt.Sprintf("%d days ago", hours/24)
	}
}
