package view

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryEventStore holds the view log in process memory, newest last
// per form. Suitable for development and tests.
type InMemoryEventStore struct {
	mu     sync.RWMutex
	byForm map[string][]Event
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{byForm: make(map[string][]Event)}
}

func (s *InMemoryEventStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byForm[event.FormID] = append(s.byForm[event.FormID], event)
	return nil
}

func (s *InMemoryEventStore) MostRecentByFormAndUser(_ context.Context, formID, userID string, since time.Time) (*Event, error) {
	return s.mostRecent(formID, since, func(e Event) bool {
		return e.ByUser() && e.UserID == userID
	}), nil
}

func (s *InMemoryEventStore) MostRecentByFormAndIP(_ context.Context, formID, ip string, since time.Time) (*Event, error) {
	return s.mostRecent(formID, since, func(e Event) bool {
		return !e.ByUser() && e.IPAddress == ip
	}), nil
}

func (s *InMemoryEventStore) mostRecent(formID string, since time.Time, match func(Event) bool) *Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := s.byForm[formID]
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		if e.ViewedAt.Before(since) {
			continue
		}
		if match(e) {
			return &e
		}
	}
	return nil
}

func (s *InMemoryEventStore) TopNAcrossForms(_ context.Context, formIDs []string, n int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []Event
	for _, id := range formIDs {
		all = append(all, s.byForm[id]...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ViewedAt.After(all[j].ViewedAt)
	})
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}
