package audit

import (
	"context"
	"sort"
	"sync"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.FormID] = append(s.events[event.FormID], event)
	return nil
}

// ListByForm returns the trail newest first, matching the Postgres store.
func (s *InMemoryStore) ListByForm(_ context.Context, formID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := append([]Event{}, s.events[formID]...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
	return events, nil
}
