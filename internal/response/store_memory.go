package response

import (
	"context"
	"sync"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	byForm map[string][]Response
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byForm: make(map[string][]Response)}
}

func (s *InMemoryStore) Save(_ context.Context, r Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byForm[r.FormID] = append(s.byForm[r.FormID], r)
	return nil
}

func (s *InMemoryStore) FindByForm(_ context.Context, formID string) ([]Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Response{}, s.byForm[formID]...), nil
}
