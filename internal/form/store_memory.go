package form

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore implements Store and QuestionStore for development and
// tests.
type InMemoryStore struct {
	mu        sync.RWMutex
	forms     map[string]Form
	questions map[string][]Question
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		forms:     make(map[string]Form),
		questions: make(map[string][]Question),
	}
}

func (s *InMemoryStore) Save(_ context.Context, f Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms[f.ID] = f
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.forms[id]; ok {
		return f, nil
	}
	return Form{}, ErrNotFound
}

func (s *InMemoryStore) FindByOwner(_ context.Context, ownerID string) ([]Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var forms []Form
	for _, f := range s.forms {
		if f.OwnerID == ownerID {
			forms = append(forms, f)
		}
	}
	sort.Slice(forms, func(i, j int) bool {
		return forms[i].CreatedAt.After(forms[j].CreatedAt)
	})
	return forms, nil
}

func (s *InMemoryStore) IncrementViewCount(_ context.Context, formID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.forms[formID]
	if !ok {
		return ErrNotFound
	}
	f.ViewCount++
	s.forms[formID] = f
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, formID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.forms, formID)
	delete(s.questions, formID)
	return nil
}

func (s *InMemoryStore) SaveQuestions(_ context.Context, formID string, questions []Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[formID] = append([]Question{}, questions...)
	return nil
}

func (s *InMemoryStore) QuestionsByForm(_ context.Context, formID string) ([]Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Question{}, s.questions[formID]...), nil
}
