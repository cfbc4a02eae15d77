package memory

import (
	"context"
	"sync"
	"time"

	"saylov/contexts/survey-core/authoring-service/domain/entities"
	"saylov/contexts/survey-core/authoring-service/ports"
)

// SessionStore keeps drafts in process memory. Dialog state is throwaway, so
// losing it on restart is acceptable.
type SessionStore struct {
	mu     sync.RWMutex
	drafts map[string]entities.Draft
}

func NewSessionStore() *SessionStore {
	return &SessionStore{drafts: make(map[string]entities.Draft)}
}

func (s *SessionStore) SaveDraft(_ context.Context, draft entities.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := draft
	stored.CandidateNames = append([]string(nil), draft.CandidateNames...)
	s.drafts[draft.AuthorID] = stored
	return nil
}

func (s *SessionStore) GetDraft(_ context.Context, authorID string) (entities.Draft, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft, exists := s.drafts[authorID]
	if !exists {
		return entities.Draft{}, false, nil
	}
	draft.CandidateNames = append([]string(nil), draft.CandidateNames...)
	return draft, true, nil
}

func (s *SessionStore) DeleteDraft(_ context.Context, authorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, authorID)
	return nil
}

func (s *SessionStore) Now() time.Time {
	return time.Now().UTC()
}

var (
	_ ports.DraftStore = (*SessionStore)(nil)
	_ ports.Clock      = (*SessionStore)(nil)
)
