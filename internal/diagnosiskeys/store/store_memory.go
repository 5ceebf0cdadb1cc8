// Package store persists diagnosis-key sessions, their batch parts and the
// scheduled-session markers.
package store

import (
	"context"
	"sync"
	"time"

	"exposure/internal/diagnosiskeys/models"
	"exposure/pkg/platform/sentinel"
)

// InMemoryStore keeps sessions in process memory. Used by tests and the
// simulated device harness.
type InMemoryStore struct {
	mu        sync.Mutex
	sessions  map[string]*models.Session
	scheduled map[string]time.Time
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		sessions:  make(map[string]*models.Session),
		scheduled: make(map[string]time.Time),
	}
}

func (s *InMemoryStore) InsertSession(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.Token]; ok {
		return sentinel.ErrConflict
	}
	s.sessions[session.Token] = clone(session)
	return nil
}

func (s *InMemoryStore) GetSession(_ context.Context, token string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(session), nil
}

func (s *InMemoryStore) UpdateSession(_ context.Context, oldToken string, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[oldToken]; !ok {
		return sentinel.ErrNotFound
	}
	if oldToken != session.Token {
		if _, taken := s.sessions[session.Token]; taken {
			return sentinel.ErrConflict
		}
		delete(s.sessions, oldToken)
	}
	s.sessions[session.Token] = clone(session)
	return nil
}

func (s *InMemoryStore) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *InMemoryStore) ListSessions(_ context.Context) ([]*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, clone(session))
	}
	return out, nil
}

func (s *InMemoryStore) InsertScheduledSession(_ context.Context, token string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduled[token] = at
	return nil
}

func (s *InMemoryStore) ScheduledSessionExists(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.scheduled[token]
	return ok, nil
}

func (s *InMemoryStore) DeleteScheduledSession(_ context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scheduled[token]; !ok {
		return 0, nil
	}
	delete(s.scheduled, token)
	return 1, nil
}

func clone(s *models.Session) *models.Session {
	c := *s
	if s.FirstYellowDay != nil {
		d := *s.FirstYellowDay
		c.FirstYellowDay = &d
	}
	c.FullBatchParts = append([]models.BatchPart(nil), s.FullBatchParts...)
	c.DailyBatchesParts = append([]models.BatchPart(nil), s.DailyBatchesParts...)
	return &c
}
