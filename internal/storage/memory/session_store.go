// Package memory provides in-memory implementations of the storage
// interfaces, used by tests and by pipeline runs without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/storage"
)

// SessionStore is an in-memory implementation of storage.SessionStore.
type SessionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.RawSession // keyed by session_id
}

var _ storage.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		data: make(map[string]*domain.RawSession),
	}
}

// Insert adds a new session. Returns ErrDuplicateKey if session_id exists.
func (s *SessionStore) Insert(_ context.Context, session *domain.RawSession) error {
	if session == nil || session.SessionID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[session.SessionID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	sessionCopy := *session
	s.data[session.SessionID] = &sessionCopy
	return nil
}

// InsertBulk adds multiple sessions atomically. Fails the entire batch on
// any duplicate or invalid session.
func (s *SessionStore) InsertBulk(_ context.Context, sessions []*domain.RawSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(sessions))
	for _, session := range sessions {
		if session == nil || session.SessionID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[session.SessionID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, dup := seen[session.SessionID]; dup {
			return storage.ErrDuplicateKey
		}
		seen[session.SessionID] = struct{}{}
	}

	for _, session := range sessions {
		sessionCopy := *session
		s.data[session.SessionID] = &sessionCopy
	}
	return nil
}

// GetByID retrieves a session by its ID. Returns ErrNotFound if not exists.
func (s *SessionStore) GetByID(_ context.Context, sessionID string) (*domain.RawSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.data[sessionID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	sessionCopy := *session
	return &sessionCopy, nil
}

// GetByStake retrieves all sessions at a stake, ordered by date ASC,
// session_id ASC.
func (s *SessionStore) GetByStake(_ context.Context, stakeText string) ([]*domain.RawSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.RawSession
	for _, session := range s.data {
		if session.StakeText == stakeText {
			sessionCopy := *session
			result = append(result, &sessionCopy)
		}
	}

	sortSessions(result)
	return result, nil
}

// GetAll retrieves all sessions, ordered by date ASC, session_id ASC.
func (s *SessionStore) GetAll(_ context.Context) ([]*domain.RawSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.RawSession, 0, len(s.data))
	for _, session := range s.data {
		sessionCopy := *session
		result = append(result, &sessionCopy)
	}

	sortSessions(result)
	return result, nil
}

func sortSessions(sessions []*domain.RawSession) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Date != sessions[j].Date {
			return sessions[i].Date < sessions[j].Date
		}
		return sessions[i].SessionID < sessions[j].SessionID
	})
}
