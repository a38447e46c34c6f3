package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store defines the persistence interface for session management.
// Implementations must handle concurrent access safely.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	GetByToken(ctx context.Context, token string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes all expired sessions and returns the count of deleted sessions.
	DeleteExpired(ctx context.Context) (int64, error)
}

// MemoryStore keeps sessions in process memory. Sessions are copied in and
// out so callers never share state with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*Session
	byToken map[string]uuid.UUID
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[uuid.UUID]*Session),
		byToken: make(map[string]uuid.UUID),
	}
}

func (m *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) GetByToken(ctx context.Context, token string) (*Session, error) {
	m.mu.RLock()
	id, ok := m.byToken[token]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return m.GetByID(ctx, id)
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	c := s.Clone()

	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.byID[c.ID]; ok && prev.Token != c.Token {
		delete(m.byToken, prev.Token)
	}
	m.byID[c.ID] = c
	m.byToken[c.Token] = c.ID
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.byToken, s.Token)
	delete(m.byID, id)
	return nil
}

func (m *MemoryStore) DeleteExpired(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var n int64
	for id, s := range m.byID {
		if now.After(s.ExpiresAt) {
			delete(m.byToken, s.Token)
			delete(m.byID, id)
			n++
		}
	}
	return n, nil
}
