package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the session tier of a request. It implements scope.Store.
type Session struct {
	// ID is the stable unique session identifier that never changes during the session lifecycle
	ID uuid.UUID

	// Token is the cryptographically secure session token (32 bytes base64url),
	// sent to the client as the session cookie value.
	Token string

	// Attributes holds session-tier attribute values.
	Attributes map[string]any

	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt time.Time

	mu sync.RWMutex

	// isModified tracks if the session needs saving
	isModified bool
}

// New creates a session with a generated token and ID.
// The session is marked as modified and ready to be saved.
func New(ttl time.Duration) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	return &Session{
		ID:         uuid.New(),
		Token:      token,
		Attributes: make(map[string]any),
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
		UpdatedAt:  now,
		isModified: true,
	}, nil
}

// Attribute returns the value stored under name.
func (s *Session) Attribute(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.Attributes[name]
	return v, ok
}

// SetAttribute stores value under name. A nil value removes the attribute.
func (s *Session) SetAttribute(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == nil {
		s.removeLocked(name)
		return
	}
	if s.Attributes == nil {
		s.Attributes = make(map[string]any)
	}
	s.Attributes[name] = value
	s.UpdatedAt = time.Now()
	s.isModified = true
}

// RemoveAttribute deletes name from the session.
func (s *Session) RemoveAttribute(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(name)
}

func (s *Session) removeLocked(name string) {
	if _, ok := s.Attributes[name]; !ok {
		return
	}
	delete(s.Attributes, name)
	s.UpdatedAt = time.Now()
	s.isModified = true
}

// AttributeNames returns the attribute names in sorted order.
func (s *Session) AttributeNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.Attributes))
}

// Refresh rotates the session token without changing the session ID.
func (s *Session) Refresh() error {
	token, err := generateToken()
	if err != nil {
		return errors.Join(ErrTokenGeneration, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Token = token
	s.UpdatedAt = time.Now()
	s.isModified = true
	return nil
}

// Invalidate marks the session for deletion by setting DeletedAt timestamp.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DeletedAt = time.Now()
	s.isModified = true
}

// Touch extends the session expiration if the touch interval has elapsed.
// This reduces write operations by only updating when sufficient time has passed.
func (s *Session) Touch(ttl, touchInterval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if time.Since(s.UpdatedAt) >= touchInterval {
		s.ExpiresAt = time.Now().Add(ttl)
		s.UpdatedAt = time.Now()
		s.isModified = true
	}
}

// IsDeleted returns true if the session is marked for deletion.
func (s *Session) IsDeleted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.DeletedAt.IsZero()
}

// IsModified returns true if the session has been modified and needs saving.
func (s *Session) IsModified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isModified
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Now().After(s.ExpiresAt)
}

// Clone returns a copy with its own attribute map. The copy is not modified.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Session{
		ID:         s.ID,
		Token:      s.Token,
		Attributes: maps.Clone(s.Attributes),
		ExpiresAt:  s.ExpiresAt,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
		DeletedAt:  s.DeletedAt,
	}
}

func (s *Session) markSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isModified = false
}

// generateToken creates a cryptographically secure random token using 32 bytes (256 bits)
// encoded as base64 URL-safe string without padding.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
