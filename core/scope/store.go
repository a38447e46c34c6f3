package scope

import (
	"slices"
	"sync"
)

// Store is a named attribute store backing one tier.
// Implementations must be safe for concurrent use.
type Store interface {
	Attribute(name string) (any, bool)
	SetAttribute(name string, value any)
	RemoveAttribute(name string)
	AttributeNames() []string
}

// MapStore is an in-memory Store.
type MapStore struct {
	mu    sync.RWMutex
	attrs map[string]any
}

// NewMapStore creates an empty MapStore.
func NewMapStore() *MapStore {
	return &MapStore{attrs: make(map[string]any)}
}

func (s *MapStore) Attribute(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.attrs[name]
	return v, ok
}

// SetAttribute stores value under name. A nil value removes the attribute.
func (s *MapStore) SetAttribute(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == nil {
		delete(s.attrs, name)
		return
	}
	s.attrs[name] = value
}

func (s *MapStore) RemoveAttribute(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attrs, name)
}

// AttributeNames returns the stored names in sorted order.
func (s *MapStore) AttributeNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.attrs))
	for name := range s.attrs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Snapshot returns a copy of all attributes.
func (s *MapStore) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.attrs))
	for k, v := range s.attrs {
		out[k] = v
	}
	return out
}

// Len returns the number of stored attributes.
func (s *MapStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.attrs)
}

// Clear removes every attribute.
func (s *MapStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.attrs)
}
