package workflow

import (
	"sync"
	"time"
)

// SessionStore persists sessions. Implementations must be safe for
// concurrent use; the Engine additionally serializes per-session mutation.
type SessionStore interface {
	Get(id string) (*Session, error)
	Put(s *Session) error
	Delete(id string) error
	// ListExpired returns the ids of sessions whose budget elapsed before
	// now. Used for garbage collection.
	ListExpired(now time.Time) ([]string, error)
}

// MemoryStore keeps sessions in process memory. Sessions are cloned on the
// way in and out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (m *MemoryStore) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.Clone()
}

func (m *MemoryStore) Put(s *Session) error {
	stored, err := s.Clone()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sessions[s.ID] = stored
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) ListExpired(now time.Time) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for id, s := range m.sessions {
		if now.After(s.ExpiresAt()) {
			out = append(out, id)
		}
	}
	return out, nil
}
