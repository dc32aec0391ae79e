package session

import (
	"context"
	"sync"
	"time"
)

// Store persists per-phone funnel sessions. Implementations must guarantee
// at most one row per phone: Upsert overwrites in place as a single logical
// operation, and two concurrent upserts for the same phone never create a
// second row.
type Store interface {
	// Get returns the session for the phone, or nil if none exists.
	Get(ctx context.Context, phone string) (*Session, error)
	// Upsert writes the session, replacing any existing row for its phone.
	Upsert(ctx context.Context, s *Session) error
	// Delete removes the session if present; deleting a missing phone is not an error.
	Delete(ctx context.Context, phone string) error
	// List returns all live sessions in no particular order.
	List(ctx context.Context) ([]*Session, error)
}

// InMemoryStore is a Store backed by a mutex-guarded map. It is used in tests
// and in memory-only deployments where Redis is not configured.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]Session)}
}

var _ Store = (*InMemoryStore)(nil)

// Get returns a copy of the stored session so callers cannot mutate shared state.
func (s *InMemoryStore) Get(ctx context.Context, phone string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[phone]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

// Upsert stores the session keyed by phone.
func (s *InMemoryStore) Upsert(ctx context.Context, sess *Session) error {
	if sess.UpdatedAt == "" {
		sess.Touch(time.Now())
	}
	s.mu.Lock()
	s.sessions[sess.Phone] = *sess
	s.mu.Unlock()
	return nil
}

// Delete removes the session for the phone.
func (s *InMemoryStore) Delete(ctx context.Context, phone string) error {
	s.mu.Lock()
	delete(s.sessions, phone)
	s.mu.Unlock()
	return nil
}

// List returns copies of all sessions.
func (s *InMemoryStore) List(ctx context.Context) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		copied := sess
		out = append(out, &copied)
	}
	return out, nil
}
