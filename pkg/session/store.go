package session

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/msaview/pkg/errors"
)

// DefaultTTL is how long an idle session survives in a MemoryStore.
const DefaultTTL = time.Hour

// Store keeps live sessions by ID.
type Store interface {
	// Get returns the session with the given ID. Unknown or expired IDs
	// yield ErrCodeSessionNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session under its ID.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup drops expired sessions.
	Cleanup(ctx context.Context) error

	// Len returns the number of stored sessions.
	Len() int
}

type storeEntry struct {
	sess       *Session
	lastAccess time.Time
}

// MemoryStore is an in-process Store with idle expiry.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*storeEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a store. A zero ttl uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		sessions: make(map[string]*storeEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	now := s.now()
	if now.Sub(e.lastAccess) > s.ttl {
		delete(s.sessions, id)
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q expired", id)
	}
	e.lastAccess = now
	return e.sess, nil
}

func (s *MemoryStore) Set(ctx context.Context, sess *Session) error {
	if sess == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil session")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID()] = &storeEntry{sess: sess, lastAccess: s.now()}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.sessions {
		if now.Sub(e.lastAccess) > s.ttl {
			delete(s.sessions, id)
		}
	}
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

var _ Store = (*MemoryStore)(nil)
