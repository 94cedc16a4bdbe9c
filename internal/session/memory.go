package session

import (
	"context"
	"sync"

	"time"

	"github.com/frahmantamala/payment-portal/internal/core/datamodel/session"
)

// MemoryStore keeps sessions in a mutex-guarded map. The whole
// check-then-refresh sequence runs under the lock, which gives the same
// per-key atomicity the SQL store gets from a conditional UPDATE.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*session.Session),
	}
}

func (s *MemoryStore) Create(_ context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sess
	s.sessions[sess.ID] = &copied
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *sess
	return &copied, nil
}

func (s *MemoryStore) Refresh(_ context.Context, id string, cutoff, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false, nil
	}
	if sess.LastActivity.Before(cutoff) {
		return false, nil
	}
	// last_activity is monotonic non-decreasing across skewed clocks.
	if now.After(sess.LastActivity) {
		sess.LastActivity = now
	}
	return true, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports the number of live sessions, used by tests.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
