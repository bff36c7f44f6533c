package store

import (
	"context"
	"sync"
	"time"

	"github.com/evyataryagoni/geoconsole/internal/models"
)

// MemoryStore keeps sessions in a map, suitable for a single server
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	ttl      time.Duration
}

// NewMemoryStore creates an in-memory session store
// Sessions untouched for longer than ttl are treated as missing; ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.Session),
		ttl:      ttl,
	}
}

// Get implements the Store interface
func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || s.expired(sess) {
		return nil, ErrSessionNotFound
	}
	return cloneSession(sess), nil
}

// Save implements the Store interface
func (s *MemoryStore) Save(ctx context.Context, sess *models.Session) error {
	cp := cloneSession(sess)
	cp.UpdatedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = cp
	s.evictExpiredLocked()
	return nil
}

// Delete implements the Store interface
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included until evicted
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close implements the Store interface
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.sessions = make(map[string]*models.Session)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) expired(sess *models.Session) bool {
	return s.ttl > 0 && time.Since(sess.UpdatedAt) > s.ttl
}

// evictExpiredLocked drops expired sessions; caller holds the write lock
func (s *MemoryStore) evictExpiredLocked() {
	if s.ttl <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
		}
	}
}
