package store

import (
	"context"
	"sync"

	"github.com/evyataryagoni/geoconsole/internal/models"
)

// MockStore is a test double for the Store interface
// It allows tests to control behavior and verify interactions
type MockStore struct {
	mu sync.Mutex

	// Data holds the stored sessions (session id -> session)
	Data map[string]*models.Session

	// Track method calls for verification in tests
	GetCalls    []string
	SaveCalls   []string
	DeleteCalls []string
	CloseCalled bool

	// Control behavior for error scenarios
	GetError    error
	SaveError   error
	DeleteError error
	CloseError  error
}

// NewMockStore creates an empty mock store
func NewMockStore() *MockStore {
	return &MockStore{
		Data: map[string]*models.Session{},
	}
}

// Get implements the Store interface
func (m *MockStore) Get(ctx context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, id)
	if m.GetError != nil {
		return nil, m.GetError
	}

	sess, ok := m.Data[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return cloneSession(sess), nil
}

// Save implements the Store interface
func (m *MockStore) Save(ctx context.Context, sess *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls = append(m.SaveCalls, sess.ID)
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Data[sess.ID] = cloneSession(sess)
	return nil
}

// Delete implements the Store interface
func (m *MockStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, id)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.Data, id)
	return nil
}

// Close implements the Store interface
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CloseCalled = true
	return m.CloseError
}
