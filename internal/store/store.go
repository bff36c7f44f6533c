package store

import (
	"context"
	"errors"

	"github.com/evyataryagoni/geoconsole/internal/models"
)

// ErrSessionNotFound is returned by Get when no session is stored under the id
var ErrSessionNotFound = errors.New("session not found")

// Store defines the interface for console session persistence
// Allows multiple implementations (memory, Redis, MySQL) and easy testing with mocks
type Store interface {
	// Get loads the session stored under id, or ErrSessionNotFound
	Get(ctx context.Context, id string) (*models.Session, error)

	// Save creates or replaces the session under sess.ID
	Save(ctx context.Context, sess *models.Session) error

	// Delete removes the session; deleting a missing session is not an error
	Delete(ctx context.Context, id string) error

	// Close cleans up resources (database connections, etc.)
	Close() error
}

// cloneSession copies a session so that callers never share the record slice
// Records themselves are treated as immutable once decoded.
func cloneSession(sess *models.Session) *models.Session {
	cp := *sess
	cp.Records = append(make([]models.GeoRecord, 0, len(sess.Records)), sess.Records...)
	return &cp
}
