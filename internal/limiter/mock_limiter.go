package limiter

import "sync"

// MockLimiter is a test double for the Limiter interface
// It allows tests to control allow/deny behavior and verify interactions
type MockLimiter struct {
	mu sync.Mutex

	// Control behavior
	AllowResult bool // If true, Allow() returns true; if false, returns false

	// Track method calls for verification in tests
	AllowCalls  []string // Keys Allow() was called with
	CloseCalled bool

	// Control error scenarios
	CloseError error
}

// NewMockLimiter creates a mock limiter with specified allow behavior
// Parameters:
//   - allowResult: if true, all requests will be allowed; if false, all will be denied
func NewMockLimiter(allowResult bool) *MockLimiter {
	return &MockLimiter{
		AllowResult: allowResult,
		AllowCalls:  []string{},
	}
}

// Allow implements the Limiter interface
func (m *MockLimiter) Allow(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AllowCalls = append(m.AllowCalls, key)
	return m.AllowResult
}

// Close implements the Limiter interface
func (m *MockLimiter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CloseCalled = true
	return m.CloseError
}
