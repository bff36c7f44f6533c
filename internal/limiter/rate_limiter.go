package limiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is the interface that all rate limiters must implement
// This allows us to easily swap between in-memory and Redis implementations
type Limiter interface {
	// Allow checks if a request identified by key (usually the client IP)
	// should be allowed. Returns false when the caller is rate limited.
	Allow(key string) bool

	// Close cleans up any resources (Redis connections, etc.)
	Close() error
}

// idleTimeout is how long a key may stay unused before its bucket is dropped
const idleTimeout = 5 * time.Minute

// visitor is the token bucket of one key plus its last use
type visitor struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per key
// Buckets come from golang.org/x/time/rate; idle ones are evicted periodically.
// Suitable for single-server deployments.
type MemoryLimiter struct {
	visitors    sync.Map // map[string]*visitor
	limit       rate.Limit
	burst       int
	cleanupMu   sync.Mutex
	lastCleanup time.Time
}

// NewMemoryLimiter creates a new in-memory rate limiter
//
// Parameters:
//   - limit: requests allowed per window, per key (also the burst size)
//   - window: length of the window
//
// Returns:
//   - *MemoryLimiter: new in-memory rate limiter instance
//
// Example: limit 1, window 10s lets one bulk call through every 10 seconds.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	limit = max(limit, 1)
	if window <= 0 {
		window = time.Second
	}

	return &MemoryLimiter{
		limit:       rate.Limit(float64(limit) / window.Seconds()),
		burst:       limit,
		lastCleanup: time.Now(),
	}
}

// Allow implements the Limiter interface
func (rl *MemoryLimiter) Allow(key string) bool {
	v := rl.getVisitor(key)

	v.mu.Lock()
	v.lastSeen = time.Now()
	v.mu.Unlock()

	allowed := v.limiter.Allow()

	// Periodically clean up old buckets (prevent memory leak)
	rl.maybeCleanup()

	return allowed
}

// getVisitor gets or creates the bucket for a key
func (rl *MemoryLimiter) getVisitor(key string) *visitor {
	if value, ok := rl.visitors.Load(key); ok {
		return value.(*visitor)
	}

	v := &visitor{
		limiter:  rate.NewLimiter(rl.limit, rl.burst),
		lastSeen: time.Now(),
	}

	// LoadOrStore handles race conditions
	actual, _ := rl.visitors.LoadOrStore(key, v)
	return actual.(*visitor)
}

// maybeCleanup removes buckets that have not been used for idleTimeout
// Runs at most once per idleTimeout
func (rl *MemoryLimiter) maybeCleanup() {
	rl.cleanupMu.Lock()
	defer rl.cleanupMu.Unlock()

	if time.Since(rl.lastCleanup) < idleTimeout {
		return
	}
	rl.evictIdle(time.Now().Add(-idleTimeout))
	rl.lastCleanup = time.Now()
}

// evictIdle drops every bucket last used before threshold
func (rl *MemoryLimiter) evictIdle(threshold time.Time) {
	rl.visitors.Range(func(key, value any) bool {
		v := value.(*visitor)
		v.mu.Lock()
		lastSeen := v.lastSeen
		v.mu.Unlock()

		if lastSeen.Before(threshold) {
			rl.visitors.Delete(key)
		}
		return true
	})
}

// Close implements the Limiter interface
// Nothing to release for the in-memory implementation
func (rl *MemoryLimiter) Close() error {
	return nil
}
