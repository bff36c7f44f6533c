package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/evyataryagoni/geoconsole/internal/models"
	"github.com/redis/go-redis/v9"
)

// sessionKeyPrefix namespaces session keys in Redis
const sessionKeyPrefix = "session:"

// RedisStore implements Store interface using Redis
// Sessions are shared by every server instance pointing at the same Redis
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a new Redis store
//
// Parameters:
//   - addr: Redis server address (e.g., "localhost:6379")
//   - password: Redis password (empty string if no password)
//   - db: Redis database number (0-15, default is 0)
//   - ttl: expiry refreshed on every save (0 means no expiry)
//
// Returns:
//   - *RedisStore: pointer to the created store
//   - error: any error that occurred during connection
func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test the connection
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
	}, nil
}

// sessionKey builds the Redis key for a session
// Example: session:5f0c6a0e-...
func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Get implements the Store interface
// Value: JSON-encoded models.Session
func (s *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	val, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session from Redis: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if sess.Records == nil {
		sess.Records = []models.GeoRecord{}
	}
	return &sess, nil
}

// Save implements the Store interface
func (s *RedisStore) Save(ctx context.Context, sess *models.Session) error {
	cp := *sess
	cp.UpdatedAt = time.Now()

	data, err := json.Marshal(&cp)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(sess.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in Redis: %w", err)
	}
	return nil
}

// Delete implements the Store interface
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from Redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection
// Should be called when the application shuts down
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
