package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/evyataryagoni/geoconsole/internal/logger"
	"github.com/redis/go-redis/v9"
)

// fixedWindowScript increments the counter of the current window and sets
// its expiry on first use. Returns the current count.
var fixedWindowScript = redis.NewScript(`
	local current = redis.call('INCR', KEYS[1])
	if current == 1 then
		redis.call('EXPIRE', KEYS[1], tonumber(ARGV[1]))
	end
	return current
`)

// RedisLimiter implements distributed rate limiting using Redis
// This is suitable for multi-server deployments where rate limits need to be
// shared across all instances
//
// Algorithm: fixed window counter
//   - Key format: "ratelimit:{name}:{key}:{window}"
//   - INCR + EXPIRE run atomically in a Lua script
//   - Redis errors fail open
type RedisLimiter struct {
	client  *redis.Client
	name    string
	limit   int64
	window  time.Duration
	timeout time.Duration
	logger  *logger.Logger
}

// NewRedisLimiter creates a new Redis-based rate limiter
//
// Parameters:
//   - addr: Redis server address (e.g., "localhost:6379")
//   - password: Redis password (empty string if no password)
//   - db: Redis database number (0-15, default is 0)
//   - name: namespace so several limiters can share one Redis (e.g. "api", "bulk")
//   - limit: requests allowed per window, per key
//   - window: window length, truncated to whole seconds (at least one)
//   - log: logger for fail-open events (optional, can be nil)
//
// Returns:
//   - *RedisLimiter: new Redis rate limiter instance
//   - error: any error that occurred during connection
func NewRedisLimiter(addr, password string, db int, name string, limit int, window time.Duration, log *logger.Logger) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis for rate limiting: %w", err)
	}

	if log == nil {
		log = logger.NewDefault()
	}

	return &RedisLimiter{
		client:  client,
		name:    name,
		limit:   int64(max(limit, 1)),
		window:  max(window.Truncate(time.Second), time.Second),
		timeout: 500 * time.Millisecond,
		logger:  log.WithComponent("RedisLimiter"),
	}, nil
}

// Allow implements the Limiter interface
func (rl *RedisLimiter) Allow(key string) bool {
	windowSeconds := int64(rl.window.Seconds())
	window := time.Now().Unix() / windowSeconds
	redisKey := fmt.Sprintf("ratelimit:%s:%s:%d", rl.name, key, window)

	ctx, cancel := context.WithTimeout(context.Background(), rl.timeout)
	defer cancel()

	// Keep the key for two windows so a late INCR cannot resurrect a counter without expiry
	count, err := fixedWindowScript.Run(ctx, rl.client, []string{redisKey}, windowSeconds*2).Int64()
	if err != nil {
		rl.logger.Warn().Err(err).Str("limiter", rl.name).Msg("Rate limiter unavailable, allowing request")
		return true
	}

	return count <= rl.limit
}

// Close closes the Redis connection
func (rl *RedisLimiter) Close() error {
	if rl.client != nil {
		return rl.client.Close()
	}
	return nil
}
