package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"legal-literacy-portal/internal/config"
	"legal-literacy-portal/pkg/logger"
)

// Key namespaces under the configured prefix
const (
	KeyRateLimitPrefix = "rate_limit:"
	KeySessionPrefix   = "session:wizard:"
)

// RedisCache holds wizard sessions and rate limit windows for every portal instance
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
	now       func() time.Time
	logger    *logger.Logger
}

// RateDecision is the outcome of one rate limit check
type RateDecision struct {
	Allowed   bool
	Remaining int64
	ResetAt   time.Time
}

// NewRedis dials cfg and fails unless the server answers a ping
func NewRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis at %s: %w", cfg.Addr(), err)
	}

	c := NewRedisWithClient(client, cfg.KeyPrefix, log)
	c.logger.Info().Str("addr", cfg.Addr()).Str("prefix", cfg.KeyPrefix).Msg("connected to Redis")
	return c, nil
}

// NewRedisWithClient wraps an existing client. Tests hand in a miniredis client.
func NewRedisWithClient(client *redis.Client, keyPrefix string, log *logger.Logger) *RedisCache {
	return &RedisCache{
		client:    client,
		keyPrefix: keyPrefix,
		now:       time.Now,
		logger:    log.WithComponent("redis"),
	}
}

// Ping checks the connection
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) key(parts ...string) string {
	k := c.keyPrefix
	for _, p := range parts {
		k += p
	}
	return k
}

// loadJSON decodes the document at key into dest. found is false when the key is absent or expired.
func (c *RedisCache) loadJSON(ctx context.Context, key string, dest any) (found bool, err error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("corrupt value at %s: %w", key, err)
	}
	return true, nil
}

// storeJSON writes value at key, replacing any previous value and TTL
func (c *RedisCache) storeJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *RedisCache) forget(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// CheckRateLimit counts one request for client in the current fixed window.
// Windows are aligned to multiples of window, so every instance agrees on the reset time.
func (c *RedisCache) CheckRateLimit(ctx context.Context, client string, limit int64, window time.Duration) (RateDecision, error) {
	now := c.now()
	start := now.Truncate(window)
	resetAt := start.Add(window)
	key := c.key(KeyRateLimitPrefix, client, ":", strconv.FormatInt(start.Unix(), 10))

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireAt(ctx, key, resetAt)
	if _, err := pipe.Exec(ctx); err != nil {
		return RateDecision{}, fmt.Errorf("failed to count request: %w", err)
	}

	count := incr.Val()
	return RateDecision{
		Allowed:   count <= limit,
		Remaining: max(limit-count, 0),
		ResetAt:   resetAt,
	}, nil
}
