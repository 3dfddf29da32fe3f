package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

// CacheKeyDonors is the prefix for donor collection caches: donors:{name}
const CacheKeyDonors = "donors"

// TTLActiveDonors is the default lifetime of the cached matching pool.
const TTLActiveDonors = 5 * time.Minute

var (
	// activeDonorsKey holds the JSON-encoded pool of donors eligible for matching.
	activeDonorsKey = BuildCacheKey(CacheKeyDonors, "active")
	// donorStatsKey holds the giving summary over the same pool.
	donorStatsKey = BuildCacheKey(CacheKeyDonors, "stats")
)

// ErrCacheNotFound is returned when a cache key does not exist
var ErrCacheNotFound = errors.New("cache: key not found")

// errCacheDisabled is returned by every operation when Redis is not configured.
var errCacheDisabled = errors.New("cache: redis client is nil")

// CacheClient stores JSON-encoded values. Implementations must be safe for
// concurrent use.
type CacheClient interface {
	// Get decodes the value at key into dest, or returns ErrCacheNotFound.
	Get(ctx context.Context, key string, dest interface{}) error
	// Set encodes value and stores it for ttl.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Delete removes keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

type redisCache struct {
	client *redis.Client
}

// NewCacheClient creates a Redis-backed cache client. With a nil client every
// call fails, and callers fall back to the database.
func NewCacheClient(rdb *redis.Client) CacheClient {
	return &redisCache{client: rdb}
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return errCacheDisabled
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return ErrCacheNotFound
	case err != nil:
		return fmt.Errorf("cache: failed to get key %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("cache: failed to unmarshal value for key %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return errCacheDisabled
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: failed to marshal value for key %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache: failed to set key %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return errCacheDisabled
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache: failed to delete keys %s: %w", strings.Join(keys, ","), err)
	}
	return nil
}

// readThrough returns the cached value at key, or loads it and caches the
// result for ttl. Cache errors are logged and never fail the read.
func readThrough[T any](ctx context.Context, cache CacheClient, logger *log.Helper, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	err := cache.Get(ctx, key, &cached)
	if err == nil {
		logger.Debugw("msg", "cache hit", "key", key, "type", "cache")
		return cached, nil
	}
	if !errors.Is(err, ErrCacheNotFound) {
		logger.Warnw("msg", "cache unavailable", "key", key, "error", err)
	}

	loaded, err := load(ctx)
	if err != nil {
		return loaded, err
	}
	if err := cache.Set(ctx, key, loaded, ttl); err != nil {
		logger.Warnw("msg", "failed to populate cache", "key", key, "error", err)
	}
	return loaded, nil
}

// BuildCacheKey joins prefix and parts with ':', e.g. donors:active.
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), ":")
}
