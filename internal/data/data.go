// Package data provides data access layer implementations.
// It handles database connections, caching and data persistence.
package data

import (
	"time"

	"DonorLane/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	NewRedisClient,
	NewCacheClient,
	NewDB,
	NewDonorRepo,
	NewEventRepo,
	NewEventDonorRepo,
	NewAuditLogRepo,
	NewAnalyticsRepo,
	NewAuditWriter,
)

// Data contains the shared data layer dependencies.
type Data struct {
	redisClient   *redis.Client
	cache         CacheClient
	donorCacheTTL time.Duration
	// Note: the gorm DB is not stored here, it's injected directly to repositories
}

// NewData creates a new Data instance with all data layer dependencies.
// Redis connection failure does not prevent application startup (graceful degradation).
func NewData(c *conf.Data, logger log.Logger, rdb *redis.Client, cache CacheClient) (*Data, func(), error) {
	helper := log.NewHelper(logger)

	if rdb == nil {
		helper.Warn("Redis client is nil, caching will be unavailable")
	}

	ttl := TTLActiveDonors
	if c != nil && c.Redis != nil && c.Redis.DonorCacheTtl.AsDuration() > 0 {
		ttl = c.Redis.DonorCacheTtl.AsDuration()
	}

	d := &Data{
		redisClient:   rdb,
		cache:         cache,
		donorCacheTTL: ttl,
	}

	cleanup := func() {
		helper.Info("closing the data resources")
	}

	return d, cleanup, nil
}

// GetCache returns the cache client for repository use.
func (d *Data) GetCache() CacheClient {
	return d.cache
}

// GetRedisClient returns the Redis client for advanced operations.
func (d *Data) GetRedisClient() *redis.Client {
	return d.redisClient
}

// DonorCacheTTL is how long the active donor pool stays cached.
func (d *Data) DonorCacheTTL() time.Duration {
	return d.donorCacheTTL
}
