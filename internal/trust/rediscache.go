package trust

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fundchain-server/internal/observability"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "trust:analysis:"

// RedisCache is the distributed cache backend, used when multiple server
// instances share one analysis budget. Every operation is best-effort: Redis
// failures degrade to cache misses and are only logged.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *observability.Logger
}

// NewRedisCache creates a Redis-backed assessment cache.
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *observability.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached assessment for key if present. Connection errors and
// undecodable values behave as misses.
func (c *RedisCache) Get(ctx context.Context, key string) (Assessment, bool) {
	value, err := c.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Error(ctx, "failed to read analysis cache entry", err)
		}
		return Assessment{}, false
	}

	var assessment Assessment
	if err := json.Unmarshal([]byte(value), &assessment); err != nil {
		c.logger.Error(ctx, "failed to decode analysis cache entry", err)
		return Assessment{}, false
	}
	return assessment, true
}

// Put stores an assessment for key with the cache TTL as the key expiry.
func (c *RedisCache) Put(ctx context.Context, key string, assessment Assessment) {
	payload, err := json.Marshal(assessment)
	if err != nil {
		c.logger.Error(ctx, "failed to encode analysis cache entry", err)
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		c.logger.Error(ctx, "failed to write analysis cache entry", err)
	}
}
