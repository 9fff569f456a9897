package redis

import (
	"context"
	"fmt"
	"time"

	"fundchain-server/internal/config"
	"fundchain-server/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Client wraps the Redis connection used by the analysis cache
type Client struct {
	client *redis.Client
	logger *observability.Logger
}

// NewClient connects to Redis. An empty Addr disables Redis and returns a
// nil client; callers fall back to the in-memory cache.
func NewClient(cfg config.RedisConfig, logger *observability.Logger) (*Client, error) {
	if cfg.Addr == "" {
		logger.Info(context.Background(), "Redis is not configured, analysis cache will be in-memory")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "addr", Value: cfg.Addr},
		observability.Field{Key: "db", Value: cfg.DB},
	)
	logger.Info(ctx, "successfully connected to Redis")

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	if c == nil {
		return nil
	}
	return c.client
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
