// Package redis provides a Redis-backed cache shared by every server instance.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/config"
	"github.com/prn-tf/recipebook/internal/repository"
)

// Cache implements repository.Cache on a Redis client.
type Cache struct {
	client *goredis.Client
	logger zerolog.Logger
}

// NewClient creates a Redis client from configuration and verifies the connection.
func NewClient(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr(), err)
	}

	logger.Info().Str("addr", cfg.Addr()).Int("db", cfg.DB).Msg("connected to Redis")
	return client, nil
}

// NewCache wraps a Redis client.
func NewCache(client *goredis.Client, logger zerolog.Logger) *Cache {
	return &Cache{
		client: client,
		logger: logger.With().Str("component", "redis_cache").Logger(),
	}
}

// Get retrieves a value by key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, repository.ErrCacheMiss
	}
	if err != nil {
		return nil, c.unavailable("get", key, err)
	}
	return b, nil
}

// Set stores a value with an optional TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return c.unavailable("set", key, err)
	}
	return nil
}

// Delete removes values by key.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return c.unavailable("delete", keys[0], err)
	}
	return nil
}

// Exists checks if a key exists.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, c.unavailable("exists", key, err)
	}
	return n > 0, nil
}

func (c *Cache) unavailable(op, key string, err error) error {
	c.logger.Warn().Err(err).Str("op", op).Str("key", key).Msg("redis command failed")
	return fmt.Errorf("%w: %s %s: %v", repository.ErrCacheUnavailable, op, key, err)
}

var _ repository.Cache = (*Cache)(nil)
