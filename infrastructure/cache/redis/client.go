// ABOUTME: Redis byte-cache implementation using the go-redis client
// ABOUTME: Lets multiple processes share one search snapshot with TTL support

package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"plugindex-api/core/errors"
	"plugindex-api/core/interfaces"
	"plugindex-api/pkg/config"
)

// Cache implements the byte-cache interface on Redis.
type Cache struct {
	client *goredis.Client
}

// NewCache connects to Redis and verifies the connection.
func NewCache(cfg config.RedisConfig) (*Cache, error) {
	if cfg.Address == "" {
		return nil, &errors.InvalidInputError{Field: "address", Message: "redis address cannot be empty"}
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.WrapError(err, "redis connection failed")
	}

	return &Cache{client: client}, nil
}

// Get retrieves a value from Redis.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, &errors.NotFoundError{Resource: "cache key", ID: key}
		}
		return nil, err
	}
	return val, nil
}

// Set stores a value in Redis with the given TTL. A zero TTL stores the
// value without expiration.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes a key from Redis. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

var _ interfaces.Cache = (*Cache)(nil)
