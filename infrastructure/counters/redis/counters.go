// ABOUTME: Redis-backed tag counters using a single hash of tag frequencies
// ABOUTME: Shares the connection settings of the redis record store

package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"plugindex-api/core/errors"
	"plugindex-api/core/interfaces"
	"plugindex-api/pkg/config"
)

const tagCountsKey = "tag_counts"

// Counters implements the TagCounters interface on a Redis hash.
type Counters struct {
	client *goredis.Client
}

// NewCounters connects to Redis and verifies the connection.
func NewCounters(cfg config.RedisConfig) (*Counters, error) {
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

	return &Counters{client: client}, nil
}

// Increment bumps the aggregate count for a tag.
func (c *Counters) Increment(ctx context.Context, tag string) error {
	return c.client.HIncrBy(ctx, tagCountsKey, tag, 1).Err()
}

// Decrement lowers the aggregate count for a tag.
func (c *Counters) Decrement(ctx context.Context, tag string) error {
	return c.client.HIncrBy(ctx, tagCountsKey, tag, -1).Err()
}

// Close releases the underlying connection pool.
func (c *Counters) Close() error {
	return c.client.Close()
}

var _ interfaces.TagCounters = (*Counters)(nil)
