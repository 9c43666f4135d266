// ABOUTME: In-memory byte cache implementation backed by patrickmn/go-cache
// ABOUTME: Holds the search snapshot and other derived views with TTL support

package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"plugindex-api/core/errors"
	"plugindex-api/core/interfaces"
)

// Cache implements the byte-cache interface in process memory with periodic
// cleanup of expired entries.
type Cache struct {
	cache *gocache.Cache
}

// NewCache creates an in-memory cache. defaultExpiration applies when Set is
// called with a zero TTL; cleanupInterval controls how often expired entries
// are purged.
func NewCache(defaultExpiration, cleanupInterval time.Duration) *Cache {
	return &Cache{cache: gocache.New(defaultExpiration, cleanupInterval)}
}

// Get retrieves a value from the cache.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, ok := c.cache.Get(key)
	if !ok {
		return nil, &errors.NotFoundError{Resource: "cache key", ID: key}
	}
	data := value.([]byte)

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Set stores a value in the cache with the given TTL. A zero TTL uses the
// cache's default expiration.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := make([]byte, len(value))
	copy(data, value)

	if ttl == 0 {
		c.cache.SetDefault(key, data)
		return nil
	}
	c.cache.Set(key, data, ttl)
	return nil
}

// Delete removes a key from the cache.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.cache.Delete(key)
	return nil
}

var _ interfaces.Cache = (*Cache)(nil)
