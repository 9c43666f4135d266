// ABOUTME: In-memory tag counter implementation guarded by a mutex
// ABOUTME: Default tag-frequency backend for tests and single-process runs

package memory

import (
	"context"
	"sync"

	"plugindex-api/core/interfaces"
)

// Counters implements the TagCounters interface in process memory.
type Counters struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewCounters creates an empty in-memory tag counter set.
func NewCounters() *Counters {
	return &Counters{counts: map[string]int64{}}
}

// Increment bumps the aggregate count for a tag.
func (c *Counters) Increment(ctx context.Context, tag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[tag]++
	return nil
}

// Decrement lowers the aggregate count for a tag. Counts never go below
// zero; a decrement of an unknown tag is a no-op.
func (c *Counters) Decrement(ctx context.Context, tag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts[tag] > 0 {
		c.counts[tag]--
	}
	return nil
}

// Count returns the current count for a tag.
func (c *Counters) Count(tag string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[tag]
}

var _ interfaces.TagCounters = (*Counters)(nil)
