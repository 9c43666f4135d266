// ABOUTME: Cached snapshot service wrapping index builds behind the byte cache
// ABOUTME: Serves a reusable search view, rebuilt from the store on expiry or demand

package searchindex

import (
	"context"
	"encoding/json"
	"time"

	"plugindex-api/core/domain"
	"plugindex-api/core/errors"
	"plugindex-api/core/interfaces"
)

const snapshotCacheKey = "search:index"

// Snapshot serves the current search view, caching built indexes through the
// injected byte cache. Staleness between build time and query time is
// expected; the TTL bounds it.
type Snapshot struct {
	deps interfaces.Dependencies
	ttl  time.Duration
}

// NewSnapshot creates a snapshot service with the given cache lifetime.
func NewSnapshot(deps interfaces.Dependencies, ttl time.Duration) *Snapshot {
	return &Snapshot{deps: deps, ttl: ttl}
}

// Current returns the cached search view, building a fresh one from the
// store when the cache has nothing usable.
func (s *Snapshot) Current(ctx context.Context) ([]domain.SearchEntry, error) {
	if s.deps.Cache != nil {
		if data, err := s.deps.Cache.Get(ctx, snapshotCacheKey); err == nil && data != nil {
			var entries []domain.SearchEntry
			decodeErr := json.Unmarshal(data, &entries)
			if decodeErr == nil {
				return entries, nil
			}
			// A corrupt cache entry is not fatal; rebuild below.
			s.deps.Logger.Warn("discarding undecodable search snapshot", map[string]interface{}{
				"error": decodeErr.Error(),
			})
		}
	}
	return s.Rebuild(ctx)
}

// Rebuild scans the store, builds a fresh snapshot and caches it,
// replacing whatever was cached before.
func (s *Snapshot) Rebuild(ctx context.Context) ([]domain.SearchEntry, error) {
	records, err := s.deps.Store.ScanAll(ctx)
	if err != nil {
		return nil, errors.WrapError(err, "search snapshot scan failed")
	}

	entries, err := Build(records)
	if err != nil {
		return nil, err
	}

	if s.deps.Cache != nil {
		if data, err := json.Marshal(entries); err == nil {
			_ = s.deps.Cache.Set(ctx, snapshotCacheKey, data, s.ttl)
		}
	}

	s.deps.Logger.Info("rebuilt search snapshot", map[string]interface{}{
		"entries": len(entries),
	})
	return entries, nil
}
