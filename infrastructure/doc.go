// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as record storage, caching, tag counters, and logging.
//
// The infrastructure package is organized by technical concern:
//
// - storage/memory: In-memory record store for tests and single-process runs
// - storage/redis: Redis-backed record store using RedisJSON documents
// - storage/sqlite: SQLite-backed record store with secondary index columns
// - cache/memory: In-memory byte cache built on go-cache
// - cache/redis: Redis-based byte cache for shared search snapshots
// - counters/memory, counters/redis: Tag usage counters
// - diagnostics/standard: Operator-facing diagnostic report sink
// - http/standard: Standard library HTTP client
// - logger/standard: Logrus-backed structured logger
//
// # Design Philosophy
//
// Infrastructure components are designed to be:
// - Pluggable: Easy to swap implementations
// - Configurable: Accept configuration objects
// - Testable: Include both unit and integration tests
// - Production-ready: Include timeouts and error handling
//
// # Record Store Implementations
//
// Memory Store Example:
//
//	store := memory.NewStore()
//	err := store.Insert(ctx, record)
//	rec, err := store.Get(ctx, "syntastic")
//
// Redis Store Example:
//
//	cfg := config.RedisConfig{
//	    Address:  "localhost:6379",
//	    Password: "",
//	    DB:       0,
//	}
//	store, err := redis.NewStore(cfg)
//
// # Logger
//
// The logger supports structured logging with fields:
//
//	logger := standard.NewLogger("info")
//	logger.Info("Ingested plugin", map[string]interface{}{
//	    "slug":   "syntastic",
//	    "action": "insert",
//	})
//
package infrastructure
