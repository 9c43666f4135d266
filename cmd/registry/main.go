// ABOUTME: Main entry point for the plugin registry worker
// ABOUTME: Wires storage, scrapers, and services, then runs scrape and snapshot loops

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"plugindex-api/core/ingest"
	"plugindex-api/core/interfaces"
	"plugindex-api/core/searchindex"
	memorycache "plugindex-api/infrastructure/cache/memory"
	rediscache "plugindex-api/infrastructure/cache/redis"
	memorycounters "plugindex-api/infrastructure/counters/memory"
	rediscounters "plugindex-api/infrastructure/counters/redis"
	"plugindex-api/infrastructure/diagnostics/standard"
	stdhttp "plugindex-api/infrastructure/http/standard"
	stdlogger "plugindex-api/infrastructure/logger/standard"
	memorystore "plugindex-api/infrastructure/storage/memory"
	redisstore "plugindex-api/infrastructure/storage/redis"
	sqlitestore "plugindex-api/infrastructure/storage/sqlite"
	"plugindex-api/pkg/config"
	"plugindex-api/scrapers/cycle"
	"plugindex-api/scrapers/pkgindex"
	"plugindex-api/scrapers/repo"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Create logger
	logger := stdlogger.NewLogger(cfg.LogLevel)
	logger.Info("Starting plugin registry", map[string]interface{}{
		"store_type":      cfg.Store.Type,
		"cache_type":      cfg.Cache.Type,
		"scrape_interval": cfg.ScrapeInterval,
	})

	// Create record store
	var store interfaces.RecordStore
	switch cfg.Store.Type {
	case "redis":
		redisStore, err := redisstore.NewStore(cfg.Store.Redis)
		if err != nil {
			logger.Error("Failed to create Redis store, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			store = memorystore.NewStore()
		} else {
			store = redisStore
			logger.Info("Using Redis store", map[string]interface{}{
				"address": cfg.Store.Redis.Address,
			})
		}
	case "sqlite":
		sqliteStore, err := sqlitestore.NewStore(cfg.Store.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open SQLite store: %v", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
		logger.Info("Using SQLite store", map[string]interface{}{
			"path": cfg.Store.SQLitePath,
		})
	default:
		store = memorystore.NewStore()
		logger.Info("Using memory store", nil)
	}

	// Create cache
	var cache interfaces.Cache
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := rediscache.NewCache(cfg.Cache.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			cache = memorycache.NewCache(time.Duration(cfg.Cache.Memory.DefaultExpiration)*time.Second, 10*time.Minute)
		} else {
			cache = redisCache
		}
	default:
		cache = memorycache.NewCache(time.Duration(cfg.Cache.Memory.DefaultExpiration)*time.Second, 10*time.Minute)
	}

	// Create tag counters alongside the store backend
	var counters interfaces.TagCounters
	if cfg.Store.Type == "redis" {
		redisCounters, err := rediscounters.NewCounters(cfg.Store.Redis)
		if err != nil {
			logger.Error("Failed to create Redis counters, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			counters = memorycounters.NewCounters()
		} else {
			counters = redisCounters
		}
	} else {
		counters = memorycounters.NewCounters()
	}

	// Create dependencies container
	deps := interfaces.Dependencies{
		Store:       store,
		Cache:       cache,
		TagCounters: counters,
		Diagnostics: standard.NewSink(logger.Underlying()),
		HTTPClient:  stdhttp.NewClient(time.Duration(cfg.Scraper.HTTPTimeout) * time.Second),
		Logger:      logger,
	}

	// Create services and scrapers
	ingestService := ingest.NewService(deps)
	snapshot := searchindex.NewSnapshot(deps, time.Duration(cfg.SnapshotTTL)*time.Second)
	runner := cycle.NewRunner(deps,
		pkgindex.NewScraper(deps, cfg.Scraper),
		repo.NewScraper(deps, cfg.Scraper),
		ingestService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// Scrape loop: every cycle feeds the package-index, mirror, and author-repo
	// bags of each discovered script into ingestion. The first cycle can crawl
	// the whole listing for a backfill.
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := runner.Run(ctx, cfg.BackfillOnStart); err != nil && ctx.Err() == nil {
			logger.Error("Scrape cycle failed", map[string]interface{}{"error": err.Error()})
		}

		ticker := time.NewTicker(time.Duration(cfg.ScrapeInterval) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := runner.Run(ctx, false); err != nil && ctx.Err() == nil {
					logger.Error("Scrape cycle failed", map[string]interface{}{"error": err.Error()})
				}
			}
		}
	}()

	// Snapshot loop: keep the search index cache warm
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(time.Duration(cfg.SnapshotTTL) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := snapshot.Rebuild(ctx); err != nil {
					logger.Error("Search snapshot rebuild failed", map[string]interface{}{
						"error": err.Error(),
					})
				}
			}
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down registry...", nil)
	cancel()
	wg.Wait()
	logger.Info("Registry stopped", nil)
}
