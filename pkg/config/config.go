// ABOUTME: Configuration management for the registry with environment variable support
// ABOUTME: Defines configuration structures for storage, cache, scrapers, and logging

package config

import (
	"errors"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Store contains record storage configuration
	Store StoreConfig

	// Cache contains cache backend configuration
	Cache CacheConfig

	// Scraper contains upstream scraper configuration
	Scraper ScraperConfig

	// ScrapeInterval is the interval in seconds between ingestion runs
	ScrapeInterval int

	// BackfillOnStart crawls the whole script listing on the first cycle
	// instead of only the recent-scripts feed
	BackfillOnStart bool

	// SnapshotTTL is the search snapshot cache TTL in seconds
	SnapshotTTL int

	// LogLevel controls log verbosity (debug/info/warn/error)
	LogLevel string
}

// StoreConfig holds record storage backend configuration
type StoreConfig struct {
	// Type specifies the storage backend (memory/redis/sqlite)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// SQLitePath is the SQLite database file path
	SQLitePath string
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/memory)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// Memory contains in-memory cache configuration
	Memory MemoryConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// DefaultExpiration is the default TTL for cache entries in seconds
	DefaultExpiration int
}

// ScraperConfig holds upstream source configuration
type ScraperConfig struct {
	// PackageIndexBaseURL is the base URL of the script index site
	PackageIndexBaseURL string

	// PackageIndexFeedURL is the recent-scripts RSS feed URL
	PackageIndexFeedURL string

	// RepoAPIBaseURL is the base URL of the repository hosting API
	RepoAPIBaseURL string

	// RequestsPerSecond limits outbound scraper requests
	RequestsPerSecond float64

	// HTTPTimeout is the outbound request timeout in seconds
	HTTPTimeout int
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Store: StoreConfig{
			Type: getEnvOrDefault("STORE_TYPE", "memory"),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "plugindex.db"),
		},
		Cache: CacheConfig{
			Type: getEnvOrDefault("CACHE_TYPE", "memory"),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
			Memory: MemoryConfig{
				DefaultExpiration: getEnvAsIntOrDefault("MEMORY_CACHE_EXPIRATION", 3600),
			},
		},
		Scraper: ScraperConfig{
			PackageIndexBaseURL: getEnvOrDefault("PKGINDEX_BASE_URL", "https://www.vim.org"),
			PackageIndexFeedURL: getEnvOrDefault("PKGINDEX_FEED_URL", "https://www.vim.org/scripts/script_rss.php"),
			RepoAPIBaseURL:      getEnvOrDefault("REPO_API_BASE_URL", "https://api.github.com"),
			RequestsPerSecond:   getEnvAsFloatOrDefault("SCRAPER_RPS", 2),
			HTTPTimeout:         getEnvAsIntOrDefault("SCRAPER_HTTP_TIMEOUT", 30),
		},
		ScrapeInterval:  getEnvAsIntOrDefault("SCRAPE_INTERVAL", 3600),
		BackfillOnStart: getEnvOrDefault("SCRAPE_BACKFILL", "false") == "true",
		SnapshotTTL:     getEnvAsIntOrDefault("SNAPSHOT_TTL", 600),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault returns the environment variable as float64 or a default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Store.Type {
	case "memory", "redis", "sqlite":
	default:
		return errors.New("store type must be 'memory', 'redis' or 'sqlite'")
	}

	if c.Store.Type == "redis" && c.Store.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis store")
	}

	if c.Store.Type == "sqlite" && c.Store.SQLitePath == "" {
		return errors.New("sqlite path cannot be empty when using sqlite store")
	}

	if c.Cache.Type != "redis" && c.Cache.Type != "memory" {
		return errors.New("cache type must be 'redis' or 'memory'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.ScrapeInterval < 1 {
		return errors.New("scrape interval must be at least 1 second")
	}

	if c.SnapshotTTL < 1 {
		return errors.New("snapshot ttl must be at least 1 second")
	}

	if c.Scraper.RequestsPerSecond <= 0 {
		return errors.New("scraper requests per second must be positive")
	}

	return nil
}
