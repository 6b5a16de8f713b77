// Package cache provides short-TTL caching of analysis results, Redis-backed
// with graceful degradation to an in-process map when Redis is unavailable.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"smc-analyzer/internal/analysis"
	"smc-analyzer/internal/logging"

	"github.com/redis/go-redis/v9"
)

const keyAnalysisResult = "analysis:%s:%s" // symbol, timeframe

// Config holds result cache configuration
type Config struct {
	RedisEnabled  bool
	RedisAddress  string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int
	TTL           time.Duration
}

// ResultCache caches MTF analysis results keyed by (symbol, currentTimeframe).
// Redis keeps entries shared across instances; when it is disabled or
// unhealthy the cache degrades to an in-process TTL map.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger

	mu      sync.RWMutex
	healthy bool
	local   map[string]localEntry
}

type localEntry struct {
	result    *analysis.MTFAnalysisResult
	expiresAt time.Time
}

// New creates a ResultCache. Redis connectivity is verified once; failure
// leaves the cache in degraded (in-memory) mode rather than erroring.
func New(cfg Config, logger *logging.Logger) *ResultCache {
	if logger == nil {
		logger = logging.WithComponent("cache")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}

	rc := &ResultCache{
		ttl:    cfg.TTL,
		logger: logger,
		local:  make(map[string]localEntry),
	}

	if !cfg.RedisEnabled {
		return rc
	}

	rc.client = redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddress,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rc.client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, result cache degraded to in-memory", "error", err)
		return rc
	}

	rc.healthy = true
	logger.Info("redis result cache connected", "address", cfg.RedisAddress)
	return rc
}

// Get returns the cached result for (symbol, timeframe), or nil on miss.
func (rc *ResultCache) Get(ctx context.Context, symbol, timeframe string) *analysis.MTFAnalysisResult {
	key := fmt.Sprintf(keyAnalysisResult, symbol, timeframe)

	if rc.isHealthy() {
		data, err := rc.client.Get(ctx, key).Bytes()
		if err == nil {
			var result analysis.MTFAnalysisResult
			if err := json.Unmarshal(data, &result); err == nil {
				return &result
			}
		} else if err != redis.Nil {
			rc.markUnhealthy(err)
		}
		return nil
	}

	rc.mu.RLock()
	defer rc.mu.RUnlock()
	entry, ok := rc.local[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}
	return entry.result
}

// Set stores a result under (symbol, timeframe) with the configured TTL.
func (rc *ResultCache) Set(ctx context.Context, symbol, timeframe string, result *analysis.MTFAnalysisResult) {
	key := fmt.Sprintf(keyAnalysisResult, symbol, timeframe)

	if rc.isHealthy() {
		data, err := json.Marshal(result)
		if err != nil {
			return
		}
		if err := rc.client.Set(ctx, key, data, rc.ttl).Err(); err != nil {
			rc.markUnhealthy(err)
		}
		return
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.local[key] = localEntry{result: result, expiresAt: time.Now().Add(rc.ttl)}
}

// CleanupExpired drops expired in-memory entries. Redis handles its own TTLs.
func (rc *ResultCache) CleanupExpired() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	now := time.Now()
	for key, entry := range rc.local {
		if now.After(entry.expiresAt) {
			delete(rc.local, key)
		}
	}
}

// Close releases the Redis connection if one was established.
func (rc *ResultCache) Close() {
	if rc.client != nil {
		rc.client.Close()
	}
}

func (rc *ResultCache) isHealthy() bool {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.healthy
}

func (rc *ResultCache) markUnhealthy(err error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.healthy {
		rc.healthy = false
		rc.logger.Warn("redis operation failed, result cache degraded to in-memory", "error", err)
	}
}
