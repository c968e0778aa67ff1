// Package fetch - cached.go wraps URL fetching with a short-lived page cache.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultPageCacheTTL is how long fetched pages stay reusable. Postings change
// rarely, but a stale cache hides edits the user is retrying against.
const DefaultPageCacheTTL = 24 * time.Hour

// pageKeyPrefix namespaces cache keys so the same store can hold staging records.
const pageKeyPrefix = "page:"

// Cache stores fetched pages keyed by URL.
type Cache interface {
	Get(ctx context.Context, url string) (*Result, bool, error)
	Set(ctx context.Context, url string, result *Result, ttl time.Duration) error
	Delete(ctx context.Context, url string) error
}

// RedisCache implements Cache on a Redis client.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a page cache backed by the given Redis client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the cached page for url, if present.
func (c *RedisCache) Get(ctx context.Context, url string) (*Result, bool, error) {
	data, err := c.client.Get(ctx, pageKeyPrefix+url).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read page cache: %w", err)
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached page: %w", err)
	}
	return &result, true, nil
}

// Set stores the page for url with the given TTL.
func (c *RedisCache) Set(ctx context.Context, url string, result *Result, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode page for cache: %w", err)
	}
	if err := c.client.Set(ctx, pageKeyPrefix+url, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write page cache: %w", err)
	}
	return nil
}

// Delete removes the cached page for url.
func (c *RedisCache) Delete(ctx context.Context, url string) error {
	if err := c.client.Del(ctx, pageKeyPrefix+url).Err(); err != nil {
		return fmt.Errorf("failed to delete cached page: %w", err)
	}
	return nil
}

// CachedFetcher wraps URL fetching with caching.
type CachedFetcher struct {
	cache     Cache
	options   *Options
	cacheTTL  time.Duration
	skipCache bool // For testing or forcing fresh fetches
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL  time.Duration
	SkipCache bool
	Options   *Options
}

// DefaultCachedFetcherConfig returns sensible defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL:  DefaultPageCacheTTL,
		SkipCache: false,
		Options:   DefaultOptions(),
	}
}

// NewCachedFetcher creates a new cached fetcher. A nil cache disables caching.
func NewCachedFetcher(cache Cache, config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultPageCacheTTL
	}
	return &CachedFetcher{
		cache:     cache,
		options:   config.Options,
		cacheTTL:  config.CacheTTL,
		skipCache: config.SkipCache,
	}
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool
}

// Fetch retrieves a URL, using the cache if available and fresh.
// Cache failures degrade to a direct fetch rather than failing the request.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	if !f.skipCache && f.cache != nil {
		cached, ok, err := f.cache.Get(ctx, urlStr)
		if err != nil {
			log.Warn().Err(err).Str("url", urlStr).Msg("page cache read failed, fetching directly")
		} else if ok {
			return &CachedResult{Result: cached, FromCache: true}, nil
		}
	}

	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		return nil, err
	}

	text, _ := ExtractMainText(result.HTML, DefaultTextSelectors())
	result.Text = text

	if f.cache != nil {
		if err := f.cache.Set(ctx, urlStr, result, f.cacheTTL); err != nil {
			// The fetch succeeded; a cache write failure is not fatal
			log.Warn().Err(err).Str("url", urlStr).Msg("page cache write failed")
		}
	}

	return &CachedResult{Result: result, FromCache: false}, nil
}

// Store replaces the cached page for a URL, e.g. after a browser render
// produced richer HTML than the plain HTTP fetch.
func (f *CachedFetcher) Store(ctx context.Context, urlStr string, result *Result) error {
	if f.cache == nil {
		return nil
	}
	return f.cache.Set(ctx, urlStr, result, f.cacheTTL)
}

// InvalidateCache removes a cached page, forcing a re-fetch on next request.
func (f *CachedFetcher) InvalidateCache(ctx context.Context, urlStr string) error {
	if f.cache == nil {
		return nil
	}
	return f.cache.Delete(ctx, urlStr)
}
