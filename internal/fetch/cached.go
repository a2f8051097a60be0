package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultCacheTTL is how long a fetched job description is reused
const DefaultCacheTTL = 24 * time.Hour

// maxParallelFetches bounds FetchMultiple
const maxParallelFetches = 4

// Cache stores extracted job descriptions by URL
type Cache interface {
	Get(ctx context.Context, key string) (*Result, bool, error)
	Set(ctx context.Context, key string, result *Result, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CachedFetcher wraps JobDescription with a cache.
type CachedFetcher struct {
	cache   Cache
	options *Options
	ttl     time.Duration
	logger  zerolog.Logger
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL time.Duration
	Options  *Options
}

// NewCachedFetcher creates a cached fetcher. A nil cache uses an in-memory one.
func NewCachedFetcher(cache Cache, config *CachedFetcherConfig, logger zerolog.Logger) *CachedFetcher {
	if config == nil {
		config = &CachedFetcherConfig{}
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	options := config.Options
	if options == nil {
		options = DefaultOptions()
	}
	ttl := config.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedFetcher{cache: cache, options: options, ttl: ttl, logger: logger}
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool `json:"from_cache"`
}

// Fetch returns the cached description for urlStr when fresh, otherwise
// fetches and caches it. Cache failures are logged and never fail the fetch.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	cached, ok, err := f.cache.Get(ctx, urlStr)
	if err != nil {
		f.logger.Warn().Err(err).Str("url", urlStr).Msg("job cache read failed")
	}
	if ok {
		return &CachedResult{Result: cached, FromCache: true}, nil
	}

	result, err := JobDescription(ctx, urlStr, f.options, f.logger)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(ctx, urlStr, result, f.ttl); err != nil {
		f.logger.Warn().Err(err).Str("url", urlStr).Msg("job cache write failed")
	}
	return &CachedResult{Result: result}, nil
}

// FetchMultiple fetches urls concurrently. Results are in input order;
// failed fetches are nil in the result slice with the error at the same index.
func (f *CachedFetcher) FetchMultiple(ctx context.Context, urls []string) ([]*CachedResult, []error) {
	results := make([]*CachedResult, len(urls))
	errs := make([]error, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for i, u := range urls {
		g.Go(func() error {
			results[i], errs[i] = f.Fetch(gctx, u)
			return nil
		})
	}
	_ = g.Wait()

	return results, errs
}

// InvalidateCache drops the cached description for urlStr.
func (f *CachedFetcher) InvalidateCache(ctx context.Context, urlStr string) error {
	return f.cache.Delete(ctx, urlStr)
}

// MemoryCache is a process-local Cache
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	result    Result
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get returns a copy of the entry for key unless it has expired
func (c *MemoryCache) Get(_ context.Context, key string) (*Result, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	result := entry.result
	return &result, true, nil
}

// Set stores a copy of result for ttl
func (c *MemoryCache) Set(_ context.Context, key string, result *Result, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{result: *result, expiresAt: c.now().Add(ttl)}
	return nil
}

// Delete removes key
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// RedisCache stores descriptions as JSON under a key prefix. Raw HTML is not cached.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisCache creates a cache on client. An empty prefix uses "jobdesc:".
func NewRedisCache(client redis.UniversalClient, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "jobdesc:"
	}
	return &RedisCache{client: client, prefix: prefix}
}

// Get loads key, reporting a miss for absent keys
func (c *RedisCache) Get(ctx context.Context, key string) (*Result, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false, fmt.Errorf("decode cached result: %w", err)
	}
	return &result, true, nil
}

// Set stores result under key with ttl
func (c *RedisCache) Set(ctx context.Context, key string, result *Result, ttl time.Duration) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes key
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
