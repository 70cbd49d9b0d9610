package fetch

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL is how long a fetched job description is reused.
const DefaultCacheTTL = 24 * time.Hour

// DefaultMaxEntries bounds the memory tier.
const DefaultMaxEntries = 256

// Cache keeps job descriptions by URL in memory and, when configured, in Redis.
// The memory tier is checked first and refilled on Redis hits.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	rdb     *redis.Client
	ttl     time.Duration
	max     int
	now     func() time.Time
}

type cacheEntry struct {
	text      string
	expiresAt time.Time
}

// NewCache returns a memory-only cache.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{entries: make(map[string]cacheEntry), ttl: ttl, max: DefaultMaxEntries, now: time.Now}
}

// NewRedisCache returns a cache backed by the Redis server at redisURL. An invalid URL or an
// unreachable server leaves the cache memory-only.
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration) *Cache {
	c := NewCache(ttl)
	if redisURL == "" {
		return c
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		slog.Warn("job cache: invalid redis URL, using memory only", "error", err)
		return c
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Warn("job cache: redis unreachable, using memory only", "error", err)
		_ = rdb.Close()
		return c
	}

	c.rdb = rdb
	slog.Info("job cache: redis connected", "addr", opts.Addr)
	return c
}

// Close releases the Redis connection, if any.
func (c *Cache) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

func cacheKey(jobURL string) string {
	sum := sha256.Sum256([]byte(jobURL))
	return fmt.Sprintf("jd:%x", sum[:12])
}

// Get returns the cached description for jobURL.
func (c *Cache) Get(ctx context.Context, jobURL string) (string, bool) {
	key := cacheKey(jobURL)

	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && c.now().Before(entry.expiresAt) {
		c.mu.Unlock()
		return entry.text, true
	}
	delete(c.entries, key)
	c.mu.Unlock()

	if c.rdb == nil {
		return "", false
	}
	text, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Debug("job cache: redis get failed", "error", err)
		}
		return "", false
	}
	c.store(key, text)
	return text, true
}

// Set caches text for jobURL.
func (c *Cache) Set(ctx context.Context, jobURL, text string) {
	key := cacheKey(jobURL)
	c.store(key, text)
	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, text, c.ttl).Err(); err != nil {
			slog.Debug("job cache: redis set failed", "error", err)
		}
	}
}

func (c *Cache) store(key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.max {
		c.evict(now)
	}
	c.entries[key] = cacheEntry{text: text, expiresAt: now.Add(c.ttl)}
}

// evict drops expired entries, then the one closest to expiry if the tier is still full.
// Callers hold c.mu.
func (c *Cache) evict(now time.Time) {
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	if len(c.entries) < c.max {
		return
	}

	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.expiresAt.Before(oldest) {
			oldestKey, oldest = k, e.expiresAt
		}
	}
	delete(c.entries, oldestKey)
}
