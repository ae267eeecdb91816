package collector

import (
	"context"
	"log"
	"sync"
	"time"

	"FundDashboard/internal/model"
)

// DefaultCacheTTL is how long a downloaded sheet is reused.
const DefaultCacheTTL = 300 * time.Second

type cacheEntry struct {
	fetchedAt time.Time
	table     *model.RawTable
}

// CacheStats counts cache lookups.
type CacheStats struct {
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
	Entries int `json:"entries"`
}

// CachedFetcher keeps successful downloads in memory for TTL, keyed by URL.
// Expiry is checked on read; nothing runs in the background. The zero value
// with Next set is usable: a nil Now reads the wall clock and a zero TTL means
// DefaultCacheTTL.
type CachedFetcher struct {
	Next Fetcher
	TTL  time.Duration
	Now  func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
	hits    int
	misses  int
}

// NewCachedFetcher wraps next with a URL-keyed cache.
func NewCachedFetcher(next Fetcher, ttl time.Duration) *CachedFetcher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedFetcher{
		Next:    next,
		TTL:     ttl,
		Now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *CachedFetcher) Name() string { return "cached-" + c.Next.Name() }

// FetchCSV returns the cached table for url while it is fresh, otherwise
// downloads it. Failed downloads are not cached.
func (c *CachedFetcher) FetchCSV(ctx context.Context, url string) (*model.RawTable, error) {
	if t, ok := c.lookup(url); ok {
		return t, nil
	}

	t, err := c.Next.FetchCSV(ctx, url)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.entries == nil {
		c.entries = make(map[string]cacheEntry)
	}
	c.entries[url] = cacheEntry{fetchedAt: c.now(), table: t}
	c.mu.Unlock()
	return t, nil
}

func (c *CachedFetcher) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *CachedFetcher) ttl() time.Duration {
	if c.TTL <= 0 {
		return DefaultCacheTTL
	}
	return c.TTL
}

func (c *CachedFetcher) lookup(url string) (*model.RawTable, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[url]
	if ok && c.now().Sub(e.fetchedAt) < c.ttl() {
		c.hits++
		return e.table, true
	}
	if ok {
		delete(c.entries, url)
	}
	c.misses++
	return nil, false
}

// Invalidate drops the entry for url.
func (c *CachedFetcher) Invalidate(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, url)
}

// Purge drops every entry.
func (c *CachedFetcher) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]cacheEntry)
	log.Printf("[INFO] fetch cache purged (%d entries)", n)
}

// Stats returns a snapshot of the cache counters.
func (c *CachedFetcher) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}
