package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Page is a fetched page held in the cache.
type Page struct {
	URL        string
	FinalURL   string
	HTML       string
	Title      string
	EngineName string
}

// entry holds a cached page with its creation timestamp.
type entry struct {
	page      Page
	createdAt time.Time
}

// Cache is an in-memory page cache owned by one Scraper. Discovery already
// drops duplicate constituency links, so a single run fetches each URL once
// and misses every time; hits come from callers that reuse a Scraper for a
// URL it has already fetched. It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
	maxAge     time.Duration
	now        func() time.Time
	hits       int
	misses     int
}

// New creates a Cache holding up to maxEntries pages for at most maxAge.
// maxAge <= 0 keeps pages for the lifetime of the cache.
func New(maxEntries int, maxAge time.Duration) *Cache {
	return &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Key derives the cache key for a URL.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached page for url, if present and fresh.
func (c *Cache) Get(url string) (Page, bool) {
	if c == nil || c.maxEntries <= 0 {
		return Page{}, false
	}
	key := Key(url)

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.store[key]
	if ok && c.maxAge > 0 && c.now().Sub(e.createdAt) > c.maxAge {
		delete(c.store, key)
		ok = false
	}
	if !ok {
		c.misses++
		return Page{}, false
	}
	c.hits++
	return e.page, true
}

// Set stores a page. If the cache is at capacity, an arbitrary entry is
// evicted to make room.
func (c *Cache) Set(p Page) {
	if c == nil || c.maxEntries <= 0 {
		return
	}
	key := Key(p.URL)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.store[key]; !exists && len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}
	c.store[key] = &entry{page: p, createdAt: c.now()}
}

// Stats returns hit and miss counts.
func (c *Cache) Stats() (hits, misses int) {
	if c == nil {
		return 0, 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Len returns the number of cached pages.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}
