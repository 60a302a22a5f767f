// Package cache provides a thread-safe TTL cache.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is the lifetime of static device details.
const DefaultTTL = time.Hour

// Entry holds a cached value with expiration.
type Entry[V any] struct {
	Value     V
	ExpiresAt time.Time
	FetchedAt time.Time
}

// expired reports whether the entry has expired at now.
func (e *Entry[V]) expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Cache provides thread-safe TTL-based caching keyed by string.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]*Entry[V]
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Cache.
type Option[V any] func(*Cache[V])

// WithClock overrides the time source.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) { c.now = now }
}

// New creates a cache whose entries live for ttl. A non-positive ttl means
// DefaultTTL.
func New[V any](ttl time.Duration, opts ...Option[V]) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache[V]{
		entries: make(map[string]*Entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the entry lifetime.
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}

// Get retrieves a live value. Expired entries are reported as missing.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || entry.expired(c.now()) {
		var zero V
		return zero, false
	}
	return entry.Value, true
}

// GetEntry retrieves the full entry, expired or not.
func (c *Cache[V]) GetEntry(key string) (Entry[V], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return Entry[V]{}, false
	}
	return *entry, true
}

// Set stores a value with the cache TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = &Entry[V]{
		Value:     value,
		ExpiresAt: now.Add(c.ttl),
		FetchedAt: now,
	}
}

// Delete removes an entry.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry[V])
}

// Prune drops expired entries and returns how many were removed.
func (c *Cache[V]) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, including expired ones.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
