// Package dnscache is a thread-safe, TTL-based in-memory cache of domain
// mailability answers, shared across batches in one process.
package dnscache

import (
	"context"
	"sync"
	"time"
)

// Cache maps a domain to whether it can receive mail.
// Expired entries are dropped lazily on Get and in bulk by Sweep.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	// now is injectable for testing
	now func() time.Time
}

type entry struct {
	mailable bool
	expires  time.Time
}

// New creates a cache whose entries live for ttl. When maxEntries is
// positive, a full cache sweeps expired entries and then evicts the entry
// closest to expiry to make room.
func New(ttl time.Duration, maxEntries int) *Cache {
	return &Cache{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// NewWithClock creates a cache with a custom clock (for testing).
func NewWithClock(ttl time.Duration, maxEntries int, now func() time.Time) *Cache {
	c := New(ttl, maxEntries)
	c.now = now
	return c
}

// Get returns the cached answer for domain and whether it was present.
func (c *Cache) Get(_ context.Context, domain string) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[domain]
	if !ok {
		return false, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, domain)
		return false, false
	}
	return e.mailable, true
}

// Set stores the answer for domain.
func (c *Cache) Set(_ context.Context, domain string, mailable bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[domain]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.sweepLocked(now)
		if len(c.entries) >= c.maxEntries {
			c.evictOneLocked()
		}
	}
	c.entries[domain] = entry{mailable: mailable, expires: now.Add(c.ttl)}
}

// Sweep removes expired entries and returns how many were removed.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked(c.now())
}

// Len returns the number of entries in the cache (for diagnostics).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) sweepLocked(now time.Time) int {
	removed := 0
	for d, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, d)
			removed++
		}
	}
	return removed
}

func (c *Cache) evictOneLocked() {
	var (
		victim  string
		soonest time.Time
	)
	for d, e := range c.entries {
		if victim == "" || e.expires.Before(soonest) {
			victim, soonest = d, e.expires
		}
	}
	delete(c.entries, victim)
}
