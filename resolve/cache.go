package resolve

import (
	"context"
	"sync"
)

// Cache stores mailability answers per domain. Implementations used across
// batches must expire entries (see internal/dnscache and internal/rediscache).
type Cache interface {
	Get(ctx context.Context, domain string) (mailable bool, ok bool)
	Set(ctx context.Context, domain string, mailable bool)
}

// BatchCache is the cache owned by a single batch. It is always consulted
// first; on a miss it falls back to the optional shared cache and keeps the
// shared answer locally for the rest of the batch.
type BatchCache struct {
	mu      sync.RWMutex
	entries map[string]bool
	shared  Cache
}

// NewBatchCache creates an empty batch cache. shared may be nil.
func NewBatchCache(shared Cache) *BatchCache {
	return &BatchCache{entries: make(map[string]bool), shared: shared}
}

func (c *BatchCache) Get(ctx context.Context, domain string) (bool, bool) {
	c.mu.RLock()
	ok, hit := c.entries[domain]
	c.mu.RUnlock()
	if hit || c.shared == nil {
		return ok, hit
	}

	ok, hit = c.shared.Get(ctx, domain)
	if hit {
		c.SetLocal(domain, ok)
	}
	return ok, hit
}

// Set stores the answer for this batch and writes it through to the shared cache.
func (c *BatchCache) Set(ctx context.Context, domain string, mailable bool) {
	c.SetLocal(domain, mailable)
	if c.shared != nil {
		c.shared.Set(ctx, domain, mailable)
	}
}

// SetLocal stores the answer for this batch only.
func (c *BatchCache) SetLocal(domain string, mailable bool) {
	c.mu.Lock()
	c.entries[domain] = mailable
	c.mu.Unlock()
}

// Len returns the number of domains answered in this batch.
func (c *BatchCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
