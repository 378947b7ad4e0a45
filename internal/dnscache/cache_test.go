package dnscache_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sanketagarwal/email-verifier/internal/dnscache"
	"github.com/sanketagarwal/email-verifier/resolve"
)

var _ resolve.Cache = (*dnscache.Cache)(nil)

// clock is a manually advanced time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestCache_BasicCaching(t *testing.T) {
	ctx := context.Background()
	c := dnscache.New(time.Minute, 0)

	_, hit := c.Get(ctx, "example.com")
	assert.False(t, hit)

	c.Set(ctx, "example.com", true)
	c.Set(ctx, "dead.example", false)

	ok, hit := c.Get(ctx, "example.com")
	assert.True(t, hit)
	assert.True(t, ok)

	ok, hit = c.Get(ctx, "dead.example")
	assert.True(t, hit, "negative answers are cached")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	c := dnscache.NewWithClock(time.Minute, 0, clk.Now)

	c.Set(ctx, "example.com", true)
	clk.Advance(59 * time.Second)
	_, hit := c.Get(ctx, "example.com")
	assert.True(t, hit)

	clk.Advance(time.Second)
	_, hit = c.Get(ctx, "example.com")
	assert.False(t, hit)
	assert.Equal(t, 0, c.Len(), "expired entry is dropped on read")
}

func TestCache_Sweep(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	c := dnscache.NewWithClock(time.Minute, 0, clk.Now)

	c.Set(ctx, "old.example", true)
	clk.Advance(30 * time.Second)
	c.Set(ctx, "new.example", true)
	clk.Advance(45 * time.Second)

	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 1, c.Len())
	_, hit := c.Get(ctx, "new.example")
	assert.True(t, hit)
}

func TestCache_MaxEntriesEvictsSoonestExpiry(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	c := dnscache.NewWithClock(time.Minute, 2, clk.Now)

	c.Set(ctx, "a.example", true)
	clk.Advance(time.Second)
	c.Set(ctx, "b.example", true)
	clk.Advance(time.Second)
	c.Set(ctx, "c.example", true)

	assert.Equal(t, 2, c.Len())
	_, hit := c.Get(ctx, "a.example")
	assert.False(t, hit)
	_, hit = c.Get(ctx, "c.example")
	assert.True(t, hit)
}

func TestCache_OverwriteDoesNotEvict(t *testing.T) {
	ctx := context.Background()
	c := dnscache.New(time.Minute, 2)

	c.Set(ctx, "a.example", true)
	c.Set(ctx, "b.example", true)
	c.Set(ctx, "a.example", false)

	assert.Equal(t, 2, c.Len())
	ok, hit := c.Get(ctx, "a.example")
	assert.True(t, hit)
	assert.False(t, ok)
}

func TestCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := dnscache.New(time.Minute, 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := fmt.Sprintf("d%d.example", i%10)
			c.Set(ctx, d, i%2 == 0)
			_, _ = c.Get(ctx, d)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, c.Len())
}
