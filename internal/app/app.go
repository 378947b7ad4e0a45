// Package app wires configuration into the resolver, shared cache and
// verifier used by the binaries.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	emailverifier "github.com/sanketagarwal/email-verifier"
	"github.com/sanketagarwal/email-verifier/internal/config"
	"github.com/sanketagarwal/email-verifier/internal/dnscache"
	"github.com/sanketagarwal/email-verifier/internal/doh"
	"github.com/sanketagarwal/email-verifier/internal/rediscache"
	"github.com/sanketagarwal/email-verifier/resolve"
)

// NewResolver builds the resolver selected by cfg.Mode.
func NewResolver(cfg config.ResolverConfig, log *zap.Logger) (resolve.Resolver, error) {
	switch cfg.Mode {
	case config.ResolverSystem:
		return resolve.NewSystemResolver(), nil
	case config.ResolverDoHJSON, config.ResolverDoHWire:
		mode := doh.ModeJSON
		if cfg.Mode == config.ResolverDoHWire {
			mode = doh.ModeWire
		}
		c, err := doh.New(doh.Config{
			Endpoint: cfg.Endpoint,
			Mode:     mode,
			Retries:  cfg.Retries,
			Logger:   log,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("app: unknown resolver mode %q", cfg.Mode)
	}
}

// SharedCache is a cross-batch cache with resources to release.
type SharedCache interface {
	resolve.Cache
	io.Closer
}

// NewSharedCache builds the cache selected by cfg.Type. It returns nil for
// CacheNone. A memory cache is swept every sweepEvery until ctx ends.
func NewSharedCache(ctx context.Context, cfg config.CacheConfig, sweepEvery time.Duration, log *zap.Logger) (SharedCache, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch cfg.Type {
	case config.CacheNone:
		return nil, nil
	case config.CacheMemory:
		c := &memoryCache{Cache: dnscache.New(cfg.TTL(), cfg.MaxEntries), stop: make(chan struct{})}
		if sweepEvery > 0 {
			go c.sweepLoop(ctx, sweepEvery, log)
		}
		return c, nil
	case config.CacheRedis:
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		c, err := rediscache.NewFromURL(pingCtx, cfg.RedisURL, cfg.TTL(), log)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("app: unknown cache type %q", cfg.Type)
	}
}

// memoryCache adds a background sweeper to dnscache.Cache.
type memoryCache struct {
	*dnscache.Cache
	stop chan struct{}
}

func (c *memoryCache) sweepLoop(ctx context.Context, every time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case <-ticker.C:
			if n := c.Sweep(); n > 0 {
				log.Debug("swept expired cache entries", zap.Int("removed", n), zap.Int("remaining", c.Len()))
			}
		}
	}
}

func (c *memoryCache) Close() error {
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
	return nil
}

// NewVerifier builds a verifier from cfg. shared may be nil.
func NewVerifier(cfg *config.Config, r resolve.Resolver, shared resolve.Cache, log *zap.Logger) *emailverifier.Verifier {
	v := emailverifier.New().
		WithResolver(r).
		WithResolveOptions(emailverifier.ResolveOptions{
			Timeout:          cfg.Resolver.Timeout(),
			DisableAFallback: !cfg.Resolver.FallbackEnabled(),
		}).
		WithLogger(log)
	if shared != nil {
		v = v.WithSharedCache(shared)
	}
	return v
}

// BatchOptions returns the batch options from cfg.
func BatchOptions(cfg *config.Config) emailverifier.BatchOptions {
	return emailverifier.BatchOptions{
		GroupSize:  cfg.Batch.GroupSize,
		GroupPause: cfg.Batch.GroupPause(),
	}
}
