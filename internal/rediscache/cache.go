// Package rediscache stores domain mailability answers in Redis so they are
// shared across batches and across server instances.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyPrefix namespaces every key written by the cache.
const KeyPrefix = "emailverifier:mx:"

// Cache is a Redis-backed mailability cache. Redis failures degrade to cache
// misses; they never fail a verification.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// New wraps an existing client. A nil logger disables logging.
func New(client *redis.Client, ttl time.Duration, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{client: client, ttl: ttl, log: log}
}

// NewFromURL connects to the Redis instance at url (redis:// or a bare
// host:port) and verifies the connection with a ping.
func NewFromURL(ctx context.Context, url string, ttl time.Duration, log *zap.Logger) (*Cache, error) {
	var client *redis.Client
	if opts, err := redis.ParseURL(url); err == nil {
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClient(&redis.Options{Addr: url})
	}

	c := New(client, ttl, log)
	if err := c.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return c, nil
}

// Get returns the cached answer for domain and whether it was present.
func (c *Cache) Get(ctx context.Context, domain string) (bool, bool) {
	v, err := c.client.Get(ctx, key(domain)).Result()
	if errors.Is(err, redis.Nil) {
		return false, false
	}
	if err != nil {
		c.log.Warn("redis cache read failed", zap.String("domain", domain), zap.Error(err))
		return false, false
	}
	switch v {
	case "1":
		return true, true
	case "0":
		return false, true
	default:
		return false, false
	}
}

// Set stores the answer for domain with the configured TTL.
func (c *Cache) Set(ctx context.Context, domain string, mailable bool) {
	v := "0"
	if mailable {
		v = "1"
	}
	if err := c.client.Set(ctx, key(domain), v, c.ttl).Err(); err != nil {
		c.log.Warn("redis cache write failed", zap.String("domain", domain), zap.Error(err))
	}
}

// Ping checks the connection.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("rediscache: ping: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}

func key(domain string) string {
	return KeyPrefix + domain
}
