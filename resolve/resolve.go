// Package resolve answers "can this domain receive mail" using MX records
// with an A-record fallback. Answers are cached for the lifetime of a batch
// and, optionally, in a shared cache across batches.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Resolver performs the external lookups. Implementations return an empty
// slice and a nil error when the domain has no records of that type.
type Resolver interface {
	LookupMX(ctx context.Context, domain string) ([]string, error)
	LookupA(ctx context.Context, domain string) ([]string, error)
}

// Source tells where a Mailability answer came from.
type Source string

const (
	SourceCache     Source = "cache"
	SourceMX        Source = "mx"
	SourceA         Source = "a"
	SourceNone      Source = "none"
	SourceAssumed   Source = "assumed"   // lookup failed, treated as mailable
	SourceCancelled Source = "cancelled" // caller context ended first
)

// Mailability is the answer for one domain.
type Mailability struct {
	Domain   string `json:"domain"`
	Mailable bool   `json:"mailable"`
	Source   Source `json:"source"`
	Host     string `json:"host,omitempty"` // primary MX host or first address
}

// Config is the resolution service configuration.
type Config struct {
	// Timeout bounds each individual lookup. Default: 3s
	Timeout time.Duration
	// FallbackToA accepts an A record when no MX record is found. Default: true
	FallbackToA bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Timeout: 3 * time.Second, FallbackToA: true}
}

// Service resolves domain mailability through a batch-scoped cache.
// Concurrent calls for the same domain share a single lookup.
type Service struct {
	resolver Resolver
	cache    *BatchCache
	cfg      Config
	log      *zap.Logger
	group    singleflight.Group
	lookups  atomic.Int64
	assumed  atomic.Int64
}

// New creates a Service. A nil cache gets a fresh BatchCache with no shared
// backing; a nil logger disables logging.
func New(r Resolver, cache *BatchCache, cfg Config, log *zap.Logger) *Service {
	if cache == nil {
		cache = NewBatchCache(nil)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{resolver: r, cache: cache, cfg: cfg, log: log}
}

// Resolve returns the mailability of domain. It never fails: lookup errors
// and timeouts produce an optimistic answer (SourceAssumed).
func (s *Service) Resolve(ctx context.Context, domain string) Mailability {
	if ok, hit := s.cache.Get(ctx, domain); hit {
		return Mailability{Domain: domain, Mailable: ok, Source: SourceCache}
	}

	v, _, _ := s.group.Do(domain, func() (any, error) {
		if ok, hit := s.cache.Get(ctx, domain); hit {
			return Mailability{Domain: domain, Mailable: ok, Source: SourceCache}, nil
		}
		m := s.lookup(ctx, domain)
		switch m.Source {
		case SourceCancelled:
			// left uncached so a later call looks it up again
		case SourceAssumed:
			// optimistic answers are kept for this batch only
			s.cache.SetLocal(domain, m.Mailable)
		default:
			s.cache.Set(ctx, domain, m.Mailable)
		}
		return m, nil
	})
	return v.(Mailability)
}

// Lookups is the number of domains looked up on the network.
func (s *Service) Lookups() int {
	return int(s.lookups.Load())
}

// Assumed is the number of domains answered optimistically after a failure.
func (s *Service) Assumed() int {
	return int(s.assumed.Load())
}

func (s *Service) lookup(ctx context.Context, domain string) Mailability {
	s.lookups.Add(1)

	mx, err := s.query(ctx, s.resolver.LookupMX, domain)
	if err != nil {
		return s.fail(ctx, domain, "MX", err)
	}
	if len(mx) > 0 {
		return Mailability{Domain: domain, Mailable: true, Source: SourceMX, Host: mx[0]}
	}

	if !s.cfg.FallbackToA {
		return Mailability{Domain: domain, Source: SourceNone}
	}
	addrs, err := s.query(ctx, s.resolver.LookupA, domain)
	if err != nil {
		return s.fail(ctx, domain, "A", err)
	}
	if len(addrs) > 0 {
		return Mailability{Domain: domain, Mailable: true, Source: SourceA, Host: addrs[0]}
	}
	return Mailability{Domain: domain, Source: SourceNone}
}

func (s *Service) fail(ctx context.Context, domain, qtype string, err error) Mailability {
	if ctx.Err() != nil {
		return Mailability{Domain: domain, Mailable: true, Source: SourceCancelled}
	}
	s.assumed.Add(1)
	s.log.Warn("lookup failed, assuming domain is mailable",
		zap.String("domain", domain),
		zap.String("type", qtype),
		zap.Error(err),
	)
	return Mailability{Domain: domain, Mailable: true, Source: SourceAssumed}
}

var errLookupPanic = errors.New("resolve: lookup panicked")

type queryResult struct {
	records []string
	err     error
}

// query runs fn under the per-lookup timeout. The result is abandoned when
// the deadline passes, so a resolver that ignores its context cannot stall
// the batch.
func (s *Service) query(ctx context.Context, fn func(context.Context, string) ([]string, error), domain string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	done := make(chan queryResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- queryResult{err: fmt.Errorf("%w: %v", errLookupPanic, r)}
			}
		}()
		records, err := fn(ctx, domain)
		done <- queryResult{records: records, err: err}
	}()

	select {
	case res := <-done:
		return res.records, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
