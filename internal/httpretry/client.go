// Package httpretry wraps an HTTP client with bounded retries, exponential
// backoff and full jitter. It is used for DNS-over-HTTPS queries.
package httpretry

import (
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Doer executes HTTP requests. Both *http.Client and *Client satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client retries transient failures of the wrapped Doer.
type Client struct {
	doer       Doer
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	minDelay   time.Duration
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBackoff sets the base and maximum backoff. The delay before retry n is
// drawn uniformly from [0, min(ceiling, base*2^(n-1))], floored at base/10.
func WithBackoff(base, ceiling time.Duration) Option {
	return func(c *Client) {
		c.baseDelay = base
		c.maxDelay = ceiling
		c.minDelay = base / 10
	}
}

// WithLogger sets the logger used to report retries.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New wraps doer. A nil doer gets an http.Client with a 10s timeout.
// maxRetries is the number of attempts after the first one; negative means 0.
func New(doer Doer, maxRetries int, opts ...Option) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: 10 * time.Second}
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	c := &Client{
		doer:       doer,
		maxRetries: maxRetries,
		baseDelay:  200 * time.Millisecond,
		maxDelay:   2 * time.Second,
		minDelay:   20 * time.Millisecond,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do executes req, retrying on network errors and on 429/500/502/503/504.
// Client errors and context cancellation are not retried. After the last
// attempt a retryable response is returned as-is for the caller to inspect.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, ctx.Err()
		}

		if attempt > 0 {
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("httpretry: reset request body: %w", err)
				}
				req.Body = body
			}

			delay := c.delay(attempt)
			c.log.Debug("retrying request",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", c.maxRetries),
				zap.String("host", req.URL.Host),
				zap.Duration("wait", delay),
				zap.Error(lastErr),
			)

			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				if lastErr != nil {
					return nil, lastErr
				}
				return nil, ctx.Err()
			}
		}

		resp, err := c.doer.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, err
			}
			continue
		}

		if !Retryable(resp.StatusCode) || attempt == c.maxRetries {
			return resp, nil
		}

		// drain for connection reuse
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		lastErr = fmt.Errorf("httpretry: server returned retryable status %d", resp.StatusCode)
	}

	return nil, lastErr
}

func (c *Client) delay(attempt int) time.Duration {
	d := c.baseDelay << (attempt - 1)
	if d > c.maxDelay || d <= 0 {
		d = c.maxDelay
	}
	jittered := time.Duration(rand.Int64N(int64(d) + 1))
	if jittered < c.minDelay {
		jittered = c.minDelay
	}
	return jittered
}

// Retryable reports whether status indicates a transient server failure.
func Retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
