// Package doh resolves MX and A records over DNS-over-HTTPS. It speaks both
// the JSON API offered by public resolvers (application/dns-json) and the
// RFC 8484 wire format (application/dns-message).
package doh

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/miekg/dns"
	"go.uber.org/zap"

	"github.com/sanketagarwal/email-verifier/internal/httpretry"
)

// Mode selects the request encoding.
type Mode string

const (
	ModeJSON Mode = "json"
	ModeWire Mode = "wire"
)

const (
	DefaultJSONEndpoint = "https://dns.google/resolve"
	DefaultWireEndpoint = "https://dns.google/dns-query"

	maxResponseBytes = 64 << 10
)

// Config is the DoH client configuration.
type Config struct {
	// Endpoint is the resolver URL. Default depends on Mode.
	Endpoint string
	// Mode is json or wire. Default: json
	Mode Mode
	// Retries is the number of retries on transient HTTP failures. Default: 0
	Retries int
	// HTTPClient overrides the underlying transport (for testing).
	HTTPClient httpretry.Doer
	Logger     *zap.Logger
}

// StatusError is a DNS response code other than NOERROR or NXDOMAIN.
type StatusError struct {
	Rcode int
}

func (e *StatusError) Error() string {
	name, ok := dns.RcodeToString[e.Rcode]
	if !ok {
		name = strconv.Itoa(e.Rcode)
	}
	return "doh: resolver returned " + name
}

// Client implements resolve.Resolver over HTTPS.
type Client struct {
	endpoint string
	mode     Mode
	http     httpretry.Doer
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.Mode == "" {
		cfg.Mode = ModeJSON
	}
	if cfg.Endpoint == "" {
		switch cfg.Mode {
		case ModeWire:
			cfg.Endpoint = DefaultWireEndpoint
		default:
			cfg.Endpoint = DefaultJSONEndpoint
		}
	}
	if cfg.Mode != ModeJSON && cfg.Mode != ModeWire {
		return nil, fmt.Errorf("doh: unknown mode %q", cfg.Mode)
	}
	if _, err := url.ParseRequestURI(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("doh: invalid endpoint: %w", err)
	}

	var opts []httpretry.Option
	if cfg.Logger != nil {
		opts = append(opts, httpretry.WithLogger(cfg.Logger))
	}
	return &Client{
		endpoint: cfg.Endpoint,
		mode:     cfg.Mode,
		http:     httpretry.New(cfg.HTTPClient, cfg.Retries, opts...),
	}, nil
}

// LookupMX returns MX hosts ordered by preference, without the trailing dot.
func (c *Client) LookupMX(ctx context.Context, domain string) ([]string, error) {
	answers, err := c.query(ctx, domain, dns.TypeMX)
	if err != nil {
		return nil, err
	}

	var records []*dns.MX
	for _, rr := range answers {
		if mx, ok := rr.(*dns.MX); ok {
			records = append(records, mx)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Preference < records[j].Preference
	})

	hosts := make([]string, 0, len(records))
	for _, mx := range records {
		hosts = append(hosts, strings.TrimSuffix(mx.Mx, "."))
	}
	return hosts, nil
}

// LookupA returns the IPv4 addresses of domain.
func (c *Client) LookupA(ctx context.Context, domain string) ([]string, error) {
	answers, err := c.query(ctx, domain, dns.TypeA)
	if err != nil {
		return nil, err
	}

	var addrs []string
	for _, rr := range answers {
		if a, ok := rr.(*dns.A); ok {
			addrs = append(addrs, a.A.String())
		}
	}
	return addrs, nil
}

// query returns the answers of type qtype. NXDOMAIN yields no answers and no
// error; other non-success response codes yield a *StatusError.
func (c *Client) query(ctx context.Context, domain string, qtype uint16) ([]dns.RR, error) {
	var (
		rcode   int
		answers []dns.RR
		err     error
	)
	if c.mode == ModeWire {
		rcode, answers, err = c.queryWire(ctx, domain, qtype)
	} else {
		rcode, answers, err = c.queryJSON(ctx, domain, qtype)
	}
	if err != nil {
		return nil, err
	}

	switch rcode {
	case dns.RcodeSuccess:
		return answers, nil
	case dns.RcodeNameError:
		return nil, nil
	default:
		return nil, &StatusError{Rcode: rcode}
	}
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("doh: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("doh: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("doh: unexpected HTTP status %d", resp.StatusCode)
	}
	return body, nil
}
