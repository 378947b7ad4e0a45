package doh

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/miekg/dns"
)

const wireContentType = "application/dns-message"

func (c *Client) queryWire(ctx context.Context, domain string, qtype uint16) (int, []dns.RR, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), qtype)
	m.RecursionDesired = true
	// RFC 8484 recommends ID 0 for cache friendliness.
	m.Id = 0

	packed, err := m.Pack()
	if err != nil {
		return 0, nil, fmt.Errorf("doh: pack query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(packed))
	if err != nil {
		return 0, nil, fmt.Errorf("doh: build request: %w", err)
	}
	req.Header.Set("Content-Type", wireContentType)
	req.Header.Set("Accept", wireContentType)

	body, err := c.do(req)
	if err != nil {
		return 0, nil, err
	}

	reply := new(dns.Msg)
	if err := reply.Unpack(body); err != nil {
		return 0, nil, fmt.Errorf("doh: unpack response: %w", err)
	}

	var answers []dns.RR
	for _, rr := range reply.Answer {
		if rr.Header().Rrtype == qtype {
			answers = append(answers, rr)
		}
	}
	return reply.Rcode, answers, nil
}
