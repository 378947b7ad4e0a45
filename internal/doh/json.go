package doh

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/miekg/dns"
)

// jsonResponse is the subset of the dns-json response format that is used.
type jsonResponse struct {
	Status int `json:"Status"`
	Answer []struct {
		Name string `json:"name"`
		Type uint16 `json:"type"`
		TTL  uint32 `json:"TTL"`
		Data string `json:"data"`
	} `json:"Answer"`
}

func (c *Client) queryJSON(ctx context.Context, domain string, qtype uint16) (int, []dns.RR, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return 0, nil, fmt.Errorf("doh: invalid endpoint: %w", err)
	}
	q := u.Query()
	q.Set("name", domain)
	q.Set("type", dns.TypeToString[qtype])
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, nil, fmt.Errorf("doh: build request: %w", err)
	}
	req.Header.Set("Accept", "application/dns-json")

	body, err := c.do(req)
	if err != nil {
		return 0, nil, err
	}

	var resp jsonResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, nil, fmt.Errorf("doh: decode response: %w", err)
	}

	// CNAME chain entries share the answer section; only qtype is kept.
	// Data that does not parse as qtype is skipped.
	var answers []dns.RR
	for _, a := range resp.Answer {
		if a.Type != qtype {
			continue
		}
		rr, err := dns.NewRR(fmt.Sprintf("%s %d IN %s %s",
			dns.Fqdn(a.Name), a.TTL, dns.TypeToString[qtype], a.Data))
		if err != nil || rr == nil {
			continue
		}
		answers = append(answers, rr)
	}
	return resp.Status, answers, nil
}
