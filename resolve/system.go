package resolve

import (
	"context"
	"errors"
	"net"
	"sort"
	"strings"
)

// SystemResolver uses the host's configured DNS servers.
type SystemResolver struct {
	r *net.Resolver
}

func NewSystemResolver() *SystemResolver {
	return &SystemResolver{r: &net.Resolver{}}
}

// LookupMX returns MX hosts ordered by preference, without the trailing dot.
func (s *SystemResolver) LookupMX(ctx context.Context, domain string) ([]string, error) {
	records, err := s.r.LookupMX(ctx, domain)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Pref < records[j].Pref
	})
	hosts := make([]string, 0, len(records))
	for _, mx := range records {
		hosts = append(hosts, strings.TrimSuffix(mx.Host, "."))
	}
	return hosts, nil
}

// LookupA returns the IPv4 addresses of domain.
func (s *SystemResolver) LookupA(ctx context.Context, domain string) ([]string, error) {
	ips, err := s.r.LookupIP(ctx, "ip4", domain)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	addrs := make([]string, len(ips))
	for i, ip := range ips {
		addrs[i] = ip.String()
	}
	return addrs, nil
}

// isNotFound reports an authoritative "no such host / no records" answer,
// which is a negative result rather than a lookup failure.
func isNotFound(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}
