package parse

import (
	"strings"

	"golang.org/x/net/idna"
)

// Email is the internal representation of an input address.
// The check/ stages and the batch orchestrator receive this as parameter.
type Email struct {
	Raw         string // the original input, untouched
	Normalized  string // trimmed and lower-cased
	Local       string // the part before @, empty unless exactly one @
	Domain      string // the part after @, lower-cased (display and pattern tables)
	ASCIIDomain string // Domain in ASCII/Punycode form (for DNS)
	TLD         string // label after the last dot of Domain
}

// New normalizes raw and splits it on the single @ separator.
// It never fails: fields that cannot be derived are left empty, and the
// syntax stage decides whether the address is usable.
func New(raw string) Email {
	norm := Normalize(raw)
	e := Email{Raw: raw, Normalized: norm}

	parts := strings.Split(norm, "@")
	if len(parts) != 2 {
		return e
	}
	e.Local = parts[0]
	e.Domain = parts[1]
	e.ASCIIDomain = toASCII(e.Domain)
	if i := strings.LastIndex(e.Domain, "."); i >= 0 {
		e.TLD = e.Domain[i+1:]
	}
	return e
}

// Normalize trims surrounding whitespace and lower-cases the address.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// HasDomain reports whether the address split into a local part and a domain.
func (e Email) HasDomain() bool {
	return e.Domain != ""
}

// WithDomain returns the address rebuilt with a different domain.
func (e Email) WithDomain(domain string) string {
	return e.Local + "@" + domain
}

// toASCII converts an internationalized domain to Punycode via IDNA2008.
// Pure ASCII input, or input IDNA rejects, is returned unchanged so that the
// resolver still gets a query name.
func toASCII(domain string) string {
	for _, r := range domain {
		if r > 127 {
			a, err := idna.Lookup.ToASCII(domain)
			if err != nil {
				return domain
			}
			return a
		}
	}
	return domain
}
