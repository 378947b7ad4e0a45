// Package emailverifier classifies bulk lists of email addresses as valid,
// invalid or risky before a mailing campaign. Each address goes through a
// syntax check and pattern checks (typo, disposable, role); the distinct
// domains of the survivors are then confirmed to accept mail via MX or A
// records.
//
// Basic usage:
//
//	report, err := emailverifier.New().VerifyBatch(ctx, addresses)
//
// With a DNS-over-HTTPS resolver and a shared cache:
//
//	resolver, _ := doh.New(doh.Config{})
//	report, err := emailverifier.New().
//	    WithResolver(resolver).
//	    WithSharedCache(dnscache.New(time.Hour, 100000)).
//	    VerifyBatch(ctx, addresses, emailverifier.BatchOptions{GroupSize: 50})
package emailverifier

import (
	"github.com/sanketagarwal/email-verifier/resolve"
	"github.com/sanketagarwal/email-verifier/types"
)

// Outcome is a re-export from the types package so that consumers
// don't need to import the types package directly.
type Outcome = types.Outcome

// Status is a re-export.
type Status = types.Status

// Status constants re-exported.
const (
	StatusValid   = types.StatusValid
	StatusInvalid = types.StatusInvalid
	StatusRisky   = types.StatusRisky
)

// Resolver and Cache are re-exports from the resolve package.
type (
	Resolver = resolve.Resolver
	Cache    = resolve.Cache
)
