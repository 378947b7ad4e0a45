package check

import (
	"context"

	"github.com/sanketagarwal/email-verifier/internal/levenshtein"
	"github.com/sanketagarwal/email-verifier/internal/parse"
	"github.com/sanketagarwal/email-verifier/internal/patterns"
	"github.com/sanketagarwal/email-verifier/types"
)

// Pattern verdict reasons.
const (
	ReasonTypo       = "possible typo in domain"
	ReasonDisposable = "disposable/temporary email address"
	ReasonRole       = "role-based email address (generic)"
)

// TypoConfig is the typo checker configuration.
type TypoConfig struct {
	// Fuzzy also flags domains within Threshold edits of a known provider.
	Fuzzy     bool
	Threshold int
}

// TypoChecker flags known domain misspellings and suggests the correction.
type TypoChecker struct {
	cfg       TypoConfig
	providers []string
}

func NewTypoChecker(cfg TypoConfig) *TypoChecker {
	return &TypoChecker{cfg: cfg, providers: patterns.Providers}
}

func (c *TypoChecker) Name() string { return StageTypo }

func (c *TypoChecker) Check(_ context.Context, email parse.Email) types.Verdict {
	fixed, ok := patterns.TypoCorrection(email.Domain)
	if !ok && c.cfg.Fuzzy {
		fixed, ok = c.closestProvider(email.Domain)
	}
	if !ok {
		return types.Continue(StageTypo)
	}
	return types.Verdict{
		Stage: StageTypo,
		Final: true,
		Outcome: types.Outcome{
			Email:      email.Normalized,
			Status:     types.StatusRisky,
			Reason:     ReasonTypo,
			Suggestion: email.WithDomain(fixed),
		},
	}
}

// closestProvider returns the nearest known provider within the threshold.
// An exact provider match is never a typo.
func (c *TypoChecker) closestProvider(domain string) (string, bool) {
	best, bestDist := "", c.cfg.Threshold+1
	for _, p := range c.providers {
		if domain == p {
			return "", false
		}
		if d, ok := levenshtein.Within(domain, p, c.cfg.Threshold); ok && d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, best != ""
}

// DisposableChecker rejects domains of temporary email providers.
type DisposableChecker struct{}

func NewDisposableChecker() *DisposableChecker {
	return &DisposableChecker{}
}

func (c *DisposableChecker) Name() string { return StageDisposable }

func (c *DisposableChecker) Check(_ context.Context, email parse.Email) types.Verdict {
	if !patterns.IsDisposable(email.Domain) {
		return types.Continue(StageDisposable)
	}
	return types.Verdict{
		Stage: StageDisposable,
		Final: true,
		Outcome: types.Outcome{
			Email:  email.Normalized,
			Status: types.StatusInvalid,
			Reason: ReasonDisposable,
		},
	}
}

// RoleChecker flags generic, function-owned local parts such as info@ or support@.
// A role verdict is final, so these addresses never reach the domain lookup.
type RoleChecker struct{}

func NewRoleChecker() *RoleChecker {
	return &RoleChecker{}
}

func (c *RoleChecker) Name() string { return StageRole }

func (c *RoleChecker) Check(_ context.Context, email parse.Email) types.Verdict {
	if !patterns.IsRole(email.Local) {
		return types.Continue(StageRole)
	}
	return types.Verdict{
		Stage: StageRole,
		Final: true,
		Outcome: types.Outcome{
			Email:  email.Normalized,
			Status: types.StatusRisky,
			Reason: ReasonRole,
		},
	}
}
