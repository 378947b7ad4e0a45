package check

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sanketagarwal/email-verifier/internal/parse"
	"github.com/sanketagarwal/email-verifier/types"
)

// Syntax rejection reasons, in rule precedence order.
const (
	ReasonEmpty         = "email is empty"
	ReasonTooLong       = "email exceeds 254 characters"
	ReasonMissingAt     = "missing @ symbol"
	ReasonMultipleAt    = "multiple @ symbols"
	ReasonLocalLength   = "local part is empty or exceeds 64 characters"
	ReasonLocalDots     = "local part has misplaced dots"
	ReasonMissingTLD    = "domain is missing a TLD"
	ReasonShortTLD      = "top-level domain is too short"
	ReasonDomainEdges   = "domain starts or ends with an invalid character"
	ReasonInvalidFormat = "invalid email format"
)

// Lengths are counted in characters, not bytes.
const (
	maxAddressLength = 254
	maxLocalLength   = 64
	minTLDLength     = 2
)

// shapePattern is the final safety net after the explicit rules.
var shapePattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SyntaxError is returned by ValidateSyntax. Reason is one of the Reason* constants.
type SyntaxError struct {
	Reason string
}

func (e *SyntaxError) Error() string {
	return "syntax: " + e.Reason
}

// ValidateSyntax checks the structure of a single address.
// Rules are applied in a fixed order and the first failing rule wins.
// It is a pure function of its input.
func ValidateSyntax(raw string) error {
	if reason := syntaxReason(raw); reason != "" {
		return &SyntaxError{Reason: reason}
	}
	return nil
}

func syntaxReason(raw string) string {
	email := strings.TrimSpace(raw)
	if email == "" {
		return ReasonEmpty
	}
	if utf8.RuneCountInString(email) > maxAddressLength {
		return ReasonTooLong
	}
	if !strings.Contains(email, "@") {
		return ReasonMissingAt
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return ReasonMultipleAt
	}
	local, domain := parts[0], parts[1]

	if local == "" || utf8.RuneCountInString(local) > maxLocalLength {
		return ReasonLocalLength
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return ReasonLocalDots
	}

	if domain == "" || !strings.Contains(domain, ".") {
		return ReasonMissingTLD
	}
	if tld := domain[strings.LastIndex(domain, ".")+1:]; utf8.RuneCountInString(tld) < minTLDLength {
		return ReasonShortTLD
	}
	if strings.HasPrefix(domain, ".") || strings.HasPrefix(domain, "-") || strings.HasSuffix(domain, "-") {
		return ReasonDomainEdges
	}

	if !shapePattern.MatchString(strings.ToLower(email)) {
		return ReasonInvalidFormat
	}
	return ""
}

// SyntaxChecker is the first pipeline stage. Any syntax failure is final.
type SyntaxChecker struct{}

func NewSyntaxChecker() *SyntaxChecker {
	return &SyntaxChecker{}
}

func (c *SyntaxChecker) Name() string { return StageSyntax }

func (c *SyntaxChecker) Check(_ context.Context, email parse.Email) types.Verdict {
	reason := syntaxReason(email.Raw)
	if reason == "" {
		return types.Continue(StageSyntax)
	}
	return types.Verdict{
		Stage: StageSyntax,
		Final: true,
		Outcome: types.Outcome{
			Email:  email.Normalized,
			Status: types.StatusInvalid,
			Reason: reason,
		},
	}
}
