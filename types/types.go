// Package types contains the shared types for email-verifier.
// This package does not import anything from other email-verifier packages
// to avoid circular imports.
package types

// Status is the final classification of an address.
type Status string

const (
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
	StatusRisky   Status = "risky"
)

// Outcome is the classification of a single address.
type Outcome struct {
	Email      string `json:"email"`
	Status     Status `json:"status"`
	Reason     string `json:"reason"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Verdict is what a pipeline stage returns.
// Final=false means "continue to the next stage"; Outcome is then ignored.
type Verdict struct {
	Stage   string
	Final   bool
	Outcome Outcome
}

// Continue is the non-final verdict for the named stage.
func Continue(stage string) Verdict {
	return Verdict{Stage: stage}
}
