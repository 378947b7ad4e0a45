package emailverifier

import "github.com/sanketagarwal/email-verifier/types"

// Reasons assigned by the batch orchestrator. Pattern and syntax reasons
// live in the check package.
const (
	ReasonAllPassed     = "all checks passed"
	ReasonNoMailServer  = "domain has no mail server"
	ReasonIncomplete    = "domain check incomplete"
	ReasonInternalError = "internal error during verification"
)

// Summary counts outcomes by status.
type Summary struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
	Risky   int `json:"risky"`
}

// Summarize counts results by status.
func Summarize(results []Outcome) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case types.StatusValid:
			s.Valid++
		case types.StatusInvalid:
			s.Invalid++
		case types.StatusRisky:
			s.Risky++
		}
	}
	return s
}

// Report is the result of verifying one batch.
// Results[i] is the outcome for the i-th input address.
type Report struct {
	ID      string    `json:"batchId"`
	Results []Outcome `json:"results"`
	Summary Summary   `json:"summary"`
	// Domains is the number of distinct domains that needed a lookup.
	Domains int `json:"domains"`
	// Lookups is the number of domains resolved on the network; the rest
	// were cache hits.
	Lookups int `json:"lookups"`
	// Assumed is the number of domains treated as mailable after a failed
	// or timed out lookup.
	Assumed int `json:"assumed"`
}

// Filter returns the results whose status is one of statuses, in input order.
func (r Report) Filter(statuses ...Status) []Outcome {
	want := make(map[Status]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	var out []Outcome
	for _, o := range r.Results {
		if want[o.Status] {
			out = append(out, o)
		}
	}
	return out
}
