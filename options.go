package emailverifier

import "time"

// ResolveOptions configures the domain mail-server check.
type ResolveOptions struct {
	// Timeout is the maximum time for each MX or A lookup. Zero means the
	// default of 3s.
	Timeout time.Duration
	// DisableAFallback rejects a domain that has no MX record even when it
	// has an A record. Default: false
	DisableAFallback bool
}

// DefaultResolveOptions returns the defaults used by New.
func DefaultResolveOptions() ResolveOptions {
	return ResolveOptions{
		Timeout: 3 * time.Second,
	}
}

// DomainOptions selects the pattern checks that run after syntax.
type DomainOptions struct {
	// CheckTypos flags known misspellings of popular providers. Default: true
	CheckTypos bool
	// FuzzyTypos also flags domains within TypoThreshold edits of a known
	// provider. Default: false
	FuzzyTypos bool
	// TypoThreshold is the Levenshtein distance for fuzzy matching. Default: 1
	TypoThreshold int
	// CheckDisposable rejects known temporary email providers. Default: true
	CheckDisposable bool
	// CheckRoles flags generic role addresses such as info@. Default: true
	CheckRoles bool
}

// DefaultDomainOptions returns the defaults used by New.
func DefaultDomainOptions() DomainOptions {
	return DomainOptions{
		CheckTypos:      true,
		TypoThreshold:   1,
		CheckDisposable: true,
		CheckRoles:      true,
	}
}

// BatchOptions configures one VerifyBatch call.
type BatchOptions struct {
	// GroupSize is the number of distinct domains resolved in parallel
	// before the next group starts. Default: 25
	GroupSize int
	// GroupPause is slept between groups. Default: 0
	GroupPause time.Duration
	// Progress, if set, is called with the number of classified addresses
	// after the pattern stages and after each domain group.
	Progress func(done, total int)
}

func defaultBatchOptions() BatchOptions {
	return BatchOptions{GroupSize: 25}
}
