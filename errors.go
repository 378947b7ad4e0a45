package emailverifier

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBatch is returned by CheckBatchSize for a batch with no addresses.
	ErrEmptyBatch = errors.New("emailverifier: batch is empty")

	// ErrBatchTooLarge is returned by CheckBatchSize when the batch exceeds
	// the configured limit.
	ErrBatchTooLarge = errors.New("emailverifier: batch too large")

	// ErrNoResolver is returned when WithResolver is given a nil resolver.
	ErrNoResolver = errors.New("emailverifier: no domain resolver configured")
)

// CheckBatchSize validates the size of a batch before it is verified.
// A limit of zero or less disables the upper bound.
func CheckBatchSize(n, limit int) error {
	if n == 0 {
		return ErrEmptyBatch
	}
	if limit > 0 && n > limit {
		return fmt.Errorf("%w: %d addresses, maximum is %d", ErrBatchTooLarge, n, limit)
	}
	return nil
}
