package store

import (
	"context"
	"fmt"
	"time"
)

// BlockFetcher retrieves one raster block from backing storage. It is the
// only capability the store needs from the outside world; callers inject an
// implementation backed by HTTP range reads, object storage, a local file, or
// an in-memory grid in tests.
//
// FetchBlock must return one slice per band, each of length
// BlockWidth*BlockHeight in row-major order. Blocks on the right and bottom
// edges are full-size; samples past the raster extent are ignored by the
// store. Implementations must be safe for concurrent use.
type BlockFetcher interface {
	FetchBlock(ctx context.Context, level, col, row int) ([][]float64, error)
}

// RetryPolicy is the explicit retry/backoff policy applied to block fetches.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// InitialBackoff is the delay before the second attempt.
	InitialBackoff time.Duration

	// MaxBackoff caps the delay between attempts.
	MaxBackoff time.Duration

	// Multiplier grows the delay after each failed attempt.
	Multiplier float64
}

// DefaultRetryPolicy returns the policy used when the caller does not
// provide one: 3 attempts, 100ms initial backoff doubling up to 2s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
		Multiplier:     2.0,
	}
}

// backoff returns the delay before the given attempt (attempt 1 is the first
// retry).
func (p RetryPolicy) backoff(attempt int) time.Duration {
	d := p.InitialBackoff
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * p.Multiplier)
		if d >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if d > p.MaxBackoff {
		return p.MaxBackoff
	}
	return d
}

// ErrFetch indicates a block could not be retrieved after exhausting the
// retry budget.
type ErrFetch struct {
	Level, Col, Row int
	Attempts        int
	Err             error
}

func (e *ErrFetch) Error() string {
	return fmt.Sprintf("fetch block %d/%d/%d failed after %d attempts: %v",
		e.Level, e.Col, e.Row, e.Attempts, e.Err)
}

func (e *ErrFetch) Unwrap() error {
	return e.Err
}
