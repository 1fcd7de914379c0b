// Package retry repeats operations that fail with retryable errors.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/logfields"
)

// Backoff selects how the delay grows between attempts.
type Backoff string

const (
	BackoffFixed       Backoff = "fixed"
	BackoffLinear      Backoff = "linear"
	BackoffExponential Backoff = "exponential"
)

// Policy holds retry settings. The zero Policy never retries.
type Policy struct {
	Backoff    Backoff
	Initial    time.Duration
	Max        time.Duration
	MaxRetries int // attempts after the first failure
}

// DefaultPolicy is used for theme downloads: two retries, linear from 500ms.
func DefaultPolicy() Policy {
	return Policy{Backoff: BackoffLinear, Initial: 500 * time.Millisecond, Max: 5 * time.Second, MaxRetries: 2}
}

// Delay returns the wait before retry n (1-based), capped at Max.
func (p Policy) Delay(n int) time.Duration {
	if n <= 0 || p.Initial <= 0 {
		return 0
	}
	var d time.Duration
	switch p.Backoff {
	case BackoffFixed:
		d = p.Initial
	case BackoffExponential:
		if n > 30 {
			d = -1
			break
		}
		d = p.Initial << (n - 1)
	default:
		d = time.Duration(n) * p.Initial
	}
	if p.Max > 0 && (d > p.Max || d <= 0) {
		return p.Max
	}
	return d
}

// Do runs op until it succeeds, returns an error not marked retryable, or the
// policy's retries are used up. The last error is returned.
func Do(ctx context.Context, p Policy, op func() error) error {
	for attempt := 0; ; attempt++ {
		err := op()
		if err == nil || attempt >= p.MaxRetries || !retryable(err) {
			return err
		}
		wait := p.Delay(attempt + 1)
		slog.Debug("Retrying after transient failure",
			slog.Int("attempt", attempt+1), slog.Duration("wait", wait), logfields.Error(err))
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return err
		case <-t.C:
		}
	}
}

func retryable(err error) bool {
	ce, ok := errors.AsClassified(err)
	return ok && ce.RetryStrategy() == errors.RetryBackoff
}
