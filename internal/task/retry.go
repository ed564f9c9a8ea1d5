package task

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/finquest/finquest/internal/apperr"
)

// RetryConfig configures retry behavior for transient ledger failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns the retry settings used by the app.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 200 * time.Millisecond,
		MaxWait:     2 * time.Second,
		Multiplier:  2.0,
	}
}

// RetryLedger retries transient failures with exponential backoff and jitter.
type RetryLedger struct {
	inner  Ledger
	config RetryConfig
}

// WithRetry wraps l with retry logic. A config with fewer than one attempt
// makes a single attempt.
func WithRetry(l Ledger, cfg RetryConfig) Ledger {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryLedger{inner: l, config: cfg}
}

func (r *RetryLedger) Submit(ctx context.Context, op Operation) (Receipt, error) {
	var lastErr error
	for attempt := range r.config.MaxAttempts {
		rec, err := r.inner.Submit(ctx, op)
		if err == nil {
			return rec, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return Receipt{}, err
		}
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		timer := time.NewTimer(r.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return Receipt{}, cancelled(op, ctx.Err())
		case <-timer.C:
		}
	}
	return Receipt{}, lastErr
}

// shouldRetry retries transient failures except cancellation.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if apperr.ReasonOf(err) == apperr.ReasonCancelled {
		return false
	}
	return apperr.IsRetryable(err)
}

func (r *RetryLedger) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
