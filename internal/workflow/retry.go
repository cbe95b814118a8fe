package workflow

import (
	"context"
	"math/rand"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/matchengine/internal/errs"
)

// retryPolicy retries a job step on TransientExternal errors with
// exponential backoff capped at maxBackoff, then ±25% jitter (so a single
// wait can exceed maxBackoff by up to a quarter). PermanentExternal,
// Eligibility, and Fatal errors are never retried.
type retryPolicy struct {
	maxAttempts       int
	initialBackoff    time.Duration
	maxBackoff        time.Duration
	backoffMultiplier float64
}

func newRetryPolicy(maxAttempts int, initialBackoff time.Duration) retryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	if initialBackoff <= 0 {
		initialBackoff = time.Second
	}
	return retryPolicy{
		maxAttempts:       maxAttempts,
		initialBackoff:    initialBackoff,
		maxBackoff:        30 * time.Second,
		backoffMultiplier: 2.0,
	}
}

func (p retryPolicy) calculateBackoff(attempt int) time.Duration {
	backoff := float64(p.initialBackoff) * pow(p.backoffMultiplier, float64(attempt))
	if backoff > float64(p.maxBackoff) {
		backoff = float64(p.maxBackoff)
	}
	jitter := backoff * 0.25 * (rand.Float64()*2 - 1)
	backoff += jitter
	if backoff < 0 {
		backoff = float64(p.initialBackoff)
	}
	return time.Duration(backoff)
}

// run executes fn, retrying while it returns a TransientExternal error and
// attempts remain. It stops early on ctx cancellation or a non-transient
// error.
func (p retryPolicy) run(ctx context.Context, logger arbor.ILogger, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !errs.IsTransient(lastErr) {
			return lastErr
		}
		if attempt == p.maxAttempts-1 {
			break
		}

		backoff := p.calculateBackoff(attempt)
		logger.Debug().
			Int("attempt", attempt+1).
			Err(lastErr).
			Dur("backoff", backoff).
			Msg("retrying after transient error")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	logger.Warn().Int("max_attempts", p.maxAttempts).Err(lastErr).Msg("retry attempts exhausted")
	return lastErr
}

func pow(base, exp float64) float64 {
	result := 1.0
	for i := 0; i < int(exp); i++ {
		result *= base
	}
	return result
}
