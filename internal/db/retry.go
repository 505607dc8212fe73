package db

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

type RetryPolicy struct {
	Attempts int
	// Backoff returns the wait after the given failed attempt (0-based).
	Backoff func(attempt int) time.Duration
}

func DefaultRetryPolicy(attempts int, base time.Duration) RetryPolicy {
	return RetryPolicy{
		Attempts: attempts,
		Backoff: func(attempt int) time.Duration {
			return ExponentialBackoff(base, attempt)
		},
	}
}

// ExponentialBackoff doubles base per attempt, capped at 30s, plus up to
// 250ms of jitter.
func ExponentialBackoff(base time.Duration, attempt int) time.Duration {
	capDelay := 30 * time.Second

	multiple := math.Pow(2, float64(attempt))
	delay := time.Duration(float64(base) * multiple)

	if delay > capDelay || delay < 0 {
		delay = capDelay
	}

	delay += time.Duration(rand.Intn(250)) * time.Millisecond
	return delay
}

// Retry runs fn until it succeeds or the policy's attempts are used up. The
// last error is returned wrapped; the caller decides whether that is fatal.
func Retry(ctx context.Context, policy RetryPolicy, log *slog.Logger, fn func(ctx context.Context) error) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error

	for attempt := 0; attempt < attempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}

		log.Error("database connection failed", "attempt", attempt+1, "max_attempts", attempts, "err", err)

		if attempt == attempts-1 {
			break
		}

		var wait time.Duration
		if policy.Backoff != nil {
			wait = policy.Backoff(attempt)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("connect cancelled after %d attempt(s): %w", attempt+1, ctx.Err())
		case <-timer.C:
		}
	}

	return fmt.Errorf("giving up after %d attempt(s): %w", attempts, err)
}
