// pkg/retry/retry.go - bounded retry loops with optional backoff.

package retry

import (
	"errors"
	"fmt"
	"time"

	"github.com/a-kowalenko/aeromedia-setup/pkg/logging"
)

// NonRetryableError wraps an error so the retry loop gives up on it.
type NonRetryableError struct {
	Err error
}

func (e NonRetryableError) Error() string { return e.Err.Error() }
func (e NonRetryableError) Unwrap() error { return e.Err }

// Config defines the shape of a retry loop. A Multiplier of 1 (or 0) gives a
// fixed-interval poll; anything above 1 backs off exponentially. Sleep may be
// replaced for deterministic tests; nil means time.Sleep.
type Config struct {
	MaxAttempts int
	Interval    time.Duration
	Multiplier  float64
	Sleep       func(time.Duration)
}

// Do retries action up to MaxAttempts times, sleeping between attempts.
func Do(cfg Config, action func() error) error {
	interval := cfg.Interval
	multiplier := cfg.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = action()
		if lastErr == nil {
			return nil
		}

		var nonRetryable NonRetryableError
		if errors.As(lastErr, &nonRetryable) {
			logging.Warn("Non-retryable error encountered",
				"attempt", attempt, "error", lastErr)
			return lastErr
		}

		if attempt < cfg.MaxAttempts {
			logging.Debug("Attempt failed, retrying",
				"attempt", attempt,
				"max_attempts", cfg.MaxAttempts,
				"retry_delay", interval.String(),
				"error", lastErr)
			sleep(interval)
			interval = time.Duration(float64(interval) * multiplier)
		}
	}

	return fmt.Errorf("action failed after %d attempts: %w", cfg.MaxAttempts, lastErr)
}
