package retry

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(Config{MaxAttempts: 3, Interval: time.Millisecond, Sleep: func(time.Duration) {}}, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(Config{MaxAttempts: 5, Interval: time.Millisecond, Sleep: func(time.Duration) {}}, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	base := errors.New("persistent failure")
	calls := 0
	err := Do(Config{MaxAttempts: 4, Interval: time.Millisecond, Sleep: func(time.Duration) {}}, func() error {
		calls++
		return base
	})
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
	if !errors.Is(err, base) {
		t.Errorf("final error should wrap the last failure, got %v", err)
	}
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	base := errors.New("bad input")
	calls := 0
	err := Do(Config{MaxAttempts: 5, Interval: time.Millisecond, Sleep: func(time.Duration) {}}, func() error {
		calls++
		return NonRetryableError{Err: base}
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !errors.Is(err, base) {
		t.Errorf("error should unwrap to the cause, got %v", err)
	}
}

func TestDoWrappedErrorsStillRetry(t *testing.T) {
	calls := 0
	Do(Config{MaxAttempts: 3, Interval: time.Millisecond, Sleep: func(time.Duration) {}}, func() error {
		calls++
		return fmt.Errorf("attempt context: %w", errors.New("inner"))
	})
	if calls != 3 {
		t.Errorf("wrapped retryable error stopped the loop early, calls = %d", calls)
	}
}

func TestDoBackoffMultiplier(t *testing.T) {
	var delays []time.Duration
	Do(Config{
		MaxAttempts: 4,
		Interval:    10 * time.Millisecond,
		Multiplier:  2,
		Sleep:       func(d time.Duration) { delays = append(delays, d) },
	}, func() error {
		return errors.New("fail")
	})
	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}
