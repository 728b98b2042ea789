package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "igboard/pkg/errors"
	"igboard/pkg/logger"
)

// recordingWait captures requested delays without sleeping
func recordingWait(delays *[]time.Duration) WaitFunc {
	return func(ctx context.Context, delay time.Duration) error {
		*delays = append(*delays, delay)
		return nil
	}
}

func TestConstantBackoff(t *testing.T) {
	backoff := &ConstantBackoff{Delay: time.Second}

	for attempt := 1; attempt <= 5; attempt++ {
		if got := backoff.NextDelay(attempt); got != time.Second {
			t.Errorf("attempt %d: expected 1s, got %v", attempt, got)
		}
	}
	if got := backoff.NextDelay(0); got != 0 {
		t.Errorf("attempt 0: expected 0, got %v", got)
	}
}

func TestExponentialBackoff(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   1 * time.Second,
		Multiplier: 2.0,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, 1 * time.Second}, // capped
		{6, 1 * time.Second},
	}

	for _, tt := range tests {
		if got := backoff.NextDelay(tt.attempt); got != tt.want {
			t.Errorf("attempt %d: expected %v, got %v", tt.attempt, tt.want, got)
		}
	}
}

func TestRetryEventualSuccess(t *testing.T) {
	var delays []time.Duration
	attempts := 0
	op := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}

	cfg := &Config{
		MaxAttempts: 4,
		Backoff:     &ConstantBackoff{Delay: time.Second},
		RetryIf:     func(err error) bool { return true },
		Context:     context.Background(),
		Wait:        recordingWait(&delays),
		Logger:      logger.NewTestLogger(),
	}

	if err := Do(op, cfg); err != nil {
		t.Fatalf("expected success after retries, got: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if len(delays) != 2 {
		t.Errorf("expected exactly 2 retry delays, got %d", len(delays))
	}
}

func TestRetryBudgetExhausted(t *testing.T) {
	var delays []time.Duration
	attempts := 0
	finalErr := errors.New("persistent error")
	op := func() error {
		attempts++
		return finalErr
	}

	cfg := &Config{
		MaxAttempts: 4,
		Backoff:     &ConstantBackoff{Delay: time.Second},
		RetryIf:     func(err error) bool { return true },
		Context:     context.Background(),
		Wait:        recordingWait(&delays),
		Logger:      logger.NewTestLogger(),
	}

	err := Do(op, cfg)
	if !errors.Is(err, finalErr) {
		t.Fatalf("expected the final attempt's error, got: %v", err)
	}
	if attempts != 4 {
		t.Errorf("expected 4 attempts, got %d", attempts)
	}
	if len(delays) != 3 {
		t.Errorf("expected 3 retry delays, got %d", len(delays))
	}
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	attempts := 0
	authError := &errs.Error{
		Type:    errs.ErrorTypeAuth,
		Message: "authentication required",
		Code:    401,
	}
	op := func() error {
		attempts++
		return authError
	}

	cfg := DefaultConfig()
	cfg.Logger = logger.NewTestLogger()
	cfg.Wait = func(ctx context.Context, delay time.Duration) error { return nil }

	err := Do(op, cfg)
	if !errors.Is(err, authError) {
		t.Fatalf("expected the auth error, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected a single attempt for non-retryable error, got %d", attempts)
	}
}

func TestRetryCancelledByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	op := func() error {
		attempts++
		cancel()
		return errors.New("fails")
	}

	cfg := &Config{
		MaxAttempts: 5,
		Backoff:     &ConstantBackoff{Delay: time.Hour},
		RetryIf:     func(err error) bool { return true },
		Context:     ctx,
		Logger:      logger.NewTestLogger(),
	}

	err := Do(op, cfg)
	if err == nil || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation error, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt before cancellation, got %d", attempts)
	}
}

func TestDoWithResult(t *testing.T) {
	attempts := 0
	op := func() (string, error) {
		attempts++
		if attempts < 2 {
			return "", errors.New("flaky")
		}
		return "payload", nil
	}

	cfg := DefaultConfig()
	cfg.Logger = logger.NewTestLogger()
	cfg.Wait = func(ctx context.Context, delay time.Duration) error { return nil }

	result, err := DoWithResult(op, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "payload" {
		t.Errorf("expected result from successful attempt, got %q", result)
	}
}

func TestDefaultRetryIf(t *testing.T) {
	if DefaultRetryIf(nil) {
		t.Error("nil error must not be retried")
	}
	if DefaultRetryIf(context.Canceled) {
		t.Error("context cancellation must not be retried")
	}
	if !DefaultRetryIf(&errs.Error{Type: errs.ErrorTypeNetwork}) {
		t.Error("network errors should be retried")
	}
	if DefaultRetryIf(&errs.Error{Type: errs.ErrorTypeValidation}) {
		t.Error("validation errors must not be retried")
	}
}
