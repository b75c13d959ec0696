package bulk

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fastRetry keeps backoff delays negligible so tests stay quick.
var fastRetry = RetryConfig{
	MaxRetries:   3,
	InitialDelay: time.Millisecond,
	MaxDelay:     4 * time.Millisecond,
	Multiplier:   2.0,
}

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	attempts := 0
	got, err := Retry(context.Background(), fastRetry, func(ctx context.Context) (string, error) {
		attempts++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if got != "ok" {
		t.Errorf("result = %q, want %q", got, "ok")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	attempts := 0
	got, err := Retry(context.Background(), fastRetry, func(ctx context.Context) (int, error) {
		attempts++
		if attempts < 3 {
			return 0, errors.New("connection reset")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if got != 42 {
		t.Errorf("result = %d, want 42", got)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_TerminalErrorNoRetry(t *testing.T) {
	terminal := errors.New("404 not found")
	cfg := fastRetry.WithRetryable(func(err error) bool {
		return !errors.Is(err, terminal)
	})

	attempts := 0
	_, err := Retry(context.Background(), cfg, func(ctx context.Context) (string, error) {
		attempts++
		return "", terminal
	})
	if !errors.Is(err, terminal) {
		t.Fatalf("error = %v, want %v", err, terminal)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (terminal errors must not retry)", attempts)
	}
	if strings.Contains(err.Error(), "attempts failed") {
		t.Errorf("terminal error should not be wrapped as exhaustion: %v", err)
	}
}

func TestRetry_ExhaustsBudget(t *testing.T) {
	cause := errors.New("503 service unavailable")
	attempts := 0
	_, err := Retry(context.Background(), fastRetry, func(ctx context.Context) (string, error) {
		attempts++
		return "", cause
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != fastRetry.MaxRetries+1 {
		t.Errorf("attempts = %d, want %d", attempts, fastRetry.MaxRetries+1)
	}
	if !errors.Is(err, cause) {
		t.Errorf("exhaustion error should wrap the last cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "all 4 attempts failed") {
		t.Errorf("error = %q, want mention of all 4 attempts", err)
	}
}

func TestRetry_ContextCancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{
		MaxRetries:   3,
		InitialDelay: time.Minute, // never elapses, cancel wins
		MaxDelay:     time.Minute,
		Multiplier:   2.0,
	}

	attempts := 0
	done := make(chan error, 1)
	go func() {
		_, err := Retry(ctx, cfg, func(ctx context.Context) (string, error) {
			attempts++
			return "", errors.New("transient")
		})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Retry did not return after cancellation")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (cancel during first backoff)", attempts)
	}
}

func TestBackoff_CapsAtMaxDelay(t *testing.T) {
	cfg := RetryConfig{
		InitialDelay: time.Second,
		MaxDelay:     16 * time.Second,
		Multiplier:   2.0,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{10, 16 * time.Second}, // capped
	}
	for _, tt := range tests {
		if got := cfg.backoff(tt.attempt); got != tt.want {
			t.Errorf("backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}
