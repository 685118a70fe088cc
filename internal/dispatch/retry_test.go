package dispatch

import (
	"testing"
	"time"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

// identity jitter makes wait durations deterministic
func noJitter(c *Controller) *Controller {
	c.jitter = func(d time.Duration) time.Duration { return d }
	return c
}

func TestBackoff_DoublesAndCaps(t *testing.T) {
	c := NewController(RetryConfig{MaxAttempts: 10, BaseDelay: 1 * time.Second, MaxDelay: 60 * time.Second})

	tests := []struct {
		attempts int
		want     time.Duration
	}{
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 16 * time.Second},
		{6, 32 * time.Second},
		{7, 60 * time.Second}, // capped
		{8, 60 * time.Second},
		{100, 60 * time.Second},
	}
	for _, tt := range tests {
		if got := c.Backoff(tt.attempts); got != tt.want {
			t.Errorf("Backoff(%d) = %v, want %v", tt.attempts, got, tt.want)
		}
	}
}

func TestNext_NonRetryableGivesUp(t *testing.T) {
	c := noJitter(NewController(RetryConfig{}))

	kinds := []domain.FailureKind{
		domain.FailureAuth,
		domain.FailureValidation,
		domain.FailureIndeterminate,
		domain.FailureUnknown,
	}
	for _, kind := range kinds {
		state := &RetryState{Attempts: 1}
		action, _ := c.Next(state, &domain.ClassifiedFailure{Kind: kind, Retryable: false})
		if action != ActionGiveUp {
			t.Errorf("kind %s: expected give-up, got retry", kind)
		}
	}
}

func TestNext_NilFailureGivesUp(t *testing.T) {
	c := noJitter(NewController(RetryConfig{}))
	action, _ := c.Next(&RetryState{Attempts: 1}, nil)
	if action != ActionGiveUp {
		t.Error("expected give-up for nil failure")
	}
}

func TestNext_RetriesUntilMaxAttempts(t *testing.T) {
	c := noJitter(NewController(RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Second}))
	failure := &domain.ClassifiedFailure{Kind: domain.FailureTransient, Retryable: true}

	state := &RetryState{}
	// Attempt 1 and 2 failed: both under the cap, so retry.
	for i := 1; i <= 2; i++ {
		state.Attempts = i
		action, wait := c.Next(state, failure)
		if action != ActionRetry {
			t.Fatalf("attempt %d: expected retry", i)
		}
		if wait <= 0 {
			t.Fatalf("attempt %d: expected positive wait, got %v", i, wait)
		}
	}
	// Attempt 3 failed: cap reached.
	state.Attempts = 3
	action, _ := c.Next(state, failure)
	if action != ActionGiveUp {
		t.Error("expected give-up once attempts reach max")
	}
	if state.LastFailure != failure {
		t.Error("state should record the last failure")
	}
}

func TestNext_SuggestedWaitWins(t *testing.T) {
	c := noJitter(NewController(RetryConfig{MaxAttempts: 5, BaseDelay: 1 * time.Second, MaxDelay: 60 * time.Second}))

	// Hint above the computed backoff is honored.
	state := &RetryState{Attempts: 1}
	_, wait := c.Next(state, &domain.ClassifiedFailure{
		Kind:          domain.FailureRateLimited,
		Retryable:     true,
		SuggestedWait: 10 * time.Second,
	})
	if wait != 10*time.Second {
		t.Errorf("expected suggested wait 10s, got %v", wait)
	}

	// Hint below the computed backoff is floored at the backoff.
	state = &RetryState{Attempts: 3} // backoff = 4s
	_, wait = c.Next(state, &domain.ClassifiedFailure{
		Kind:          domain.FailureRateLimited,
		Retryable:     true,
		SuggestedWait: 1 * time.Second,
	})
	if wait != 4*time.Second {
		t.Errorf("expected backoff floor 4s, got %v", wait)
	}
}

func TestNext_JitterBounds(t *testing.T) {
	c := NewController(RetryConfig{MaxAttempts: 5, BaseDelay: 1 * time.Second, MaxDelay: 60 * time.Second})
	failure := &domain.ClassifiedFailure{Kind: domain.FailureTransient, Retryable: true}

	for i := 0; i < 100; i++ {
		state := &RetryState{Attempts: 1}
		action, wait := c.Next(state, failure)
		if action != ActionRetry {
			t.Fatal("expected retry")
		}
		if wait < 750*time.Millisecond || wait > 1250*time.Millisecond {
			t.Fatalf("jittered wait %v outside [750ms, 1250ms]", wait)
		}
	}
}

func TestNext_AccumulatesTotalWait(t *testing.T) {
	c := noJitter(NewController(RetryConfig{MaxAttempts: 5, BaseDelay: 1 * time.Second, MaxDelay: 60 * time.Second}))
	failure := &domain.ClassifiedFailure{Kind: domain.FailureTransient, Retryable: true}

	state := &RetryState{}
	state.Attempts = 1
	c.Next(state, failure) // 1s
	state.Attempts = 2
	c.Next(state, failure) // 2s
	if state.TotalWait != 3*time.Second {
		t.Errorf("expected total wait 3s, got %v", state.TotalWait)
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := RetryConfig{}.withDefaults()
	if cfg.MaxAttempts != 5 || cfg.BaseDelay != 1*time.Second || cfg.MaxDelay != 60*time.Second {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	cfg = RetryConfig{MaxAttempts: 2}.withDefaults()
	if cfg.MaxAttempts != 2 {
		t.Errorf("explicit MaxAttempts overwritten: %+v", cfg)
	}
}
