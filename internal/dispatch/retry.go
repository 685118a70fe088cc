// Package dispatch turns a validated logical operation into one or more
// remote call attempts: it keeps the credential fresh, classifies failures,
// applies bounded backoff, reconciles batch partial failures and returns a
// single Outcome to the caller.
package dispatch

import (
	"math/rand"
	"time"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

// RetryConfig defines retry behavior.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
}

// DefaultRetryConfig provides sensible defaults.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts: 5,
	BaseDelay:   1 * time.Second,
	MaxDelay:    60 * time.Second,
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultRetryConfig.MaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = DefaultRetryConfig.BaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = DefaultRetryConfig.MaxDelay
	}
	return c
}

// Action is the controller's verdict after a failed attempt.
type Action int

const (
	ActionRetry Action = iota
	ActionGiveUp
)

// RetryState tracks one operation's attempt chain. It is created per
// operation and discarded once the operation resolves.
type RetryState struct {
	Attempts    int // remote calls issued so far
	TotalWait   time.Duration
	LastFailure *domain.ClassifiedFailure
}

// Controller decides whether and when a failed attempt is re-tried.
//
// Only transient and rate_limited failures are retried; every other kind is
// an immediate give-up. MaxAttempts bounds the total number of remote calls
// including the first.
type Controller struct {
	cfg    RetryConfig
	jitter func(time.Duration) time.Duration
}

// NewController creates a retry controller with ±25% jitter.
func NewController(cfg RetryConfig) *Controller {
	return &Controller{
		cfg: cfg.withDefaults(),
		jitter: func(d time.Duration) time.Duration {
			return time.Duration(float64(d) * (0.75 + rand.Float64()*0.5))
		},
	}
}

// Next records the failure on state and returns the verdict. For ActionRetry
// the returned duration is how long to wait before the next attempt.
func (c *Controller) Next(state *RetryState, failure *domain.ClassifiedFailure) (Action, time.Duration) {
	state.LastFailure = failure
	if failure == nil || !failure.Retryable {
		return ActionGiveUp, 0
	}
	if state.Attempts >= c.cfg.MaxAttempts {
		return ActionGiveUp, 0
	}

	wait := c.Backoff(state.Attempts)
	// A server-provided hint wins, but never below the computed backoff.
	if failure.SuggestedWait > wait {
		wait = failure.SuggestedWait
	}
	wait = c.jitter(wait)
	state.TotalWait += wait
	return ActionRetry, wait
}

// Backoff returns the pre-jitter wait after the given number of completed
// attempts: BaseDelay doubled per attempt, capped at MaxDelay.
func (c *Controller) Backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	shift := uint(attempts - 1)
	if shift > 32 {
		shift = 32
	}
	d := c.cfg.BaseDelay << shift
	if d <= 0 || d > c.cfg.MaxDelay {
		d = c.cfg.MaxDelay
	}
	return d
}
