package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

// =============================================================================
// Mocks
// =============================================================================

type stubCreds struct {
	expiry time.Time
}

func (s *stubCreds) Expiry() time.Time { return s.expiry }

// =============================================================================
// Tests
// =============================================================================

func TestMonitor_Healthy(t *testing.T) {
	monitor := NewMonitor(&stubCreds{expiry: time.Now().Add(time.Hour)})
	monitor.AddChecker("database", func(ctx context.Context) error { return nil })

	report := monitor.CheckHealth(context.Background())

	if got := report["database"].Status; got != StatusHealthy {
		t.Errorf("database: expected healthy, got %s", got)
	}
	if got := report["credential"].Status; got != StatusHealthy {
		t.Errorf("credential: expected healthy, got %s", got)
	}
}

func TestMonitor_DegradedWithoutCredential(t *testing.T) {
	monitor := NewMonitor(&stubCreds{})

	report := monitor.CheckHealth(context.Background())
	health := report["credential"]

	if health.Status != StatusDegraded {
		t.Errorf("expected degraded, got %s", health.Status)
	}
	if health.Detail == "" {
		t.Error("expected a detail message")
	}
}

func TestMonitor_DegradedOnExpiredCredential(t *testing.T) {
	monitor := NewMonitor(&stubCreds{expiry: time.Now().Add(-time.Minute)})

	report := monitor.CheckHealth(context.Background())

	if got := report["credential"].Status; got != StatusDegraded {
		t.Errorf("expected degraded, got %s", got)
	}
}

func TestMonitor_CriticalOnFailedProbe(t *testing.T) {
	monitor := NewMonitor(&stubCreds{expiry: time.Now().Add(time.Hour)})
	monitor.AddChecker("redis", func(ctx context.Context) error {
		return errors.New("connection refused")
	})

	report := monitor.CheckHealth(context.Background())
	health := report["redis"]

	if health.Status != StatusCritical {
		t.Errorf("expected critical, got %s", health.Status)
	}
	if health.Detail != "connection refused" {
		t.Errorf("detail = %q", health.Detail)
	}
}

func TestMonitor_RateLimitsProbes(t *testing.T) {
	var calls int
	monitor := NewMonitor(nil)
	monitor.AddChecker("database", func(ctx context.Context) error {
		calls++
		return nil
	})

	monitor.CheckHealth(context.Background())
	monitor.CheckHealth(context.Background())

	if calls != 1 {
		t.Errorf("probe ran %d times within the rate-limit window, want 1", calls)
	}
}
