package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Checker probes one dependency. A nil error means the dependency is usable.
type Checker func(ctx context.Context) error

// CredentialStatus reports the remaining lifetime of the cached credential.
// A zero expiry means no credential has been cached yet.
type CredentialStatus interface {
	Expiry() time.Time
}

// Monitor aggregates health status from the server's dependencies.
type Monitor struct {
	creds      CredentialStatus
	checkers   map[string]Checker
	lastCheck  time.Time
	lastReport map[string]ComponentHealth
	mu         sync.Mutex
}

// NewMonitor creates a new health monitor.
func NewMonitor(creds CredentialStatus) *Monitor {
	return &Monitor{
		creds:      creds,
		checkers:   make(map[string]Checker),
		lastReport: make(map[string]ComponentHealth),
	}
}

// AddChecker registers a named dependency probe.
func (m *Monitor) AddChecker(name string, check Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers[name] = check
}

// CheckHealth probes all registered dependencies.
func (m *Monitor) CheckHealth(ctx context.Context) map[string]ComponentHealth {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Rate limit checks to avoid spamming dependencies
	if time.Since(m.lastCheck) < 10*time.Second && len(m.lastReport) > 0 {
		return m.lastReport
	}

	report := make(map[string]ComponentHealth)

	for name, check := range m.checkers {
		ch := ComponentHealth{Component: name, Status: StatusHealthy}
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := check(checkCtx); err != nil {
			ch.Status = StatusCritical
			ch.Detail = err.Error()
		}
		cancel()
		report[name] = ch
	}

	if m.creds != nil {
		ch := ComponentHealth{Component: "credential", Status: StatusHealthy}
		expiry := m.creds.Expiry()
		switch {
		case expiry.IsZero():
			ch.Status = StatusDegraded
			ch.Detail = "no credential cached yet"
		case time.Until(expiry) <= 0:
			ch.Status = StatusDegraded
			ch.Detail = "cached credential expired, refresh pending"
		default:
			ch.Detail = fmt.Sprintf("expires in %s", time.Until(expiry).Round(time.Second))
		}
		report["credential"] = ch
	}

	m.lastCheck = time.Now()
	m.lastReport = report
	return report
}
