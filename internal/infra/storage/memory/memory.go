package memory

import (
	"context"
	"sync"
	"time"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

const defaultCapacity = 1000

// AuditRepo keeps the most recent audit entries in a bounded in-memory
// ring. Used when no database is configured.
type AuditRepo struct {
	mu      sync.RWMutex
	entries []domain.AuditEntry
	cap     int
}

// NewAuditRepo creates an in-memory audit repository.
func NewAuditRepo() *AuditRepo {
	return &AuditRepo{cap: defaultCapacity}
}

// Record stores one terminal outcome, evicting the oldest entry when full.
func (r *AuditRepo) Record(ctx context.Context, entry *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	if len(r.entries) > r.cap {
		r.entries = r.entries[len(r.entries)-r.cap:]
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (r *AuditRepo) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}
	out := make([]domain.AuditEntry, 0, limit)
	for i := len(r.entries) - 1; i >= len(r.entries)-limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

// DeleteOlderThan removes entries created before the cutoff.
func (r *AuditRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	var deleted int64
	for _, e := range r.entries {
		if e.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return deleted, nil
}
