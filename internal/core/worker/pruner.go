package worker

import (
	"context"
	"log/slog"
	"time"
)

// PrunableRepo is the storage surface the pruner needs.
type PrunableRepo interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditPruner deletes audit entries older than the retention period.
type AuditPruner struct {
	retention time.Duration
	repo      PrunableRepo
}

// NewAuditPruner creates a new pruner worker.
func NewAuditPruner(retention time.Duration, repo PrunableRepo) *AuditPruner {
	return &AuditPruner{retention: retention, repo: repo}
}

// Start runs the pruner loop.
func (p *AuditPruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		return // Retention disabled
	}

	// Check interval: 10% of retention period, clamped to [1m, 1h]
	interval := min(p.retention/10, 1*time.Hour)
	interval = max(interval, 1*time.Minute)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial prune
	p.prune(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *AuditPruner) prune(ctx context.Context) {
	cutoff := time.Now().Add(-p.retention)
	deleted, err := p.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		slog.Error("Failed to prune audit log", "error", err)
		return
	}
	if deleted > 0 {
		slog.Debug("Pruned audit log", "deleted", deleted, "cutoff", cutoff)
	}
}
