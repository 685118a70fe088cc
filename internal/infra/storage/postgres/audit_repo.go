package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

// AuditRepo implements storage.AuditRepository on PostgreSQL.
type AuditRepo struct {
	db *DB
}

// NewAuditRepo creates a new audit repository.
func NewAuditRepo(db *DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Record stores one terminal outcome.
func (r *AuditRepo) Record(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	query := `
		INSERT INTO audit_log (
			id, tool, customer_id, kind, correlation_id, status,
			failure_kind, message, attempts, duration_ms, created_at
		) VALUES (
			:id, :tool, :customer_id, :kind, :correlation_id, :status,
			:failure_kind, :message, :attempts, :duration_ms, :created_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// Recent retrieves the newest entries, most recent first.
func (r *AuditRepo) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, tool, customer_id, kind, correlation_id, status,
		       failure_kind, message, attempts, duration_ms, created_at
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT $1`

	var entries []domain.AuditEntry
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

// DeleteOlderThan removes entries created before the cutoff.
func (r *AuditRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_log WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}
