// Package storage defines the repository contracts the application depends
// on; the postgres and memory subpackages provide the implementations.
package storage

import (
	"context"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

// AuditRepository persists terminal operation outcomes.
type AuditRepository interface {
	// Record stores one terminal outcome.
	Record(ctx context.Context, entry *domain.AuditEntry) error

	// Recent retrieves the newest entries, most recent first.
	Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}
