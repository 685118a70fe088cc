package domain

import "time"

// AuditEntry records one terminal Operation outcome for later inspection.
type AuditEntry struct {
	ID            string        `json:"id"             db:"id"`
	Tool          string        `json:"tool"           db:"tool"`
	CustomerID    string        `json:"customer_id"    db:"customer_id"`
	Kind          OperationKind `json:"kind"           db:"kind"`
	CorrelationID string        `json:"correlation_id" db:"correlation_id"`
	Status        OutcomeStatus `json:"status"         db:"status"`
	FailureKind   string        `json:"failure_kind"   db:"failure_kind"`
	Message       string        `json:"message"        db:"message"`
	Attempts      int           `json:"attempts"       db:"attempts"`
	DurationMs    int64         `json:"duration_ms"    db:"duration_ms"`
	CreatedAt     time.Time     `json:"created_at"     db:"created_at"`
}
