package domain

import "encoding/json"

// OperationKind distinguishes reads from single and batched mutates.
type OperationKind string

const (
	OperationRead        OperationKind = "read"
	OperationMutate      OperationKind = "mutate"
	OperationBatchMutate OperationKind = "batch_mutate"
)

// IsMutate reports whether the operation changes remote state.
func (k OperationKind) IsMutate() bool {
	return k == OperationMutate || k == OperationBatchMutate
}

// Operation is one logical unit of work submitted by a tool handler.
// A read carries a GAQL query; mutates carry one or more serialized
// mutate operations targeting Resource.
type Operation struct {
	Kind       OperationKind
	CustomerID string
	Resource   string // e.g. "campaigns", "adGroupCriteria"; informational for logs/audit

	// Read
	Query    string
	PageSize int

	// Mutate. Each item is one serialized mutate operation
	// (e.g. {"campaignOperation": {"create": {...}}}).
	Items []json.RawMessage

	// CorrelationID ties attempts, log lines and audit entries together.
	// The remote API has no idempotency keys; this is tracing-only.
	CorrelationID string
}
