package domain

import "encoding/json"

// OutcomeStatus tags the terminal result of an Operation.
type OutcomeStatus string

const (
	OutcomeSucceeded OutcomeStatus = "succeeded"
	OutcomePartial   OutcomeStatus = "partial_success"
	OutcomeFailed    OutcomeStatus = "failed"
)

// ItemResult is the per-item result of a batch mutate, aligned with the
// submitted item index. Failure is nil for items that committed.
type ItemResult struct {
	Index        int                `json:"index"`
	ResourceName string             `json:"resource_name,omitempty"`
	Failure      *ClassifiedFailure `json:"failure,omitempty"`
}

// OK reports whether the item committed.
func (r ItemResult) OK() bool { return r.Failure == nil }

// Outcome is the single envelope callers receive once an Operation resolves.
// Exactly one of the three shapes applies:
//   - Succeeded: Rows (reads) or Results with every item OK (mutates)
//   - Partial: Results mixing per-item success and failure, length equal to
//     the submitted batch, order preserved
//   - Failed: Failure set, no per-item results
type Outcome struct {
	Status        OutcomeStatus      `json:"status"`
	Rows          []json.RawMessage  `json:"rows,omitempty"`
	Results       []ItemResult       `json:"results,omitempty"`
	Failure       *ClassifiedFailure `json:"failure,omitempty"`
	Attempts      int                `json:"attempts"`
	CorrelationID string             `json:"correlation_id,omitempty"`
}

// Succeeded reports whether every part of the operation committed.
func (o Outcome) Succeeded() bool { return o.Status == OutcomeSucceeded }
