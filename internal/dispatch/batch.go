package dispatch

import (
	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

// BatchResponse is the structured result of one batch mutate call as the
// vendor client reports it: resource names for committed items and a
// classified failure per rejected item, both keyed by submitted index.
//
// A BatchResponse only exists when the remote call itself succeeded at the
// transport level; whole-call failures are plain errors and go through the
// retry controller instead.
type BatchResponse struct {
	ResourceNames []string // by submitted index, "" when the API returned none
	ItemFailures  map[int]*domain.ClassifiedFailure
	RequestID     string
}

// reconcileBatch maps a batch response back onto the submitted item order.
// The result sequence always has exactly len(op.Items) entries and entry i
// corresponds to op.Items[i]; items are never reordered.
//
// Item failures already committed alongside successful siblings, so they are
// terminal here and never trigger a retry of the batch.
func reconcileBatch(op domain.Operation, resp *BatchResponse) domain.Outcome {
	results := make([]domain.ItemResult, len(op.Items))
	failed := 0
	for i := range op.Items {
		r := domain.ItemResult{Index: i}
		if f, ok := resp.ItemFailures[i]; ok && f != nil {
			r.Failure = f
			failed++
		} else if i < len(resp.ResourceNames) {
			r.ResourceName = resp.ResourceNames[i]
		}
		results[i] = r
	}

	status := domain.OutcomeSucceeded
	if failed > 0 {
		status = domain.OutcomePartial
	}
	return domain.Outcome{
		Status:  status,
		Results: results,
	}
}
