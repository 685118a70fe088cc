package domain

import (
	"fmt"
	"time"
)

// FailureKind is the closed set of classified failure categories.
type FailureKind string

const (
	FailureTransient     FailureKind = "transient"     // network/infra, safe to retry
	FailureRateLimited   FailureKind = "rate_limited"  // quota/throttle, retry after a wait
	FailureAuth          FailureKind = "auth"          // credential invalid/expired/insufficient scope
	FailureValidation    FailureKind = "validation"    // payload rejected by the API
	FailureIndeterminate FailureKind = "indeterminate" // mutate outcome unknown (cancelled in flight)
	FailureUnknown       FailureKind = "unknown"       // unclassified, never retried
)

// ClassifiedFailure is a raw remote failure mapped into the closed taxonomy.
// For a fixed input the classifier always produces the same ClassifiedFailure.
type ClassifiedFailure struct {
	Kind      FailureKind `json:"kind"`
	Retryable bool        `json:"retryable"`
	Message   string      `json:"message"`

	// FieldPath points at the offending request field for validation failures.
	FieldPath string `json:"field_path,omitempty"`

	// DocsURL references the vendor error documentation when the API
	// supplied an error code.
	DocsURL string `json:"documentation,omitempty"`

	// SuggestedWait is the server-provided backoff hint for rate limits.
	SuggestedWait time.Duration `json:"suggested_wait,omitempty"`

	RequestID string `json:"request_id,omitempty"`
}

func (f *ClassifiedFailure) Error() string {
	if f == nil {
		return "<nil>"
	}
	if f.FieldPath != "" {
		return fmt.Sprintf("%s: %s (field %s)", f.Kind, f.Message, f.FieldPath)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}
