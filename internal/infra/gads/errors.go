package gads

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
)

// APIError is a structured failure returned by the Google Ads API.
type APIError struct {
	HTTPStatus int
	Status     codes.Code
	Message    string
	RequestID  string

	// RetryAfter is the server-provided wait hint, from a Retry-After
	// header or a RetryInfo/quota detail. Zero when absent.
	RetryAfter time.Duration

	// Failure holds the per-error detail payload when the API supplied one.
	Failure *Failure
}

func (e *APIError) Error() string {
	if e.Failure != nil && len(e.Failure.Errors) > 0 {
		first := e.Failure.Errors[0]
		return fmt.Sprintf("google ads api: %s: %s", first.Type(), first.Message)
	}
	return fmt.Sprintf("google ads api: http %d %s: %s", e.HTTPStatus, e.Status, e.Message)
}

// Failure mirrors the GoogleAdsFailure detail payload.
type Failure struct {
	Errors    []AdsError `json:"errors"`
	RequestID string     `json:"requestId"`
}

// AdsError is one entry of a GoogleAdsFailure.
type AdsError struct {
	// ErrorCode is a one-of: exactly one category key maps to the code
	// value, e.g. {"quotaError": "RESOURCE_EXHAUSTED"}.
	ErrorCode map[string]string `json:"errorCode"`
	Message   string            `json:"message"`
	Trigger   *ErrorTrigger     `json:"trigger,omitempty"`
	Location  *ErrorLocation    `json:"location,omitempty"`
	Details   *ErrorDetails     `json:"details,omitempty"`
}

// ErrorTrigger carries the offending value.
type ErrorTrigger struct {
	StringValue string `json:"stringValue,omitempty"`
}

// ErrorLocation points at the request field that caused the error.
type ErrorLocation struct {
	FieldPathElements []FieldPathElement `json:"fieldPathElements"`
}

// FieldPathElement is one segment of a field path; Index is set for
// repeated fields, in particular the submitted operation index.
type FieldPathElement struct {
	FieldName string `json:"fieldName"`
	Index     *int   `json:"index,omitempty"`
}

// ErrorDetails carries extra structured context for some error categories.
type ErrorDetails struct {
	QuotaErrorDetails *QuotaErrorDetails `json:"quotaErrorDetails,omitempty"`
}

// QuotaErrorDetails describes a quota violation.
type QuotaErrorDetails struct {
	RateScope  string `json:"rateScope,omitempty"`
	RateName   string `json:"rateName,omitempty"`
	RetryDelay string `json:"retryDelay,omitempty"` // e.g. "30s"
}

// Category returns the errorCode one-of key, "" when absent. Map iteration
// order is not stable, so the smallest key is picked for determinism.
func (e AdsError) Category() string {
	if len(e.ErrorCode) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.ErrorCode))
	for k := range e.ErrorCode {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}

// Code returns the error code value for the primary category.
func (e AdsError) Code() string {
	return e.ErrorCode[e.Category()]
}

// Type renders the error as "category.CODE", the form used in log output
// and documentation anchors.
func (e AdsError) Type() string {
	cat := e.Category()
	if cat == "" {
		return "UNKNOWN_ERROR"
	}
	return cat + "." + e.Code()
}

// FieldPath renders the location as a dotted path, e.g.
// "operations[1].create.name". Empty when no location was supplied.
func (e AdsError) FieldPath() string {
	if e.Location == nil || len(e.Location.FieldPathElements) == 0 {
		return ""
	}
	var b strings.Builder
	for i, el := range e.Location.FieldPathElements {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(el.FieldName)
		if el.Index != nil {
			b.WriteString("[" + strconv.Itoa(*el.Index) + "]")
		}
	}
	return b.String()
}

// OperationIndex extracts the submitted item index a partial-failure error
// refers to. The API reports it as the index of the top-level repeated
// operations field.
func (e AdsError) OperationIndex() (int, bool) {
	if e.Location == nil {
		return 0, false
	}
	for _, el := range e.Location.FieldPathElements {
		switch el.FieldName {
		case "operations", "mutate_operations", "mutateOperations":
			if el.Index != nil {
				return *el.Index, true
			}
		}
	}
	return 0, false
}

// SuggestedWait returns the server's retry hint for quota errors.
func (e AdsError) SuggestedWait() time.Duration {
	if e.Details == nil || e.Details.QuotaErrorDetails == nil {
		return 0
	}
	d, err := time.ParseDuration(e.Details.QuotaErrorDetails.RetryDelay)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

const failureTypeURL = "errors.GoogleAdsFailure"

// parseErrorBody decodes a non-2xx response body into an APIError.
// Unparseable bodies still yield an APIError carrying the HTTP status.
func parseErrorBody(httpStatus int, body []byte) *APIError {
	apiErr := &APIError{
		HTTPStatus: httpStatus,
		Status:     codes.Unknown,
		Message:    strings.TrimSpace(string(body)),
	}

	var envelope struct {
		Error struct {
			Code    int               `json:"code"`
			Message string            `json:"message"`
			Status  string            `json:"status"`
			Details []json.RawMessage `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error.Status == "" && envelope.Error.Message == "" {
		return apiErr
	}

	apiErr.Message = envelope.Error.Message
	if c, ok := parseCanonicalCode(envelope.Error.Status); ok {
		apiErr.Status = c
	}

	for _, raw := range envelope.Error.Details {
		var typed struct {
			Type string `json:"@type"`
		}
		if err := json.Unmarshal(raw, &typed); err != nil {
			continue
		}
		switch {
		case strings.Contains(typed.Type, failureTypeURL):
			var failure Failure
			if err := json.Unmarshal(raw, &failure); err == nil {
				apiErr.Failure = &failure
				apiErr.RequestID = failure.RequestID
			}
		case strings.HasSuffix(typed.Type, "google.rpc.RetryInfo"):
			var info struct {
				RetryDelay string `json:"retryDelay"`
			}
			if err := json.Unmarshal(raw, &info); err == nil {
				if d, err := time.ParseDuration(info.RetryDelay); err == nil && d > 0 {
					apiErr.RetryAfter = d
				}
			}
		}
	}
	return apiErr
}

// parseFailureDetails extracts GoogleAdsFailure payloads from a
// google.rpc.Status details list, as carried by partialFailureError.
func parseFailureDetails(details []json.RawMessage) []Failure {
	var failures []Failure
	for _, raw := range details {
		var typed struct {
			Type string `json:"@type"`
		}
		if err := json.Unmarshal(raw, &typed); err != nil {
			continue
		}
		if !strings.Contains(typed.Type, failureTypeURL) {
			continue
		}
		var failure Failure
		if err := json.Unmarshal(raw, &failure); err == nil {
			failures = append(failures, failure)
		}
	}
	return failures
}

// parseCanonicalCode maps a canonical status name ("RESOURCE_EXHAUSTED")
// onto its grpc code.
func parseCanonicalCode(name string) (codes.Code, bool) {
	if name == "" {
		return codes.Unknown, false
	}
	var c codes.Code
	if err := c.UnmarshalJSON([]byte(strconv.Quote(name))); err != nil {
		return codes.Unknown, false
	}
	return c, true
}
