package gads

import (
	"errors"
	"testing"
	"time"

	"google.golang.org/grpc/codes"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

func adsError(category, code, message string) AdsError {
	return AdsError{
		ErrorCode: map[string]string{category: code},
		Message:   message,
	}
}

func TestClassify_NilError(t *testing.T) {
	if Classify(nil) != nil {
		t.Error("nil error must classify to nil")
	}
}

func TestClassify_Idempotent(t *testing.T) {
	err := &APIError{
		HTTPStatus: 429,
		Status:     codes.ResourceExhausted,
		Message:    "quota exceeded",
	}
	a := Classify(err)
	b := Classify(err)
	if a.Kind != b.Kind || a.Retryable != b.Retryable || a.Message != b.Message {
		t.Errorf("classification not stable: %+v vs %+v", a, b)
	}
}

func TestClassify_FailurePayloads(t *testing.T) {
	tests := []struct {
		name      string
		err       AdsError
		wantKind  domain.FailureKind
		retryable bool
	}{
		{"quota", adsError("quotaError", "RESOURCE_EXHAUSTED", "too many requests"), domain.FailureRateLimited, true},
		{"internal retryable", adsError("internalError", "INTERNAL_ERROR", "server error"), domain.FailureTransient, true},
		{"internal transient", adsError("internalError", "TRANSIENT_ERROR", "transient"), domain.FailureTransient, true},
		{"internal deadline", adsError("internalError", "DEADLINE_EXCEEDED", "deadline"), domain.FailureTransient, true},
		{"authentication", adsError("authenticationError", "OAUTH_TOKEN_EXPIRED", "token expired"), domain.FailureAuth, false},
		{"authorization", adsError("authorizationError", "USER_PERMISSION_DENIED", "no access"), domain.FailureAuth, false},
		{"query", adsError("queryError", "UNEXPECTED_END_OF_QUERY", "bad GAQL"), domain.FailureValidation, false},
		{"field", adsError("fieldError", "REQUIRED", "missing field"), domain.FailureValidation, false},
		{"campaign", adsError("campaignError", "DUPLICATE_CAMPAIGN_NAME", "dup name"), domain.FailureValidation, false},
		{"database", adsError("databaseError", "CONCURRENT_MODIFICATION", "concurrent change"), domain.FailureTransient, true},
		{"unrecognized category no location", adsError("futureError", "NEW_CODE", "??"), domain.FailureUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := &APIError{
				HTTPStatus: 400,
				Failure:    &Failure{Errors: []AdsError{tt.err}},
			}
			cf := Classify(apiErr)
			if cf.Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", cf.Kind, tt.wantKind)
			}
			if cf.Retryable != tt.retryable {
				t.Errorf("retryable = %v, want %v", cf.Retryable, tt.retryable)
			}
		})
	}
}

func TestClassify_UnrecognizedCategoryWithFieldLocation(t *testing.T) {
	idx := 0
	e := adsError("brandNewError", "SOMETHING", "field wrong")
	e.Location = &ErrorLocation{FieldPathElements: []FieldPathElement{
		{FieldName: "operations", Index: &idx},
		{FieldName: "create"},
		{FieldName: "name"},
	}}
	cf := Classify(&APIError{HTTPStatus: 400, Failure: &Failure{Errors: []AdsError{e}}})

	if cf.Kind != domain.FailureValidation {
		t.Errorf("category with field location should classify as validation, got %s", cf.Kind)
	}
	if cf.FieldPath != "operations[0].create.name" {
		t.Errorf("field path = %q", cf.FieldPath)
	}
}

func TestClassify_MixedPayloadPrecedence(t *testing.T) {
	// A payload mixing validation and quota errors must surface the quota
	// error so the retry controller honors the wait hint.
	apiErr := &APIError{
		HTTPStatus: 400,
		Failure: &Failure{Errors: []AdsError{
			adsError("fieldError", "REQUIRED", "missing"),
			{
				ErrorCode: map[string]string{"quotaError": "RESOURCE_EXHAUSTED"},
				Message:   "slow down",
				Details: &ErrorDetails{QuotaErrorDetails: &QuotaErrorDetails{
					RetryDelay: "30s",
				}},
			},
		}},
	}
	cf := Classify(apiErr)
	if cf.Kind != domain.FailureRateLimited {
		t.Fatalf("expected rate_limited to dominate, got %s", cf.Kind)
	}
	if cf.SuggestedWait != 30*time.Second {
		t.Errorf("suggested wait = %v, want 30s", cf.SuggestedWait)
	}
}

func TestClassify_HTTPFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		wantKind domain.FailureKind
	}{
		{"429", &APIError{HTTPStatus: 429, Status: codes.Unknown}, domain.FailureRateLimited},
		{"resource exhausted", &APIError{HTTPStatus: 400, Status: codes.ResourceExhausted}, domain.FailureRateLimited},
		{"500", &APIError{HTTPStatus: 500, Status: codes.Unknown}, domain.FailureTransient},
		{"503 unavailable", &APIError{HTTPStatus: 503, Status: codes.Unavailable}, domain.FailureTransient},
		{"deadline", &APIError{HTTPStatus: 504, Status: codes.DeadlineExceeded}, domain.FailureTransient},
		{"401", &APIError{HTTPStatus: 401, Status: codes.Unauthenticated}, domain.FailureAuth},
		{"403", &APIError{HTTPStatus: 403, Status: codes.PermissionDenied}, domain.FailureAuth},
		{"400", &APIError{HTTPStatus: 400, Status: codes.InvalidArgument}, domain.FailureValidation},
		{"teapot", &APIError{HTTPStatus: 418, Status: codes.Unknown}, domain.FailureUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if cf := Classify(tt.err); cf.Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", cf.Kind, tt.wantKind)
			}
		})
	}
}

func TestClassify_TransportErrors(t *testing.T) {
	cf := Classify(errors.New("read tcp 10.0.0.1:443: connection reset by peer"))
	if cf.Kind != domain.FailureTransient || !cf.Retryable {
		t.Errorf("transport error should be retryable transient, got %+v", cf)
	}
}

func TestClassify_UnknownError(t *testing.T) {
	cf := Classify(errors.New("something inexplicable"))
	if cf.Kind != domain.FailureUnknown || cf.Retryable {
		t.Errorf("expected non-retryable unknown, got %+v", cf)
	}
}

func TestClassifyItem_RetryDelayHint(t *testing.T) {
	e := AdsError{
		ErrorCode: map[string]string{"quotaError": "RESOURCE_TEMPORARILY_EXHAUSTED"},
		Details: &ErrorDetails{QuotaErrorDetails: &QuotaErrorDetails{
			RetryDelay: "15s",
		}},
	}
	cf := ClassifyItem(e, "req-1")
	if cf.SuggestedWait != 15*time.Second {
		t.Errorf("suggested wait = %v", cf.SuggestedWait)
	}
	if cf.RequestID != "req-1" {
		t.Errorf("request ID not carried: %q", cf.RequestID)
	}
}

func TestDocsURL(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{"quotaError", docsBaseURL + "#quota-error"},
		{"queryError", docsBaseURL + "#query-error"},
		{"authenticationError", docsBaseURL + "#authentication-error"},
		{"resourceCountLimitExceededError", docsBaseURL + "#resource-count-limit-exceeded-error"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := DocsURL(tt.category); got != tt.want {
			t.Errorf("DocsURL(%q) = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestAdsError_OperationIndex(t *testing.T) {
	two := 2
	e := AdsError{Location: &ErrorLocation{FieldPathElements: []FieldPathElement{
		{FieldName: "mutateOperations", Index: &two},
		{FieldName: "adGroupCriterionOperation"},
	}}}
	idx, ok := e.OperationIndex()
	if !ok || idx != 2 {
		t.Errorf("OperationIndex = %d, %v", idx, ok)
	}

	if _, ok := (AdsError{}).OperationIndex(); ok {
		t.Error("missing location should report no index")
	}
}
