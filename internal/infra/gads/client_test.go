package gads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

func newTestClient(url string) *Client {
	return NewClient(Config{Endpoint: url, Version: "v20"}, "dev-token", "999-888-7777")
}

func TestSearch_SetsHeaders(t *testing.T) {
	var gotAuth, gotDevToken, gotLogin string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotDevToken = r.Header.Get("developer-token")
		gotLogin = r.Header.Get("login-customer-id")
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	op := domain.Operation{CustomerID: "1234567890", Query: "SELECT campaign.id FROM campaign"}
	if _, err := c.Search(context.Background(), "access-token", op); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotAuth != "Bearer access-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotDevToken != "dev-token" {
		t.Errorf("developer-token = %q", gotDevToken)
	}
	// Dashes stripped from the login customer ID.
	if gotLogin != "9998887777" {
		t.Errorf("login-customer-id = %q", gotLogin)
	}
}

func TestSearch_FollowsPages(t *testing.T) {
	var pageTokens []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PageToken string `json:"pageToken"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		pageTokens = append(pageTokens, req.PageToken)

		switch req.PageToken {
		case "":
			json.NewEncoder(w).Encode(map[string]any{
				"results":       []any{map[string]any{"campaign": map[string]any{"id": "1"}}},
				"nextPageToken": "page-2",
			})
		case "page-2":
			json.NewEncoder(w).Encode(map[string]any{
				"results": []any{map[string]any{"campaign": map[string]any{"id": "2"}}},
			})
		default:
			t.Errorf("unexpected page token %q", req.PageToken)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	rows, err := c.Search(context.Background(), "tok", domain.Operation{CustomerID: "1234567890", Query: "SELECT campaign.id FROM campaign"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 rows across pages, got %d", len(rows))
	}
	if len(pageTokens) != 2 || pageTokens[1] != "page-2" {
		t.Errorf("page tokens = %v", pageTokens)
	}
}

func TestSearch_ErrorsWhenPageCapExceeded(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		// Every page claims another one follows.
		json.NewEncoder(w).Encode(map[string]any{
			"results":       []any{map[string]any{"campaign": map[string]any{"id": "1"}}},
			"nextPageToken": "more",
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	rows, err := c.Search(context.Background(), "tok", domain.Operation{CustomerID: "1234567890", Query: "SELECT campaign.id FROM campaign"})
	if err == nil {
		t.Fatal("expected an error once the page cap is exceeded")
	}
	if rows != nil {
		t.Error("a truncated result set must not be returned")
	}
	if !strings.Contains(err.Error(), "LIMIT") {
		t.Errorf("error should tell the caller how to narrow the query: %v", err)
	}
	if requests != maxSearchPages {
		t.Errorf("expected %d page requests, got %d", maxSearchPages, requests)
	}
}

func TestSearch_ErrorBodyParsed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("request-id", "req-42")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    400,
				"message": "Request contains an invalid argument.",
				"status":  "INVALID_ARGUMENT",
				"details": []any{
					map[string]any{
						"@type": "type.googleapis.com/google.ads.googleads.v20.errors.GoogleAdsFailure",
						"errors": []any{
							map[string]any{
								"errorCode": map[string]any{"queryError": "UNEXPECTED_END_OF_QUERY"},
								"message":   "Error in query: unexpected end of query.",
							},
						},
						"requestId": "req-42",
					},
				},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Search(context.Background(), "tok", domain.Operation{CustomerID: "1234567890", Query: "SELECT"})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Failure == nil || len(apiErr.Failure.Errors) != 1 {
		t.Fatalf("failure payload not parsed: %+v", apiErr)
	}
	if apiErr.Failure.Errors[0].Category() != "queryError" {
		t.Errorf("category = %q", apiErr.Failure.Errors[0].Category())
	}
	if apiErr.RequestID != "req-42" {
		t.Errorf("request ID = %q", apiErr.RequestID)
	}

	cf := Classify(err)
	if cf.Kind != domain.FailureValidation {
		t.Errorf("classified as %s, want validation", cf.Kind)
	}
}

func TestSearch_RetryAfterHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 429, "message": "rate limited", "status": "RESOURCE_EXHAUSTED"},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Search(context.Background(), "tok", domain.Operation{CustomerID: "1234567890", Query: "SELECT campaign.id FROM campaign"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.RetryAfter != 30*time.Second {
		t.Errorf("RetryAfter = %v, want 30s", apiErr.RetryAfter)
	}

	cf := Classify(err)
	if cf.Kind != domain.FailureRateLimited || cf.SuggestedWait != 30*time.Second {
		t.Errorf("classification lost the wait hint: %+v", cf)
	}
}

func TestMutate_MapsPartialFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PartialFailure bool              `json:"partialFailure"`
			Ops            []json.RawMessage `json:"mutateOperations"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if !req.PartialFailure {
			t.Error("batch mutate must request partial failure")
		}

		json.NewEncoder(w).Encode(map[string]any{
			"mutateOperationResponses": []any{
				map[string]any{"adGroupCriterionResult": map[string]any{"resourceName": "customers/1234567890/adGroupCriteria/11~1"}},
				map[string]any{},
				map[string]any{"adGroupCriterionResult": map[string]any{"resourceName": "customers/1234567890/adGroupCriteria/11~3"}},
			},
			"partialFailureError": map[string]any{
				"code":    3,
				"message": "partial failure",
				"details": []any{
					map[string]any{
						"@type": "type.googleapis.com/google.ads.googleads.v20.errors.GoogleAdsFailure",
						"errors": []any{
							map[string]any{
								"errorCode": map[string]any{"criterionError": "KEYWORD_HAS_INVALID_CHARS"},
								"message":   "invalid characters",
								"location": map[string]any{
									"fieldPathElements": []any{
										map[string]any{"fieldName": "mutateOperations", "index": 1},
									},
								},
							},
						},
						"requestId": "req-77",
					},
				},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	op := domain.Operation{
		Kind:       domain.OperationBatchMutate,
		CustomerID: "1234567890",
		Items: []json.RawMessage{
			json.RawMessage(`{}`), json.RawMessage(`{}`), json.RawMessage(`{}`),
		},
	}
	batch, err := c.Mutate(context.Background(), "tok", op)
	if err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}

	if batch.ResourceNames[0] != "customers/1234567890/adGroupCriteria/11~1" {
		t.Errorf("resource name 0 = %q", batch.ResourceNames[0])
	}
	if batch.ResourceNames[2] != "customers/1234567890/adGroupCriteria/11~3" {
		t.Errorf("resource name 2 = %q", batch.ResourceNames[2])
	}
	f, ok := batch.ItemFailures[1]
	if !ok {
		t.Fatal("item 1 should carry a failure")
	}
	if f.Kind != domain.FailureValidation {
		t.Errorf("item failure kind = %s", f.Kind)
	}
	if f.RequestID != "req-77" {
		t.Errorf("item failure request ID = %q", f.RequestID)
	}
	if batch.RequestID != "req-77" {
		t.Errorf("batch request ID = %q", batch.RequestID)
	}
}

func TestMutate_SingleMutateNoPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PartialFailure bool `json:"partialFailure"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.PartialFailure {
			t.Error("single mutate must not request partial failure")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"mutateOperationResponses": []any{
				map[string]any{"campaignResult": map[string]any{"resourceName": "customers/1234567890/campaigns/5"}},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	op := domain.Operation{
		Kind:       domain.OperationMutate,
		CustomerID: "1234567890",
		Items:      []json.RawMessage{json.RawMessage(`{}`)},
	}
	batch, err := c.Mutate(context.Background(), "tok", op)
	if err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	if batch.ResourceNames[0] != "customers/1234567890/campaigns/5" {
		t.Errorf("resource name = %q", batch.ResourceNames[0])
	}
	if len(batch.ItemFailures) != 0 {
		t.Errorf("unexpected item failures: %v", batch.ItemFailures)
	}
}

func TestListAccessibleCustomers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"resourceNames": []string{"customers/1234567890", "customers/2345678901"},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	names, err := c.ListAccessibleCustomers(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ListAccessibleCustomers failed: %v", err)
	}
	if len(names) != 2 || names[0] != "customers/1234567890" {
		t.Errorf("names = %v", names)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d := parseRetryAfter("45"); d != 45*time.Second {
		t.Errorf("seconds form = %v", d)
	}
	if d := parseRetryAfter(""); d != 0 {
		t.Errorf("empty header = %v", d)
	}
	if d := parseRetryAfter("garbage"); d != 0 {
		t.Errorf("garbage header = %v", d)
	}
}
