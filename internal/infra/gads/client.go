// Package gads is the Google Ads API boundary: a REST/JSON transport plus
// the classifier that maps raw API failures into the closed failure
// taxonomy. Vendor error shapes never leak past this package.
package gads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
	"github.com/grantweston/google-ads-mcp-complete/internal/dispatch"
	"github.com/grantweston/google-ads-mcp-complete/internal/metrics"
)

const (
	defaultEndpoint = "https://googleads.googleapis.com"
	defaultVersion  = "v20"
	defaultTimeout  = 30 * time.Second

	defaultPageSize = 1000
	maxSearchPages  = 50
)

// Config holds transport settings.
type Config struct {
	Endpoint string        `yaml:"endpoint"`
	Version  string        `yaml:"version"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Client talks to the Google Ads REST API.
type Client struct {
	cfg             Config
	developerToken  string
	loginCustomerID string
	httpClient      *http.Client
}

// NewClient creates an API client. loginCustomerID may be empty for
// accounts accessed directly.
func NewClient(cfg Config, developerToken, loginCustomerID string) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Version == "" {
		cfg.Version = defaultVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:             cfg,
		developerToken:  developerToken,
		loginCustomerID: strings.ReplaceAll(loginCustomerID, "-", ""),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Search runs the operation's GAQL query, following result pages, and
// returns the raw result rows.
func (c *Client) Search(ctx context.Context, accessToken string, op domain.Operation) ([]json.RawMessage, error) {
	pageSize := op.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var (
		rows      []json.RawMessage
		pageToken string
	)
	path := fmt.Sprintf("/%s/customers/%s/googleAds:search", c.cfg.Version, op.CustomerID)
	for page := 0; page < maxSearchPages; page++ {
		reqBody := map[string]any{
			"query":    op.Query,
			"pageSize": pageSize,
		}
		if pageToken != "" {
			reqBody["pageToken"] = pageToken
		}

		var resp struct {
			Results       []json.RawMessage `json:"results"`
			NextPageToken string            `json:"nextPageToken"`
		}
		if err := c.do(ctx, accessToken, "search", path, reqBody, &resp); err != nil {
			return nil, err
		}
		rows = append(rows, resp.Results...)
		if resp.NextPageToken == "" {
			return rows, nil
		}
		pageToken = resp.NextPageToken
	}
	// Still more pages after the cap: refuse to return a silently
	// truncated result set.
	return nil, fmt.Errorf("query exceeded %d result pages (%d rows fetched); add a LIMIT clause or narrow the query", maxSearchPages, len(rows))
}

// Mutate submits the operation's items as one mutate call. Batches are sent
// with partial-failure semantics so committed items survive rejected
// siblings; a single mutate fails whole.
func (c *Client) Mutate(ctx context.Context, accessToken string, op domain.Operation) (*dispatch.BatchResponse, error) {
	partialFailure := op.Kind == domain.OperationBatchMutate
	reqBody := map[string]any{
		"mutateOperations": op.Items,
		"partialFailure":   partialFailure,
	}

	var resp struct {
		Responses      []json.RawMessage `json:"mutateOperationResponses"`
		PartialFailure *struct {
			Code    int               `json:"code"`
			Message string            `json:"message"`
			Details []json.RawMessage `json:"details"`
		} `json:"partialFailureError"`
	}
	path := fmt.Sprintf("/%s/customers/%s/googleAds:mutate", c.cfg.Version, op.CustomerID)
	if err := c.do(ctx, accessToken, "mutate", path, reqBody, &resp); err != nil {
		return nil, err
	}

	batch := &dispatch.BatchResponse{
		ResourceNames: make([]string, len(op.Items)),
		ItemFailures:  make(map[int]*domain.ClassifiedFailure),
	}
	for i, raw := range resp.Responses {
		if i < len(batch.ResourceNames) {
			batch.ResourceNames[i] = resultResourceName(raw)
		}
	}
	if resp.PartialFailure != nil {
		for _, failure := range parseFailureDetails(resp.PartialFailure.Details) {
			if batch.RequestID == "" {
				batch.RequestID = failure.RequestID
			}
			for _, adsErr := range failure.Errors {
				idx, ok := adsErr.OperationIndex()
				if !ok || idx < 0 || idx >= len(op.Items) {
					continue
				}
				// First error per item wins; later ones are usually
				// cascading detail.
				if _, seen := batch.ItemFailures[idx]; !seen {
					batch.ItemFailures[idx] = ClassifyItem(adsErr, failure.RequestID)
				}
			}
		}
	}
	return batch, nil
}

// ListAccessibleCustomers returns the customer resource names the
// authenticated user can access.
func (c *Client) ListAccessibleCustomers(ctx context.Context, accessToken string) ([]string, error) {
	var resp struct {
		ResourceNames []string `json:"resourceNames"`
	}
	path := fmt.Sprintf("/%s/customers:listAccessibleCustomers", c.cfg.Version)
	if err := c.get(ctx, accessToken, "listAccessibleCustomers", path, &resp); err != nil {
		return nil, err
	}
	return resp.ResourceNames, nil
}

func (c *Client) do(ctx context.Context, accessToken, method, path string, reqBody, out any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.roundTrip(req, accessToken, method, out)
}

func (c *Client) get(ctx context.Context, accessToken, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.roundTrip(req, accessToken, method, out)
}

func (c *Client) roundTrip(req *http.Request, accessToken, method string, out any) error {
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("developer-token", c.developerToken)
	if c.loginCustomerID != "" {
		req.Header.Set("login-customer-id", c.loginCustomerID)
	}

	start := time.Now()
	metrics.APICallsTotal.WithLabelValues(method).Inc()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api call: %w", err)
	}
	defer resp.Body.Close()
	metrics.APILatency.WithLabelValues(method).Observe(time.Since(start).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseErrorBody(resp.StatusCode, body)
		if apiErr.RetryAfter == 0 {
			apiErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		}
		if apiErr.RequestID == "" {
			apiErr.RequestID = resp.Header.Get("request-id")
		}
		return apiErr
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// resultResourceName pulls the resourceName out of a mutate operation
// response regardless of which result one-of the API populated.
func resultResourceName(raw json.RawMessage) string {
	var oneOf map[string]struct {
		ResourceName string `json:"resourceName"`
	}
	if err := json.Unmarshal(raw, &oneOf); err != nil {
		return ""
	}
	for _, result := range oneOf {
		if result.ResourceName != "" {
			return result.ResourceName
		}
	}
	return ""
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(header)); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
