// Package tools implements the MCP tool surface over the Google Ads API.
// Each tool builds a read or mutate Operation and hands it to the dispatcher,
// which owns credentials, retries, and failure classification.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/grantweston/google-ads-mcp-complete/internal/auth"
	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
	"github.com/grantweston/google-ads-mcp-complete/internal/dispatch"
	"github.com/grantweston/google-ads-mcp-complete/internal/infra/gads"
)

// Handler holds the dependencies shared by all tool implementations.
type Handler struct {
	dispatcher        *dispatch.Dispatcher
	ads               *gads.Client
	creds             *auth.Store
	defaultCustomerID string
	log               *slog.Logger
}

// New creates a tool handler.
func New(d *dispatch.Dispatcher, ads *gads.Client, creds *auth.Store, defaultCustomerID string) *Handler {
	return &Handler{
		dispatcher:        d,
		ads:               ads,
		creds:             creds,
		defaultCustomerID: NormalizeCustomerID(defaultCustomerID),
		log:               slog.Default(),
	}
}

// SetLogger overrides the default logger.
func (h *Handler) SetLogger(log *slog.Logger) {
	if log != nil {
		h.log = log
	}
}

// customerID resolves the customer ID for a request, falling back to the
// configured default.
func (h *Handler) customerID(req mcp.CallToolRequest) (string, error) {
	id := NormalizeCustomerID(req.GetString("customer_id", ""))
	if id == "" {
		id = h.defaultCustomerID
	}
	if id == "" {
		return "", fmt.Errorf("no customer_id provided and no default configured")
	}
	if err := ValidateCustomerID(id); err != nil {
		return "", err
	}
	return id, nil
}

// runSearch executes a GAQL query through the dispatcher and renders the rows.
func (h *Handler) runSearch(ctx context.Context, tool, customerID, query string) (*mcp.CallToolResult, error) {
	out := h.dispatcher.Execute(ctx, tool, domain.Operation{
		Kind:       domain.OperationRead,
		CustomerID: customerID,
		Query:      query,
	})
	return h.outcomeResult(out)
}

// runMutate executes a mutate operation through the dispatcher.
func (h *Handler) runMutate(ctx context.Context, tool string, op domain.Operation) (*mcp.CallToolResult, error) {
	out := h.dispatcher.Execute(ctx, tool, op)
	return h.outcomeResult(out)
}

// outcomeResult renders a terminal Outcome as a tool result. Failed outcomes
// become tool errors so MCP clients can distinguish them from payloads;
// partial outcomes stay successful with per-item detail in the body.
func (h *Handler) outcomeResult(out domain.Outcome) (*mcp.CallToolResult, error) {
	switch out.Status {
	case domain.OutcomeFailed:
		return mcp.NewToolResultError(renderFailure(out.Failure)), nil
	default:
		payload, err := json.MarshalIndent(outcomePayload(out), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode result: %w", err)
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}

func renderFailure(f *domain.ClassifiedFailure) string {
	if f == nil {
		return "operation failed"
	}
	msg := fmt.Sprintf("[%s] %s", f.Kind, f.Message)
	if f.FieldPath != "" {
		msg += fmt.Sprintf(" (field: %s)", f.FieldPath)
	}
	if f.DocsURL != "" {
		msg += "\nDocs: " + f.DocsURL
	}
	if f.RequestID != "" {
		msg += "\nRequest ID: " + f.RequestID
	}
	return msg
}

// outcomePayload is the JSON shape tools return to clients.
func outcomePayload(out domain.Outcome) map[string]any {
	payload := map[string]any{
		"status":   string(out.Status),
		"attempts": out.Attempts,
	}
	if out.CorrelationID != "" {
		payload["correlation_id"] = out.CorrelationID
	}
	if out.Rows != nil {
		payload["row_count"] = len(out.Rows)
		payload["rows"] = out.Rows
	}
	if out.Results != nil {
		items := make([]map[string]any, 0, len(out.Results))
		for _, r := range out.Results {
			item := map[string]any{"index": r.Index}
			if r.OK() {
				item["resource_name"] = r.ResourceName
			} else {
				item["error"] = r.Failure.Message
				if r.Failure.FieldPath != "" {
					item["field"] = r.Failure.FieldPath
				}
				if r.Failure.DocsURL != "" {
					item["docs_url"] = r.Failure.DocsURL
				}
			}
			items = append(items, item)
		}
		payload["results"] = items
	}
	return payload
}

// stringSlice extracts a []string argument from the raw request arguments.
func stringSlice(req mcp.CallToolRequest, key string) []string {
	args := req.GetArguments()
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// rawItems marshals operation payloads into the form the mutate transport
// expects, preserving order.
func rawItems(items []map[string]any) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(items))
	for i, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to encode operation %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}
