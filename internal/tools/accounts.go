package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListAccounts returns the customer accounts the credential can access.
// Accessibility listing is a control-plane call that bypasses the dispatcher:
// it carries no customer scope and never mutates.
func (h *Handler) ListAccounts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cred, err := h.creds.Credential(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("credential refresh failed: %v", err)), nil
	}

	names, err := h.ads.ListAccessibleCustomers(ctx, cred.AccessToken)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list accounts: %v", err)), nil
	}

	accounts := make([]map[string]string, 0, len(names))
	for _, rn := range names {
		// resource names look like "customers/1234567890"
		id := strings.TrimPrefix(rn, "customers/")
		accounts = append(accounts, map[string]string{
			"customer_id":   id,
			"resource_name": rn,
		})
	}

	payload, err := json.MarshalIndent(map[string]any{
		"count":    len(accounts),
		"accounts": accounts,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// GetAccountHierarchy walks the customer_client links under an account,
// returning managed accounts by level.
func (h *Handler) GetAccountHierarchy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := `
		SELECT
			customer_client.id,
			customer_client.descriptive_name,
			customer_client.manager,
			customer_client.level,
			customer_client.status,
			customer_client.time_zone,
			customer_client.currency_code
		FROM customer_client
		WHERE customer_client.level <= 2
		ORDER BY customer_client.level, customer_client.id`
	return h.runSearch(ctx, "get_account_hierarchy", cid, query)
}

// GetAccountInfo returns descriptive fields for one customer account.
func (h *Handler) GetAccountInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := `
		SELECT
			customer.id,
			customer.descriptive_name,
			customer.currency_code,
			customer.time_zone,
			customer.auto_tagging_enabled,
			customer.manager,
			customer.test_account
		FROM customer
		LIMIT 1`
	return h.runSearch(ctx, "get_account_info", cid, query)
}
