package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

// ListBudgets lists campaign budgets.
func (h *Handler) ListBudgets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 50)

	query := fmt.Sprintf(`
		SELECT
			campaign_budget.id,
			campaign_budget.name,
			campaign_budget.amount_micros,
			campaign_budget.delivery_method,
			campaign_budget.explicitly_shared,
			campaign_budget.status
		FROM campaign_budget
		WHERE campaign_budget.status != 'REMOVED'
		ORDER BY campaign_budget.id
		LIMIT %d`, limit)
	return h.runSearch(ctx, "list_budgets", cid, query)
}

// CreateBudget creates a standalone campaign budget.
func (h *Handler) CreateBudget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	amountMicros := req.GetInt("amount_micros", 0)
	if amountMicros <= 0 {
		return mcp.NewToolResultError("amount_micros must be a positive integer (1000000 = one currency unit)"), nil
	}

	items, err := rawItems([]map[string]any{
		{
			"campaignBudgetOperation": map[string]any{
				"create": map[string]any{
					"name":             name,
					"amountMicros":     fmt.Sprintf("%d", amountMicros),
					"deliveryMethod":   "STANDARD",
					"explicitlyShared": req.GetBool("shared", false),
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return h.runMutate(ctx, "create_budget", domain.Operation{
		Kind:       domain.OperationMutate,
		CustomerID: cid,
		Resource:   "campaign_budget",
		Items:      items,
	})
}

// UpdateBudget changes a budget's amount or name.
func (h *Handler) UpdateBudget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	budgetID, err := req.RequireString("budget_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := validNumericID("budget_id", budgetID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	update := map[string]any{
		"resourceName": fmt.Sprintf("customers/%s/campaignBudgets/%s", cid, budgetID),
	}
	var mask []string
	if amount := req.GetInt("amount_micros", 0); amount > 0 {
		update["amountMicros"] = fmt.Sprintf("%d", amount)
		mask = append(mask, "amount_micros")
	}
	if name := req.GetString("name", ""); name != "" {
		update["name"] = name
		mask = append(mask, "name")
	}
	if len(mask) == 0 {
		return mcp.NewToolResultError("nothing to update: provide amount_micros or name"), nil
	}

	items, err := rawItems([]map[string]any{
		{
			"campaignBudgetOperation": map[string]any{
				"update":     update,
				"updateMask": strings.Join(mask, ","),
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return h.runMutate(ctx, "update_budget", domain.Operation{
		Kind:       domain.OperationMutate,
		CustomerID: cid,
		Resource:   "campaign_budget",
		Items:      items,
	})
}
