package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

// ListCampaigns lists campaigns with their core settings.
func (h *Handler) ListCampaigns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 50)

	where := "campaign.status != 'REMOVED'"
	if status := strings.ToUpper(req.GetString("status", "")); status != "" {
		if err := validStatus(status); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		where = fmt.Sprintf("campaign.status = '%s'", status)
	}

	query := fmt.Sprintf(`
		SELECT
			campaign.id,
			campaign.name,
			campaign.status,
			campaign.advertising_channel_type,
			campaign.bidding_strategy_type,
			campaign.start_date,
			campaign.end_date,
			campaign_budget.amount_micros
		FROM campaign
		WHERE %s
		ORDER BY campaign.id
		LIMIT %d`, where, limit)
	return h.runSearch(ctx, "list_campaigns", cid, query)
}

// GetCampaign fetches a single campaign by ID.
func (h *Handler) GetCampaign(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	campaignID, err := req.RequireString("campaign_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := validNumericID("campaign_id", campaignID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := fmt.Sprintf(`
		SELECT
			campaign.id,
			campaign.name,
			campaign.status,
			campaign.advertising_channel_type,
			campaign.bidding_strategy_type,
			campaign.start_date,
			campaign.end_date,
			campaign.network_settings.target_google_search,
			campaign.network_settings.target_search_network,
			campaign_budget.amount_micros,
			campaign_budget.delivery_method
		FROM campaign
		WHERE campaign.id = %s
		LIMIT 1`, campaignID)
	return h.runSearch(ctx, "get_campaign", cid, query)
}

// CreateCampaign creates a budget and a paused search campaign in one atomic
// mutate. The budget is referenced through a temporary resource ID so both
// resources land in a single request. New campaigns start PAUSED so nothing
// spends before a human reviews it.
func (h *Handler) CreateCampaign(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	budgetMicros := req.GetInt("budget_micros", 0)
	if budgetMicros <= 0 {
		return mcp.NewToolResultError("budget_micros must be a positive integer (1000000 = one currency unit)"), nil
	}
	channelType := strings.ToUpper(req.GetString("channel_type", "SEARCH"))

	tempBudget := fmt.Sprintf("customers/%s/campaignBudgets/-1", cid)
	items, err := rawItems([]map[string]any{
		{
			"campaignBudgetOperation": map[string]any{
				"create": map[string]any{
					"resourceName":   tempBudget,
					"name":           name + " Budget",
					"amountMicros":   fmt.Sprintf("%d", budgetMicros),
					"deliveryMethod": "STANDARD",
				},
			},
		},
		{
			"campaignOperation": map[string]any{
				"create": map[string]any{
					"name":                   name,
					"status":                 "PAUSED",
					"advertisingChannelType": channelType,
					"campaignBudget":         tempBudget,
					"manualCpc":              map[string]any{},
					"networkSettings": map[string]any{
						"targetGoogleSearch":  true,
						"targetSearchNetwork": true,
					},
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return h.runMutate(ctx, "create_campaign", domain.Operation{
		Kind:       domain.OperationMutate,
		CustomerID: cid,
		Resource:   "campaign",
		Items:      items,
	})
}

// UpdateCampaign updates mutable campaign fields.
func (h *Handler) UpdateCampaign(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	campaignID, err := req.RequireString("campaign_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := validNumericID("campaign_id", campaignID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	update := map[string]any{
		"resourceName": fmt.Sprintf("customers/%s/campaigns/%s", cid, campaignID),
	}
	var mask []string
	if name := req.GetString("name", ""); name != "" {
		update["name"] = name
		mask = append(mask, "name")
	}
	if status := strings.ToUpper(req.GetString("status", "")); status != "" {
		if err := validStatus(status); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		update["status"] = status
		mask = append(mask, "status")
	}
	if len(mask) == 0 {
		return mcp.NewToolResultError("nothing to update: provide name or status"), nil
	}

	items, err := rawItems([]map[string]any{
		{
			"campaignOperation": map[string]any{
				"update":     update,
				"updateMask": strings.Join(mask, ","),
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return h.runMutate(ctx, "update_campaign", domain.Operation{
		Kind:       domain.OperationMutate,
		CustomerID: cid,
		Resource:   "campaign",
		Items:      items,
	})
}

// PauseCampaign sets a campaign's status to PAUSED.
func (h *Handler) PauseCampaign(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.setCampaignStatus(ctx, req, "pause_campaign", "PAUSED")
}

// ResumeCampaign sets a campaign's status to ENABLED.
func (h *Handler) ResumeCampaign(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.setCampaignStatus(ctx, req, "resume_campaign", "ENABLED")
}

func (h *Handler) setCampaignStatus(ctx context.Context, req mcp.CallToolRequest, tool, status string) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	campaignID, err := req.RequireString("campaign_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := validNumericID("campaign_id", campaignID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	items, err := rawItems([]map[string]any{
		{
			"campaignOperation": map[string]any{
				"update": map[string]any{
					"resourceName": fmt.Sprintf("customers/%s/campaigns/%s", cid, campaignID),
					"status":       status,
				},
				"updateMask": "status",
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return h.runMutate(ctx, tool, domain.Operation{
		Kind:       domain.OperationMutate,
		CustomerID: cid,
		Resource:   "campaign",
		Items:      items,
	})
}
