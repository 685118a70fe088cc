package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

// ListAdGroups lists ad groups, optionally scoped to one campaign.
func (h *Handler) ListAdGroups(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 50)

	where := "ad_group.status != 'REMOVED'"
	if campaignID := req.GetString("campaign_id", ""); campaignID != "" {
		if err := validNumericID("campaign_id", campaignID); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		where += fmt.Sprintf(" AND campaign.id = %s", campaignID)
	}

	query := fmt.Sprintf(`
		SELECT
			ad_group.id,
			ad_group.name,
			ad_group.status,
			ad_group.type,
			ad_group.cpc_bid_micros,
			campaign.id,
			campaign.name
		FROM ad_group
		WHERE %s
		ORDER BY ad_group.id
		LIMIT %d`, where, limit)
	return h.runSearch(ctx, "list_ad_groups", cid, query)
}

// CreateAdGroup creates a paused ad group under a campaign.
func (h *Handler) CreateAdGroup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
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

	create := map[string]any{
		"name":     name,
		"status":   "PAUSED",
		"campaign": fmt.Sprintf("customers/%s/campaigns/%s", cid, campaignID),
		"type":     "SEARCH_STANDARD",
	}
	if bid := req.GetInt("cpc_bid_micros", 0); bid > 0 {
		create["cpcBidMicros"] = fmt.Sprintf("%d", bid)
	}

	items, err := rawItems([]map[string]any{
		{"adGroupOperation": map[string]any{"create": create}},
	})
	if err != nil {
		return nil, err
	}

	return h.runMutate(ctx, "create_ad_group", domain.Operation{
		Kind:       domain.OperationMutate,
		CustomerID: cid,
		Resource:   "ad_group",
		Items:      items,
	})
}

// UpdateAdGroup updates mutable ad group fields.
func (h *Handler) UpdateAdGroup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	adGroupID, err := req.RequireString("ad_group_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := validNumericID("ad_group_id", adGroupID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	update := map[string]any{
		"resourceName": fmt.Sprintf("customers/%s/adGroups/%s", cid, adGroupID),
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
	if bid := req.GetInt("cpc_bid_micros", 0); bid > 0 {
		update["cpcBidMicros"] = fmt.Sprintf("%d", bid)
		mask = append(mask, "cpc_bid_micros")
	}
	if len(mask) == 0 {
		return mcp.NewToolResultError("nothing to update: provide name, status, or cpc_bid_micros"), nil
	}

	items, err := rawItems([]map[string]any{
		{
			"adGroupOperation": map[string]any{
				"update":     update,
				"updateMask": strings.Join(mask, ","),
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return h.runMutate(ctx, "update_ad_group", domain.Operation{
		Kind:       domain.OperationMutate,
		CustomerID: cid,
		Resource:   "ad_group",
		Items:      items,
	})
}
