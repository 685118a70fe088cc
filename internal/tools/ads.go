package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

// ListAds lists ads, optionally scoped to one ad group.
func (h *Handler) ListAds(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 50)

	where := "ad_group_ad.status != 'REMOVED'"
	if adGroupID := req.GetString("ad_group_id", ""); adGroupID != "" {
		if err := validNumericID("ad_group_id", adGroupID); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		where += fmt.Sprintf(" AND ad_group.id = %s", adGroupID)
	}

	query := fmt.Sprintf(`
		SELECT
			ad_group_ad.ad.id,
			ad_group_ad.ad.type,
			ad_group_ad.status,
			ad_group_ad.ad.final_urls,
			ad_group_ad.ad.responsive_search_ad.headlines,
			ad_group_ad.ad.responsive_search_ad.descriptions,
			ad_group.id,
			ad_group.name
		FROM ad_group_ad
		WHERE %s
		ORDER BY ad_group_ad.ad.id
		LIMIT %d`, where, limit)
	return h.runSearch(ctx, "list_ads", cid, query)
}

// CreateResponsiveSearchAd creates a paused responsive search ad. Responsive
// search ads require at least 3 headlines and 2 descriptions.
func (h *Handler) CreateResponsiveSearchAd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	finalURL, err := req.RequireString("final_url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	headlines := stringSlice(req, "headlines")
	descriptions := stringSlice(req, "descriptions")
	if len(headlines) < 3 {
		return mcp.NewToolResultError("responsive search ads require at least 3 headlines"), nil
	}
	if len(descriptions) < 2 {
		return mcp.NewToolResultError("responsive search ads require at least 2 descriptions"), nil
	}
	for _, hl := range headlines {
		if len(hl) > 30 {
			return mcp.NewToolResultError(fmt.Sprintf("headline exceeds 30 characters: %q", hl)), nil
		}
	}
	for _, d := range descriptions {
		if len(d) > 90 {
			return mcp.NewToolResultError(fmt.Sprintf("description exceeds 90 characters: %q", d)), nil
		}
	}

	headlineAssets := make([]map[string]any, 0, len(headlines))
	for _, hl := range headlines {
		headlineAssets = append(headlineAssets, map[string]any{"text": hl})
	}
	descriptionAssets := make([]map[string]any, 0, len(descriptions))
	for _, d := range descriptions {
		descriptionAssets = append(descriptionAssets, map[string]any{"text": d})
	}

	items, err := rawItems([]map[string]any{
		{
			"adGroupAdOperation": map[string]any{
				"create": map[string]any{
					"adGroup": fmt.Sprintf("customers/%s/adGroups/%s", cid, adGroupID),
					"status":  "PAUSED",
					"ad": map[string]any{
						"finalUrls": []string{finalURL},
						"responsiveSearchAd": map[string]any{
							"headlines":    headlineAssets,
							"descriptions": descriptionAssets,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return h.runMutate(ctx, "create_responsive_search_ad", domain.Operation{
		Kind:       domain.OperationMutate,
		CustomerID: cid,
		Resource:   "ad_group_ad",
		Items:      items,
	})
}

// PauseAd sets an ad's status to PAUSED.
func (h *Handler) PauseAd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.setAdStatus(ctx, req, "pause_ad", "PAUSED")
}

// ResumeAd sets an ad's status to ENABLED.
func (h *Handler) ResumeAd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.setAdStatus(ctx, req, "resume_ad", "ENABLED")
}

func (h *Handler) setAdStatus(ctx context.Context, req mcp.CallToolRequest, tool, status string) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	adGroupID, err := req.RequireString("ad_group_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	adID, err := req.RequireString("ad_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := validNumericID("ad_group_id", adGroupID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := validNumericID("ad_id", adID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	items, err := rawItems([]map[string]any{
		{
			"adGroupAdOperation": map[string]any{
				"update": map[string]any{
					"resourceName": fmt.Sprintf("customers/%s/adGroupAds/%s~%s", cid, adGroupID, adID),
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
		Resource:   "ad_group_ad",
		Items:      items,
	})
}
