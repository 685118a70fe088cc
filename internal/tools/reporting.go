package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// RunGAQLQuery executes an arbitrary GAQL query.
func (h *Handler) RunGAQLQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT") {
		return mcp.NewToolResultError("GAQL queries must start with SELECT"), nil
	}
	return h.runSearch(ctx, "run_gaql_query", cid, query)
}

// GetCampaignPerformance reports campaign metrics over a date range.
func (h *Handler) GetCampaignPerformance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 50)

	query := fmt.Sprintf(`
		SELECT
			campaign.id,
			campaign.name,
			campaign.status,
			metrics.impressions,
			metrics.clicks,
			metrics.ctr,
			metrics.average_cpc,
			metrics.cost_micros,
			metrics.conversions,
			metrics.conversions_value
		FROM campaign
		WHERE %s
		ORDER BY metrics.cost_micros DESC
		LIMIT %d`, dateRangeClause(req.GetString("date_range", "")), limit)
	return h.runSearch(ctx, "get_campaign_performance", cid, query)
}

// GetKeywordPerformance reports keyword metrics over a date range.
func (h *Handler) GetKeywordPerformance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 50)

	where := dateRangeClause(req.GetString("date_range", ""))
	if campaignID := req.GetString("campaign_id", ""); campaignID != "" {
		if err := validNumericID("campaign_id", campaignID); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		where += fmt.Sprintf(" AND campaign.id = %s", campaignID)
	}

	query := fmt.Sprintf(`
		SELECT
			ad_group_criterion.keyword.text,
			ad_group_criterion.keyword.match_type,
			ad_group_criterion.status,
			ad_group.name,
			campaign.name,
			metrics.impressions,
			metrics.clicks,
			metrics.ctr,
			metrics.average_cpc,
			metrics.cost_micros,
			metrics.conversions
		FROM keyword_view
		WHERE %s
		ORDER BY metrics.clicks DESC
		LIMIT %d`, where, limit)
	return h.runSearch(ctx, "get_keyword_performance", cid, query)
}

// GetSearchTermsReport reports the actual search queries that triggered ads.
func (h *Handler) GetSearchTermsReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 50)

	where := dateRangeClause(req.GetString("date_range", ""))
	if campaignID := req.GetString("campaign_id", ""); campaignID != "" {
		if err := validNumericID("campaign_id", campaignID); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		where += fmt.Sprintf(" AND campaign.id = %s", campaignID)
	}

	query := fmt.Sprintf(`
		SELECT
			search_term_view.search_term,
			search_term_view.status,
			campaign.name,
			ad_group.name,
			metrics.impressions,
			metrics.clicks,
			metrics.ctr,
			metrics.cost_micros,
			metrics.conversions
		FROM search_term_view
		WHERE %s
		ORDER BY metrics.impressions DESC
		LIMIT %d`, where, limit)
	return h.runSearch(ctx, "get_search_terms_report", cid, query)
}

// GetAdPerformance reports per-ad metrics over a date range.
func (h *Handler) GetAdPerformance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 50)

	query := fmt.Sprintf(`
		SELECT
			ad_group_ad.ad.id,
			ad_group_ad.ad.name,
			ad_group_ad.status,
			ad_group.name,
			campaign.name,
			metrics.impressions,
			metrics.clicks,
			metrics.ctr,
			metrics.cost_micros,
			metrics.conversions
		FROM ad_group_ad
		WHERE %s
		ORDER BY metrics.impressions DESC
		LIMIT %d`, dateRangeClause(req.GetString("date_range", "")), limit)
	return h.runSearch(ctx, "get_ad_performance", cid, query)
}
