package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

var validMatchTypes = map[string]bool{
	"EXACT":  true,
	"PHRASE": true,
	"BROAD":  true,
}

// ListKeywords lists keyword criteria, optionally scoped to one ad group.
func (h *Handler) ListKeywords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 100)

	where := "ad_group_criterion.type = 'KEYWORD' AND ad_group_criterion.status != 'REMOVED'"
	if adGroupID := req.GetString("ad_group_id", ""); adGroupID != "" {
		if err := validNumericID("ad_group_id", adGroupID); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		where += fmt.Sprintf(" AND ad_group.id = %s", adGroupID)
	}

	query := fmt.Sprintf(`
		SELECT
			ad_group_criterion.criterion_id,
			ad_group_criterion.keyword.text,
			ad_group_criterion.keyword.match_type,
			ad_group_criterion.status,
			ad_group_criterion.negative,
			ad_group.id,
			ad_group.name
		FROM ad_group_criterion
		WHERE %s
		ORDER BY ad_group_criterion.criterion_id
		LIMIT %d`, where, limit)
	return h.runSearch(ctx, "list_keywords", cid, query)
}

// AddKeywords adds keywords to an ad group as one batch. Partial failure is
// enabled, so valid keywords land even when some entries are rejected; the
// result reports each entry's fate by position.
func (h *Handler) AddKeywords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.addKeywordBatch(ctx, req, "add_keywords", false)
}

// AddNegativeKeywords adds negative keywords to an ad group as one batch.
func (h *Handler) AddNegativeKeywords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.addKeywordBatch(ctx, req, "add_negative_keywords", true)
}

func (h *Handler) addKeywordBatch(ctx context.Context, req mcp.CallToolRequest, tool string, negative bool) (*mcp.CallToolResult, error) {
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
	keywords := stringSlice(req, "keywords")
	if len(keywords) == 0 {
		return mcp.NewToolResultError("keywords must be a non-empty array of strings"), nil
	}

	matchType := strings.ToUpper(req.GetString("match_type", "BROAD"))
	if !validMatchTypes[matchType] {
		return mcp.NewToolResultError(fmt.Sprintf("invalid match_type %q: must be EXACT, PHRASE, or BROAD", matchType)), nil
	}

	ops := make([]map[string]any, 0, len(keywords))
	for _, kw := range keywords {
		create := map[string]any{
			"adGroup": fmt.Sprintf("customers/%s/adGroups/%s", cid, adGroupID),
			"status":  "ENABLED",
			"keyword": map[string]any{
				"text":      kw,
				"matchType": matchType,
			},
		}
		if negative {
			create["negative"] = true
		}
		ops = append(ops, map[string]any{
			"adGroupCriterionOperation": map[string]any{"create": create},
		})
	}

	items, err := rawItems(ops)
	if err != nil {
		return nil, err
	}

	return h.runMutate(ctx, tool, domain.Operation{
		Kind:       domain.OperationBatchMutate,
		CustomerID: cid,
		Resource:   "ad_group_criterion",
		Items:      items,
	})
}

// UpdateKeyword changes a keyword criterion's status or bid.
func (h *Handler) UpdateKeyword(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	adGroupID, err := req.RequireString("ad_group_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	criterionID, err := req.RequireString("criterion_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := validNumericID("ad_group_id", adGroupID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := validNumericID("criterion_id", criterionID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	update := map[string]any{
		"resourceName": fmt.Sprintf("customers/%s/adGroupCriteria/%s~%s", cid, adGroupID, criterionID),
	}
	var mask []string
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
		return mcp.NewToolResultError("nothing to update: provide status or cpc_bid_micros"), nil
	}

	items, err := rawItems([]map[string]any{
		{
			"adGroupCriterionOperation": map[string]any{
				"update":     update,
				"updateMask": strings.Join(mask, ","),
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return h.runMutate(ctx, "update_keyword", domain.Operation{
		Kind:       domain.OperationMutate,
		CustomerID: cid,
		Resource:   "ad_group_criterion",
		Items:      items,
	})
}
