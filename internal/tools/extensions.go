package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

var extensionFieldTypes = map[string]bool{
	"SITELINK": true,
	"CALLOUT":  true,
	"CALL":     true,
}

// objectSlice extracts a []map[string]any argument from the raw request
// arguments, skipping entries that are not objects.
func objectSlice(req mcp.CallToolRequest, key string) []map[string]any {
	raw, ok := req.GetArguments()[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// ListExtensions lists sitelink, callout, and call assets linked to
// campaigns.
func (h *Handler) ListExtensions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 50)

	where := "campaign_asset.field_type IN ('SITELINK', 'CALLOUT', 'CALL')"
	if campaignID := req.GetString("campaign_id", ""); campaignID != "" {
		if err := validNumericID("campaign_id", campaignID); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		where += fmt.Sprintf(" AND campaign.id = %s", campaignID)
	}

	query := fmt.Sprintf(`
		SELECT
			campaign_asset.resource_name,
			campaign_asset.field_type,
			campaign_asset.status,
			campaign.id,
			campaign.name,
			asset.id,
			asset.name,
			asset.sitelink_asset.link_text,
			asset.callout_asset.callout_text,
			asset.call_asset.phone_number
		FROM campaign_asset
		WHERE %s
		ORDER BY campaign.id
		LIMIT %d`, where, limit)
	return h.runSearch(ctx, "list_extensions", cid, query)
}

// CreateSitelinkExtensions creates sitelink assets and links them to a
// campaign in one atomic mutate, referencing the assets through temporary
// resource IDs.
func (h *Handler) CreateSitelinkExtensions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	sitelinks := objectSlice(req, "sitelinks")
	if len(sitelinks) == 0 {
		return mcp.NewToolResultError("sitelinks must be a non-empty array of {text, url} objects"), nil
	}

	ops := make([]map[string]any, 0, 2*len(sitelinks))
	links := make([]map[string]any, 0, len(sitelinks))
	for i, sl := range sitelinks {
		text, _ := sl["text"].(string)
		url, _ := sl["url"].(string)
		if text == "" || url == "" {
			return mcp.NewToolResultError(fmt.Sprintf("sitelink %d: text and url are required", i)), nil
		}
		desc1, _ := sl["description1"].(string)
		desc2, _ := sl["description2"].(string)

		sitelinkAsset := map[string]any{"linkText": text}
		if desc1 != "" {
			sitelinkAsset["description1"] = desc1
		}
		if desc2 != "" {
			sitelinkAsset["description2"] = desc2
		}

		temp := fmt.Sprintf("customers/%s/assets/-%d", cid, i+1)
		ops = append(ops, map[string]any{
			"assetOperation": map[string]any{
				"create": map[string]any{
					"resourceName":  temp,
					"name":          "Sitelink: " + text,
					"finalUrls":     []string{url},
					"sitelinkAsset": sitelinkAsset,
				},
			},
		})
		links = append(links, map[string]any{
			"campaignAssetOperation": map[string]any{
				"create": map[string]any{
					"campaign":  fmt.Sprintf("customers/%s/campaigns/%s", cid, campaignID),
					"asset":     temp,
					"fieldType": "SITELINK",
				},
			},
		})
	}
	ops = append(ops, links...)

	items, err := rawItems(ops)
	if err != nil {
		return nil, err
	}

	return h.runMutate(ctx, "create_sitelink_extensions", domain.Operation{
		Kind:       domain.OperationMutate,
		CustomerID: cid,
		Resource:   "asset",
		Items:      items,
	})
}

// CreateCalloutExtensions creates callout assets and links them to a
// campaign in one atomic mutate.
func (h *Handler) CreateCalloutExtensions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	callouts := stringSlice(req, "callouts")
	if len(callouts) == 0 {
		return mcp.NewToolResultError("callouts must be a non-empty array of strings"), nil
	}
	for _, c := range callouts {
		if len(c) > 25 {
			return mcp.NewToolResultError(fmt.Sprintf("callout exceeds 25 characters: %q", c)), nil
		}
	}

	ops := make([]map[string]any, 0, 2*len(callouts))
	links := make([]map[string]any, 0, len(callouts))
	for i, text := range callouts {
		temp := fmt.Sprintf("customers/%s/assets/-%d", cid, i+1)
		ops = append(ops, map[string]any{
			"assetOperation": map[string]any{
				"create": map[string]any{
					"resourceName": temp,
					"name":         "Callout: " + text,
					"calloutAsset": map[string]any{"calloutText": text},
				},
			},
		})
		links = append(links, map[string]any{
			"campaignAssetOperation": map[string]any{
				"create": map[string]any{
					"campaign":  fmt.Sprintf("customers/%s/campaigns/%s", cid, campaignID),
					"asset":     temp,
					"fieldType": "CALLOUT",
				},
			},
		})
	}
	ops = append(ops, links...)

	items, err := rawItems(ops)
	if err != nil {
		return nil, err
	}

	return h.runMutate(ctx, "create_callout_extensions", domain.Operation{
		Kind:       domain.OperationMutate,
		CustomerID: cid,
		Resource:   "asset",
		Items:      items,
	})
}

// CreateCallExtension creates a call asset and links it to a campaign.
func (h *Handler) CreateCallExtension(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	phoneNumber, err := req.RequireString("phone_number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	countryCode := strings.ToUpper(req.GetString("country_code", "US"))

	temp := fmt.Sprintf("customers/%s/assets/-1", cid)
	items, err := rawItems([]map[string]any{
		{
			"assetOperation": map[string]any{
				"create": map[string]any{
					"resourceName": temp,
					"name":         "Call: " + phoneNumber,
					"callAsset": map[string]any{
						"countryCode": countryCode,
						"phoneNumber": phoneNumber,
					},
				},
			},
		},
		{
			"campaignAssetOperation": map[string]any{
				"create": map[string]any{
					"campaign":  fmt.Sprintf("customers/%s/campaigns/%s", cid, campaignID),
					"asset":     temp,
					"fieldType": "CALL",
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return h.runMutate(ctx, "create_call_extension", domain.Operation{
		Kind:       domain.OperationMutate,
		CustomerID: cid,
		Resource:   "asset",
		Items:      items,
	})
}

// RemoveExtension detaches an extension asset from a campaign. The asset
// itself stays in the account for reuse.
func (h *Handler) RemoveExtension(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	campaignID, err := req.RequireString("campaign_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	assetID, err := req.RequireString("asset_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := validNumericID("campaign_id", campaignID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := validNumericID("asset_id", assetID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fieldType := strings.ToUpper(req.GetString("field_type", ""))
	if !extensionFieldTypes[fieldType] {
		return mcp.NewToolResultError("field_type must be SITELINK, CALLOUT, or CALL"), nil
	}

	items, err := rawItems([]map[string]any{
		{
			"campaignAssetOperation": map[string]any{
				"remove": fmt.Sprintf("customers/%s/campaignAssets/%s~%s~%s", cid, campaignID, assetID, fieldType),
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return h.runMutate(ctx, "remove_extension", domain.Operation{
		Kind:       domain.OperationMutate,
		CustomerID: cid,
		Resource:   "campaign_asset",
		Items:      items,
	})
}
