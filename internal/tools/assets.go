package tools

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

// ListAssets lists assets by type.
func (h *Handler) ListAssets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 50)

	where := "asset.type != 'UNKNOWN'"
	if assetType := req.GetString("asset_type", ""); assetType != "" {
		where = fmt.Sprintf("asset.type = %s", QuoteGAQL(assetType))
	}

	query := fmt.Sprintf(`
		SELECT
			asset.id,
			asset.name,
			asset.type,
			asset.image_asset.full_size.url,
			asset.text_asset.text
		FROM asset
		WHERE %s
		ORDER BY asset.id
		LIMIT %d`, where, limit)
	return h.runSearch(ctx, "list_assets", cid, query)
}

// UploadImageAsset uploads image bytes as a reusable asset. The image is
// passed base64-encoded, matching how MCP clients carry binary payloads.
func (h *Handler) UploadImageAsset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := req.RequireString("image_data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		return mcp.NewToolResultError("image_data must be base64-encoded"), nil
	}

	items, err := rawItems([]map[string]any{
		{
			"assetOperation": map[string]any{
				"create": map[string]any{
					"name": name,
					"type": "IMAGE",
					"imageAsset": map[string]any{
						"data": data,
					},
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return h.runMutate(ctx, "upload_image_asset", domain.Operation{
		Kind:       domain.OperationMutate,
		CustomerID: cid,
		Resource:   "asset",
		Items:      items,
	})
}

// UploadTextAsset creates a reusable text asset.
func (h *Handler) UploadTextAsset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cid, err := h.customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	items, err := rawItems([]map[string]any{
		{
			"assetOperation": map[string]any{
				"create": map[string]any{
					"name": name,
					"type": "TEXT",
					"textAsset": map[string]any{
						"text": text,
					},
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return h.runMutate(ctx, "upload_text_asset", domain.Operation{
		Kind:       domain.OperationMutate,
		CustomerID: cid,
		Resource:   "asset",
		Items:      items,
	})
}
