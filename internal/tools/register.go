package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// customerIDParam is shared by every tool that targets an account.
func customerIDParam() mcp.ToolOption {
	return mcp.WithString("customer_id",
		mcp.Description("Target customer ID (10 digits, dashes allowed). Falls back to the configured default."))
}

func limitParam(def float64) mcp.ToolOption {
	return mcp.WithNumber("limit",
		mcp.Description("Maximum number of rows to return."),
		mcp.DefaultNumber(def))
}

func dateRangeParam() mcp.ToolOption {
	return mcp.WithString("date_range",
		mcp.Description("Named date range: TODAY, YESTERDAY, LAST_7_DAYS, LAST_14_DAYS, LAST_30_DAYS, THIS_MONTH, LAST_MONTH. Defaults to LAST_30_DAYS."))
}

// Register wires every tool onto the MCP server.
func Register(s *server.MCPServer, h *Handler) {
	// Accounts
	s.AddTool(mcp.NewTool("list_accounts",
		mcp.WithDescription("List all Google Ads accounts accessible with the current credentials."),
	), h.ListAccounts)

	s.AddTool(mcp.NewTool("get_account_info",
		mcp.WithDescription("Get descriptive details for one account: name, currency, time zone."),
		customerIDParam(),
	), h.GetAccountInfo)

	s.AddTool(mcp.NewTool("get_account_hierarchy",
		mcp.WithDescription("Walk the account hierarchy: managed client accounts by level."),
		customerIDParam(),
	), h.GetAccountHierarchy)

	// Reporting
	s.AddTool(mcp.NewTool("run_gaql_query",
		mcp.WithDescription("Execute an arbitrary GAQL (Google Ads Query Language) SELECT query."),
		customerIDParam(),
		mcp.WithString("query", mcp.Required(),
			mcp.Description("The GAQL query, e.g. SELECT campaign.name FROM campaign.")),
	), h.RunGAQLQuery)

	s.AddTool(mcp.NewTool("get_campaign_performance",
		mcp.WithDescription("Campaign metrics (impressions, clicks, cost, conversions) over a date range."),
		customerIDParam(), dateRangeParam(), limitParam(50),
	), h.GetCampaignPerformance)

	s.AddTool(mcp.NewTool("get_keyword_performance",
		mcp.WithDescription("Keyword metrics over a date range, optionally scoped to one campaign."),
		customerIDParam(), dateRangeParam(), limitParam(50),
		mcp.WithString("campaign_id", mcp.Description("Restrict to one campaign.")),
	), h.GetKeywordPerformance)

	s.AddTool(mcp.NewTool("get_search_terms_report",
		mcp.WithDescription("The actual search queries that triggered ads, with metrics."),
		customerIDParam(), dateRangeParam(), limitParam(50),
		mcp.WithString("campaign_id", mcp.Description("Restrict to one campaign.")),
	), h.GetSearchTermsReport)

	s.AddTool(mcp.NewTool("get_ad_performance",
		mcp.WithDescription("Per-ad metrics over a date range."),
		customerIDParam(), dateRangeParam(), limitParam(50),
	), h.GetAdPerformance)

	// Campaigns
	s.AddTool(mcp.NewTool("list_campaigns",
		mcp.WithDescription("List campaigns with status, channel type, and budget."),
		customerIDParam(), limitParam(50),
		mcp.WithString("status", mcp.Description("Filter by status: ENABLED, PAUSED, REMOVED.")),
	), h.ListCampaigns)

	s.AddTool(mcp.NewTool("get_campaign",
		mcp.WithDescription("Get one campaign's full settings by ID."),
		customerIDParam(),
		mcp.WithString("campaign_id", mcp.Required(), mcp.Description("Numeric campaign ID.")),
	), h.GetCampaign)

	s.AddTool(mcp.NewTool("create_campaign",
		mcp.WithDescription("Create a new search campaign with its budget. The campaign starts PAUSED."),
		customerIDParam(),
		mcp.WithString("name", mcp.Required(), mcp.Description("Campaign name, must be unique in the account.")),
		mcp.WithNumber("budget_micros", mcp.Required(),
			mcp.Description("Daily budget in micros (1000000 = one currency unit).")),
		mcp.WithString("channel_type",
			mcp.Description("Advertising channel: SEARCH (default), DISPLAY, SHOPPING.")),
	), h.CreateCampaign)

	s.AddTool(mcp.NewTool("update_campaign",
		mcp.WithDescription("Update a campaign's name or status."),
		customerIDParam(),
		mcp.WithString("campaign_id", mcp.Required(), mcp.Description("Numeric campaign ID.")),
		mcp.WithString("name", mcp.Description("New campaign name.")),
		mcp.WithString("status", mcp.Description("New status: ENABLED, PAUSED.")),
	), h.UpdateCampaign)

	s.AddTool(mcp.NewTool("pause_campaign",
		mcp.WithDescription("Pause a campaign."),
		customerIDParam(),
		mcp.WithString("campaign_id", mcp.Required(), mcp.Description("Numeric campaign ID.")),
	), h.PauseCampaign)

	s.AddTool(mcp.NewTool("resume_campaign",
		mcp.WithDescription("Resume (enable) a paused campaign."),
		customerIDParam(),
		mcp.WithString("campaign_id", mcp.Required(), mcp.Description("Numeric campaign ID.")),
	), h.ResumeCampaign)

	// Budgets
	s.AddTool(mcp.NewTool("list_budgets",
		mcp.WithDescription("List campaign budgets."),
		customerIDParam(), limitParam(50),
	), h.ListBudgets)

	s.AddTool(mcp.NewTool("create_budget",
		mcp.WithDescription("Create a standalone campaign budget."),
		customerIDParam(),
		mcp.WithString("name", mcp.Required(), mcp.Description("Budget name.")),
		mcp.WithNumber("amount_micros", mcp.Required(),
			mcp.Description("Daily amount in micros (1000000 = one currency unit).")),
		mcp.WithBoolean("shared", mcp.Description("Whether the budget can be shared across campaigns.")),
	), h.CreateBudget)

	s.AddTool(mcp.NewTool("update_budget",
		mcp.WithDescription("Update a budget's amount or name."),
		customerIDParam(),
		mcp.WithString("budget_id", mcp.Required(), mcp.Description("Numeric budget ID.")),
		mcp.WithNumber("amount_micros", mcp.Description("New daily amount in micros.")),
		mcp.WithString("name", mcp.Description("New budget name.")),
	), h.UpdateBudget)

	// Ad groups
	s.AddTool(mcp.NewTool("list_ad_groups",
		mcp.WithDescription("List ad groups, optionally scoped to one campaign."),
		customerIDParam(), limitParam(50),
		mcp.WithString("campaign_id", mcp.Description("Restrict to one campaign.")),
	), h.ListAdGroups)

	s.AddTool(mcp.NewTool("create_ad_group",
		mcp.WithDescription("Create a paused ad group under a campaign."),
		customerIDParam(),
		mcp.WithString("name", mcp.Required(), mcp.Description("Ad group name.")),
		mcp.WithString("campaign_id", mcp.Required(), mcp.Description("Parent campaign ID.")),
		mcp.WithNumber("cpc_bid_micros", mcp.Description("Default CPC bid in micros.")),
	), h.CreateAdGroup)

	s.AddTool(mcp.NewTool("update_ad_group",
		mcp.WithDescription("Update an ad group's name, status, or default bid."),
		customerIDParam(),
		mcp.WithString("ad_group_id", mcp.Required(), mcp.Description("Numeric ad group ID.")),
		mcp.WithString("name", mcp.Description("New ad group name.")),
		mcp.WithString("status", mcp.Description("New status: ENABLED, PAUSED.")),
		mcp.WithNumber("cpc_bid_micros", mcp.Description("New default CPC bid in micros.")),
	), h.UpdateAdGroup)

	// Ads
	s.AddTool(mcp.NewTool("list_ads",
		mcp.WithDescription("List ads, optionally scoped to one ad group."),
		customerIDParam(), limitParam(50),
		mcp.WithString("ad_group_id", mcp.Description("Restrict to one ad group.")),
	), h.ListAds)

	s.AddTool(mcp.NewTool("create_responsive_search_ad",
		mcp.WithDescription("Create a paused responsive search ad (min 3 headlines, 2 descriptions)."),
		customerIDParam(),
		mcp.WithString("ad_group_id", mcp.Required(), mcp.Description("Parent ad group ID.")),
		mcp.WithString("final_url", mcp.Required(), mcp.Description("Landing page URL.")),
		mcp.WithArray("headlines", mcp.Required(),
			mcp.Description("3-15 headlines, max 30 characters each."),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithArray("descriptions", mcp.Required(),
			mcp.Description("2-4 descriptions, max 90 characters each."),
			mcp.Items(map[string]any{"type": "string"})),
	), h.CreateResponsiveSearchAd)

	s.AddTool(mcp.NewTool("pause_ad",
		mcp.WithDescription("Pause an ad."),
		customerIDParam(),
		mcp.WithString("ad_group_id", mcp.Required(), mcp.Description("Parent ad group ID.")),
		mcp.WithString("ad_id", mcp.Required(), mcp.Description("Numeric ad ID.")),
	), h.PauseAd)

	s.AddTool(mcp.NewTool("resume_ad",
		mcp.WithDescription("Resume (enable) a paused ad."),
		customerIDParam(),
		mcp.WithString("ad_group_id", mcp.Required(), mcp.Description("Parent ad group ID.")),
		mcp.WithString("ad_id", mcp.Required(), mcp.Description("Numeric ad ID.")),
	), h.ResumeAd)

	// Keywords
	s.AddTool(mcp.NewTool("list_keywords",
		mcp.WithDescription("List keyword criteria, optionally scoped to one ad group."),
		customerIDParam(), limitParam(100),
		mcp.WithString("ad_group_id", mcp.Description("Restrict to one ad group.")),
	), h.ListKeywords)

	s.AddTool(mcp.NewTool("add_keywords",
		mcp.WithDescription("Add keywords to an ad group in one batch. Valid entries land even if some are rejected; the result reports each entry by position."),
		customerIDParam(),
		mcp.WithString("ad_group_id", mcp.Required(), mcp.Description("Target ad group ID.")),
		mcp.WithArray("keywords", mcp.Required(),
			mcp.Description("Keyword texts to add."),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("match_type", mcp.Description("EXACT, PHRASE, or BROAD (default).")),
	), h.AddKeywords)

	s.AddTool(mcp.NewTool("add_negative_keywords",
		mcp.WithDescription("Add negative keywords to an ad group in one batch."),
		customerIDParam(),
		mcp.WithString("ad_group_id", mcp.Required(), mcp.Description("Target ad group ID.")),
		mcp.WithArray("keywords", mcp.Required(),
			mcp.Description("Keyword texts to exclude."),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("match_type", mcp.Description("EXACT, PHRASE, or BROAD (default).")),
	), h.AddNegativeKeywords)

	s.AddTool(mcp.NewTool("update_keyword",
		mcp.WithDescription("Update a keyword's status or bid."),
		customerIDParam(),
		mcp.WithString("ad_group_id", mcp.Required(), mcp.Description("Parent ad group ID.")),
		mcp.WithString("criterion_id", mcp.Required(), mcp.Description("Numeric criterion ID.")),
		mcp.WithString("status", mcp.Description("New status: ENABLED, PAUSED.")),
		mcp.WithNumber("cpc_bid_micros", mcp.Description("New CPC bid in micros.")),
	), h.UpdateKeyword)

	// Assets
	s.AddTool(mcp.NewTool("list_assets",
		mcp.WithDescription("List assets, optionally filtered by type."),
		customerIDParam(), limitParam(50),
		mcp.WithString("asset_type", mcp.Description("Filter by type, e.g. IMAGE, TEXT.")),
	), h.ListAssets)

	s.AddTool(mcp.NewTool("upload_image_asset",
		mcp.WithDescription("Upload an image as a reusable asset."),
		customerIDParam(),
		mcp.WithString("name", mcp.Required(), mcp.Description("Asset name.")),
		mcp.WithString("image_data", mcp.Required(), mcp.Description("Base64-encoded image bytes.")),
	), h.UploadImageAsset)

	s.AddTool(mcp.NewTool("upload_text_asset",
		mcp.WithDescription("Create a reusable text asset."),
		customerIDParam(),
		mcp.WithString("name", mcp.Required(), mcp.Description("Asset name.")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Asset text.")),
	), h.UploadTextAsset)

	// Extensions
	s.AddTool(mcp.NewTool("list_extensions",
		mcp.WithDescription("List sitelink, callout, and call extensions linked to campaigns."),
		customerIDParam(), limitParam(50),
		mcp.WithString("campaign_id", mcp.Description("Restrict to one campaign.")),
	), h.ListExtensions)

	s.AddTool(mcp.NewTool("create_sitelink_extensions",
		mcp.WithDescription("Create sitelink assets and attach them to a campaign."),
		customerIDParam(),
		mcp.WithString("campaign_id", mcp.Required(), mcp.Description("Target campaign ID.")),
		mcp.WithArray("sitelinks", mcp.Required(),
			mcp.Description("Sitelinks to create: objects with text, url, and optional description1/description2."),
			mcp.Items(map[string]any{"type": "object"})),
	), h.CreateSitelinkExtensions)

	s.AddTool(mcp.NewTool("create_callout_extensions",
		mcp.WithDescription("Create callout assets and attach them to a campaign."),
		customerIDParam(),
		mcp.WithString("campaign_id", mcp.Required(), mcp.Description("Target campaign ID.")),
		mcp.WithArray("callouts", mcp.Required(),
			mcp.Description("Callout texts, max 25 characters each."),
			mcp.Items(map[string]any{"type": "string"})),
	), h.CreateCalloutExtensions)

	s.AddTool(mcp.NewTool("create_call_extension",
		mcp.WithDescription("Create a call asset and attach it to a campaign."),
		customerIDParam(),
		mcp.WithString("campaign_id", mcp.Required(), mcp.Description("Target campaign ID.")),
		mcp.WithString("phone_number", mcp.Required(), mcp.Description("Phone number to show with ads.")),
		mcp.WithString("country_code", mcp.Description("Two-letter country code, default US.")),
	), h.CreateCallExtension)

	s.AddTool(mcp.NewTool("remove_extension",
		mcp.WithDescription("Detach an extension asset from a campaign. The asset stays in the account."),
		customerIDParam(),
		mcp.WithString("campaign_id", mcp.Required(), mcp.Description("Campaign the asset is linked to.")),
		mcp.WithString("asset_id", mcp.Required(), mcp.Description("Numeric asset ID.")),
		mcp.WithString("field_type", mcp.Required(), mcp.Description("Link type: SITELINK, CALLOUT, or CALL.")),
	), h.RemoveExtension)
}
