// Package mcpserver assembles the MCP surface: tool registration, resource
// handlers, and the stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/grantweston/google-ads-mcp-complete/internal/auth"
	"github.com/grantweston/google-ads-mcp-complete/internal/infra/gads"
	"github.com/grantweston/google-ads-mcp-complete/internal/tools"
)

// Server wraps the MCP server and its transport.
type Server struct {
	mcp   *server.MCPServer
	ads   *gads.Client
	creds *auth.Store
}

// New builds the MCP server and registers all tools and resources.
func New(version string, h *tools.Handler, ads *gads.Client, creds *auth.Store) *Server {
	s := server.NewMCPServer(
		"google-ads-mcp",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions(serverInstructions),
	)

	tools.Register(s, h)

	srv := &Server{mcp: s, ads: ads, creds: creds}
	srv.registerResources()
	return srv
}

// ServeStdio runs the MCP server over stdin/stdout until the client
// disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerResources() {
	s.mcp.AddResource(mcp.NewResource(
		"googleads://documentation",
		"Google Ads API Overview",
		mcp.WithResourceDescription("How this server talks to the Google Ads API and what the tools expect."),
		mcp.WithMIMEType("text/markdown"),
	), staticResource("googleads://documentation", documentationDoc))

	s.mcp.AddResource(mcp.NewResource(
		"googleads://error-codes",
		"Error Classification Reference",
		mcp.WithResourceDescription("How API failures are classified and which are retried."),
		mcp.WithMIMEType("text/markdown"),
	), staticResource("googleads://error-codes", errorCodesDoc))

	s.mcp.AddResource(mcp.NewResource(
		"googleads://gaql-reference",
		"GAQL Quick Reference",
		mcp.WithResourceDescription("Google Ads Query Language syntax and common queries."),
		mcp.WithMIMEType("text/markdown"),
	), staticResource("googleads://gaql-reference", gaqlReferenceDoc))

	s.mcp.AddResource(mcp.NewResource(
		"googleads://accounts",
		"Accessible Accounts",
		mcp.WithResourceDescription("Live list of customer accounts the credential can access."),
		mcp.WithMIMEType("application/json"),
	), s.readAccounts)
}

func staticResource(uri, text string) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "text/markdown",
				Text:     text,
			},
		}, nil
	}
}

func (s *Server) readAccounts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	cred, err := s.creds.Credential(ctx)
	if err != nil {
		return nil, fmt.Errorf("credential refresh failed: %w", err)
	}

	names, err := s.ads.ListAccessibleCustomers(ctx, cred.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	ids := make([]string, 0, len(names))
	for _, rn := range names {
		ids = append(ids, strings.TrimPrefix(rn, "customers/"))
	}

	payload, err := json.MarshalIndent(map[string]any{
		"count":        len(ids),
		"customer_ids": ids,
	}, "", "  ")
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "googleads://accounts",
			MIMEType: "application/json",
			Text:     string(payload),
		},
	}, nil
}
