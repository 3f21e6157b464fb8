package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/flothjl/usaspending-mcp/internal/server"
	"github.com/flothjl/usaspending-mcp/internal/usaspending"
)

// RegisterAPIResources registers read-only resources describing the upstream
// API surface and the running server
func RegisterAPIResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Register endpoint catalogue resource
	endpointsResource := mcp.NewResource(
		"usaspending://endpoints",
		"USAspending API Endpoints",
		mcp.WithResourceDescription("Catalogue of the usaspending.gov endpoints this server proxies"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(endpointsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleEndpointCatalog(ctx, request, sc)
	})

	// Register server info resource
	infoResource := mcp.NewResource(
		"usaspending://server/info",
		"Server Info",
		mcp.WithResourceDescription("Server name, version, upstream base URL, and enabled capabilities"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(infoResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleServerInfo(ctx, request, sc)
	})

	return nil
}

// handleEndpointCatalog returns the upstream endpoints behind each tool
func handleEndpointCatalog(_ context.Context, request mcp.ReadResourceRequest, _ *server.ServerContext) ([]mcp.ResourceContents, error) {
	catalogData := []map[string]any{
		{
			"tool":   "GetSpendingAwardsByAgencyId",
			"method": http.MethodPost,
			"path":   usaspending.EndpointSpending,
		},
		{
			"tool":   "GetAwardInfoByAwardId",
			"method": http.MethodGet,
			"path":   usaspending.EndpointAwards + "{generated_unique_award_id}/",
		},
		{
			"tool":   "SearchByKeywords",
			"method": http.MethodPost,
			"path":   usaspending.EndpointKeywordSearch,
		},
		{
			"tool":   "GetAgencies",
			"method": http.MethodGet,
			"path":   usaspending.EndpointTopTierAgencies,
		},
	}

	jsonData, err := json.MarshalIndent(catalogData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal endpoint catalogue: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleServerInfo returns runtime information about this server
func handleServerInfo(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	baseURL := usaspending.DefaultBaseURL
	if client := sc.Spending(); client != nil {
		baseURL = client.BaseURL()
	}

	infoData := map[string]any{
		"name":            "usaspending",
		"version":         sc.Version(),
		"upstreamBaseUrl": baseURL,
		"capabilities": map[string]bool{
			"spending": sc.Spending() != nil,
			"nostr":    sc.Nostr() != nil,
		},
		"description": "MCP gateway for the usaspending.gov award data API",
	}

	jsonData, err := json.MarshalIndent(infoData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal server info: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
