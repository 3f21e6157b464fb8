package spending_tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/flothjl/usaspending-mcp/internal/server"
	"github.com/flothjl/usaspending-mcp/internal/usaspending"
)

// getSpendingClient returns the configured usaspending gateway client
func getSpendingClient(sc *server.ServerContext) (*usaspending.Client, error) {
	client := sc.Spending()
	if client == nil {
		return nil, fmt.Errorf("no usaspending client configured")
	}
	return client, nil
}

// jsonToolResult renders v as indented JSON for the tool response
func jsonToolResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to render response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// RegisterSpendingTools registers all usaspending.gov tools with the MCP server
func RegisterSpendingTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Register agency tools (spending summary and agency reference)
	if err := RegisterAgencyTools(s, sc); err != nil {
		return fmt.Errorf("failed to register agency tools: %w", err)
	}

	// Register award tools (single award lookups)
	if err := RegisterAwardTools(s, sc); err != nil {
		return fmt.Errorf("failed to register award tools: %w", err)
	}

	// Register search tools (keyword search)
	if err := RegisterSearchTools(s, sc); err != nil {
		return fmt.Errorf("failed to register search tools: %w", err)
	}

	return nil
}
