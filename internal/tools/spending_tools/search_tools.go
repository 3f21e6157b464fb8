package spending_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/flothjl/usaspending-mcp/internal/instrumentation"
	"github.com/flothjl/usaspending-mcp/internal/server"
	"github.com/flothjl/usaspending-mcp/internal/tools/common"
	"github.com/flothjl/usaspending-mcp/internal/usaspending"
)

// RegisterSearchTools registers keyword search tools with the MCP server
func RegisterSearchTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	searchTool := mcp.NewTool("SearchByKeywords",
		mcp.WithDescription("Search usaspending.gov for details of spending awards. You should only use this tool when you want to do a broad search for awards by keyword. Returns 20 results ordered by Award Amount."),
		mcp.WithArray("keywords",
			mcp.Required(),
			mcp.Description("Keywords to search awards for"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithNumber("year",
			mcp.Required(),
			mcp.Description("Calendar year to search within"),
		),
	)

	s.AddTool(searchTool, common.InstrumentedToolHandlerWithEndpoint(
		"SearchByKeywords", usaspending.EndpointKeywordSearch, instrumentation.OperationKeywordSearch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleKeywordSearch(ctx, request, sc)
		}))

	return nil
}

// handleKeywordSearch handles the SearchByKeywords tool
func handleKeywordSearch(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	keywordsVal, ok := args["keywords"].([]any)
	if !ok || len(keywordsVal) == 0 {
		return mcp.NewToolResultError("keywords is required"), nil
	}

	keywords := make([]string, 0, len(keywordsVal))
	for _, kv := range keywordsVal {
		keyword, ok := kv.(string)
		if !ok || keyword == "" {
			return mcp.NewToolResultError("keywords must be non-empty strings"), nil
		}
		keywords = append(keywords, keyword)
	}

	yearVal, ok := args["year"].(float64)
	if !ok || yearVal <= 0 {
		return mcp.NewToolResultError("year is required"), nil
	}

	client, err := getSpendingClient(sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results, err := client.SearchByKeywords(ctx, usaspending.KeywordSearchQuery{
		Keywords: keywords,
		Year:     int(yearVal),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search awards: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No awards found for keywords: %s", strings.Join(keywords, ", "))), nil
	}

	return jsonToolResult(results)
}
