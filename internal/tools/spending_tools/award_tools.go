package spending_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/flothjl/usaspending-mcp/internal/instrumentation"
	"github.com/flothjl/usaspending-mcp/internal/server"
	"github.com/flothjl/usaspending-mcp/internal/tools/common"
	"github.com/flothjl/usaspending-mcp/internal/usaspending"
)

// RegisterAwardTools registers single-award lookup tools with the MCP server
func RegisterAwardTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	awardDetailTool := mcp.NewTool("GetAwardInfoByAwardId",
		mcp.WithDescription("Get award details for a given award id from usaspending.gov. Use this when you have a generated award id from another tool and want to get details on that specific award. Only use this with award IDs; generally these award IDs will come from GetSpendingAwardsByAgencyId."),
		mcp.WithString("generated_unique_award_id",
			mcp.Required(),
			mcp.Description("The unique id associated to the award"),
		),
	)

	s.AddTool(awardDetailTool, common.InstrumentedToolHandlerWithEndpoint(
		"GetAwardInfoByAwardId", usaspending.EndpointAwards, instrumentation.OperationAwardDetail, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAwardDetail(ctx, request, sc)
		}))

	return nil
}

// handleAwardDetail handles the GetAwardInfoByAwardId tool
func handleAwardDetail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	awardID, ok := args["generated_unique_award_id"].(string)
	if !ok || awardID == "" {
		return mcp.NewToolResultError("generated_unique_award_id is required"), nil
	}

	client, err := getSpendingClient(sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	award, err := client.AwardDetail(ctx, usaspending.AwardDetailQuery{
		GeneratedUniqueAwardID: awardID,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get award details: %v", err)), nil
	}

	// Under the quiet-award policy an upstream failure is reported as an
	// absent record rather than an error
	if award == nil {
		return mcp.NewToolResultText(fmt.Sprintf("No award found for id: %s", awardID)), nil
	}

	return jsonToolResult(award)
}
