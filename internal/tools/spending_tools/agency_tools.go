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

// RegisterAgencyTools registers agency-level spending tools with the MCP server
func RegisterAgencyTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Spending awards by agency and fiscal year
	spendingByAgencyTool := mcp.NewTool("GetSpendingAwardsByAgencyId",
		mcp.WithDescription("Get government spending awards from usaspending.gov for a fiscal year for a given agency id. Use this tool when you have an agency id and want to get awards for a given year."),
		mcp.WithString("year",
			mcp.Required(),
			mcp.Description("Fiscal year for which you want data"),
		),
		mcp.WithString("agency_id",
			mcp.Required(),
			mcp.Description("Toptier agency code"),
		),
	)

	s.AddTool(spendingByAgencyTool, common.InstrumentedToolHandlerWithEndpoint(
		"GetSpendingAwardsByAgencyId", usaspending.EndpointSpending, instrumentation.OperationSpendingByAgency, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSpendingByAgency(ctx, request, sc)
		}))

	// Toptier agency reference list
	listAgenciesTool := mcp.NewTool("GetAgencies",
		mcp.WithDescription("Get US agencies and their ids and codes. Use this when you want to get a list of all the US agencies and their metadata."),
	)

	s.AddTool(listAgenciesTool, common.InstrumentedToolHandlerWithEndpoint(
		"GetAgencies", usaspending.EndpointTopTierAgencies, instrumentation.OperationListAgencies, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListAgencies(ctx, request, sc)
		}))

	return nil
}

// handleSpendingByAgency handles the GetSpendingAwardsByAgencyId tool
func handleSpendingByAgency(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	year, ok := args["year"].(string)
	if !ok || year == "" {
		return mcp.NewToolResultError("year is required"), nil
	}

	agencyID, ok := args["agency_id"].(string)
	if !ok || agencyID == "" {
		return mcp.NewToolResultError("agency_id is required"), nil
	}

	client, err := getSpendingClient(sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	spending, err := client.SpendingByAgency(ctx, usaspending.AwardsByAgencyQuery{
		Year:     year,
		AgencyID: agencyID,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get spending awards: %v", err)), nil
	}

	return jsonToolResult(spending)
}

// handleListAgencies handles the GetAgencies tool
func handleListAgencies(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, err := getSpendingClient(sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	agencies, err := client.TopTierAgencies(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list agencies: %v", err)), nil
	}

	return jsonToolResult(agencies)
}
