package nostr_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/flothjl/usaspending-mcp/internal/instrumentation"
	"github.com/flothjl/usaspending-mcp/internal/nostr"
	"github.com/flothjl/usaspending-mcp/internal/server"
	"github.com/flothjl/usaspending-mcp/internal/tools/common"
)

// getPublisher returns the configured Nostr publisher
func getPublisher(sc *server.ServerContext) (*nostr.Publisher, error) {
	publisher := sc.Nostr()
	if publisher == nil {
		return nil, fmt.Errorf("no Nostr publisher configured. Start the server with --enable-nostr to use this tool")
	}
	return publisher, nil
}

// RegisterNostrTools registers all Nostr tools with the MCP server
func RegisterNostrTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	publishNoteTool := mcp.NewTool("PublishNote",
		mcp.WithDescription("Publish a Kind 1 Nostr note. The note is signed with a fresh single-use keypair and published to the configured relays."),
		mcp.WithString("note",
			mcp.Required(),
			mcp.Description("Note content"),
		),
	)

	s.AddTool(publishNoteTool, common.InstrumentedToolHandler(
		"PublishNote", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handlePublishNote(ctx, request, sc)
		}))

	return nil
}

// handlePublishNote handles the PublishNote tool
func handlePublishNote(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	note, ok := args["note"].(string)
	if !ok || note == "" {
		return mcp.NewToolResultError("note is required"), nil
	}

	publisher, err := getPublisher(sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start := time.Now()
	result, err := publishNote(ctx, publisher, note)
	recordPublish(ctx, sc, result, err, time.Since(start))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to publish note: %v", err)), nil
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to render response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// publishNote publishes the note inside a nostr.publish span. The span is
// tagged with the number of relays that accepted the event.
func publishNote(ctx context.Context, publisher *nostr.Publisher, note string) (*nostr.PublishResult, error) {
	ctx, span := instrumentation.StartSpan(ctx, "nostr.publish")
	defer span.End()

	result, err := publisher.Publish(ctx, note)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return result, err
	}
	if result != nil {
		span.SetAttributes(instrumentation.NewSpanAttributeBuilder().
			WithRelayCount(result.RelayCount()).
			Build()...)
	}
	instrumentation.SetSpanSuccess(span)
	return result, nil
}

// recordPublish records the publish-specific metric with the number of relays
// that accepted the event. The tool invocation metric is recorded by the
// instrumented handler wrapper.
func recordPublish(ctx context.Context, sc *server.ServerContext, result *nostr.PublishResult, err error, duration time.Duration) {
	metrics := sc.Metrics()
	if metrics == nil {
		return
	}

	status := instrumentation.StatusSuccess
	relays := 0
	if err != nil {
		status = instrumentation.StatusError
	} else if result != nil {
		relays = result.RelayCount()
	}
	metrics.RecordNostrPublish(ctx, status, relays, duration)
}
