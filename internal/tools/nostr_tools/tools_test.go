package nostr_tools

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/flothjl/usaspending-mcp/internal/instrumentation"
	"github.com/flothjl/usaspending-mcp/internal/nostr"
	"github.com/flothjl/usaspending-mcp/internal/server"
)

// TestRegisterNostrTools tests the registration of Nostr tools
func TestRegisterNostrTools(t *testing.T) {
	ctx := context.Background()
	serverContext, err := server.NewServerContext(ctx)
	if err != nil {
		t.Fatalf("Failed to create server context: %v", err)
	}
	defer serverContext.Shutdown()

	mcpSrv := mcpserver.NewMCPServer("test-server", "1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	if err := RegisterNostrTools(mcpSrv, serverContext); err != nil {
		t.Errorf("RegisterNostrTools() error = %v", err)
	}
}

// TestHandlePublishNoteValidation tests input validation for handlePublishNote
func TestHandlePublishNoteValidation(t *testing.T) {
	ctx := context.Background()
	serverContext, err := server.NewServerContext(ctx)
	if err != nil {
		t.Fatalf("Failed to create server context: %v", err)
	}
	defer serverContext.Shutdown()

	tests := []struct {
		name string
		args map[string]any
	}{
		{
			name: "missing note",
			args: map[string]any{},
		},
		{
			name: "empty note",
			args: map[string]any{
				"note": "",
			},
		},
		{
			name: "non-string note",
			args: map[string]any{
				"note": 42,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := mcp.CallToolRequest{
				Params: mcp.CallToolParams{
					Name:      "PublishNote",
					Arguments: tt.args,
				},
			}

			result, err := handlePublishNote(ctx, request, serverContext)

			if err != nil {
				t.Errorf("handlePublishNote() unexpected error = %v", err)
			}
			if result == nil {
				t.Fatal("handlePublishNote() returned nil result")
			}
			if !result.IsError {
				t.Error("handlePublishNote() expected error result for invalid input")
			}
		})
	}
}

// TestHandlePublishNoteNoPublisher tests handlePublishNote when no publisher is configured
func TestHandlePublishNoteNoPublisher(t *testing.T) {
	ctx := context.Background()
	serverContext, err := server.NewServerContext(ctx)
	if err != nil {
		t.Fatalf("Failed to create server context: %v", err)
	}
	defer serverContext.Shutdown()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "PublishNote",
			Arguments: map[string]any{
				"note": "hello",
			},
		},
	}

	result, err := handlePublishNote(ctx, request, serverContext)

	// Should not return an error, but result should indicate the missing publisher
	if err != nil {
		t.Errorf("handlePublishNote() unexpected error = %v", err)
	}
	if result == nil {
		t.Fatal("handlePublishNote() returned nil result")
	}
	if !result.IsError {
		t.Error("handlePublishNote() expected error result without a publisher")
	}
}

// TestHandlePublishNoteRelayFailure tests publish failure against an
// unreachable relay
func TestHandlePublishNoteRelayFailure(t *testing.T) {
	ctx := context.Background()

	// Port 1 is reserved and never listening, so the connect fails fast
	publisher, err := nostr.NewWithConfig(nostr.Config{
		Relays:  []string{"ws://127.0.0.1:1"},
		Timeout: 500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Failed to create publisher: %v", err)
	}

	serverContext, err := server.NewServerContext(ctx, server.WithNostrPublisher(publisher))
	if err != nil {
		t.Fatalf("Failed to create server context: %v", err)
	}
	defer serverContext.Shutdown()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "PublishNote",
			Arguments: map[string]any{
				"note": "hello",
			},
		},
	}

	result, err := handlePublishNote(ctx, request, serverContext)

	if err != nil {
		t.Errorf("handlePublishNote() unexpected error = %v", err)
	}
	if result == nil {
		t.Fatal("handlePublishNote() returned nil result")
	}
	if !result.IsError {
		t.Error("handlePublishNote() expected error result when every relay fails")
	}
}

// TestRecordPublish tests the publish metric helper code paths
func TestRecordPublish(t *testing.T) {
	ctx := context.Background()
	serverContext, err := server.NewServerContext(ctx)
	if err != nil {
		t.Fatalf("Failed to create server context: %v", err)
	}
	defer serverContext.Shutdown()

	// Without metrics the helper is a no-op
	recordPublish(ctx, serverContext, nil, nil, time.Millisecond)

	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := instrumentation.NewMetrics(meter, false)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	serverContext.SetMetrics(metrics)

	// Success path with accepted relays
	recordPublish(ctx, serverContext, &nostr.PublishResult{
		AcceptedRelays: []string{"wss://relay.example"},
	}, nil, time.Millisecond)

	// Failure path
	recordPublish(ctx, serverContext, nil, context.DeadlineExceeded, time.Millisecond)
}
