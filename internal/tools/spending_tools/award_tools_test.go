package spending_tools

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flothjl/usaspending-mcp/internal/server"
	"github.com/flothjl/usaspending-mcp/internal/usaspending"
)

// TestHandleAwardDetailValidation tests input validation for handleAwardDetail
func TestHandleAwardDetailValidation(t *testing.T) {
	ctx := context.Background()
	sc := newStubContext(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for invalid input")
	})

	tests := []struct {
		name string
		args map[string]any
	}{
		{
			name: "missing award id",
			args: map[string]any{},
		},
		{
			name: "empty award id",
			args: map[string]any{
				"generated_unique_award_id": "",
			},
		},
		{
			name: "non-string award id",
			args: map[string]any{
				"generated_unique_award_id": 42,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := mcp.CallToolRequest{
				Params: mcp.CallToolParams{
					Name:      "GetAwardInfoByAwardId",
					Arguments: tt.args,
				},
			}

			result, err := handleAwardDetail(ctx, request, sc)

			if err != nil {
				t.Errorf("handleAwardDetail() unexpected error = %v", err)
			}
			if result == nil {
				t.Fatal("handleAwardDetail() returned nil result")
			}
			if !result.IsError {
				t.Error("handleAwardDetail() expected error result for invalid input")
			}
		})
	}
}

// TestHandleAwardDetail tests the successful pass-through path
func TestHandleAwardDetail(t *testing.T) {
	ctx := context.Background()
	sc := newStubContext(t, func(w http.ResponseWriter, r *http.Request) {
		// The award id is the final path segment with a trailing slash
		if r.URL.Path != "/awards/CONT_AWD_X1/" {
			t.Errorf("unexpected upstream path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"generated_unique_award_id":"CONT_AWD_X1","description":"LAUNCH SERVICES"}`))
	})

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "GetAwardInfoByAwardId",
			Arguments: map[string]any{
				"generated_unique_award_id": "CONT_AWD_X1",
			},
		},
	}

	result, err := handleAwardDetail(ctx, request, sc)
	if err != nil {
		t.Fatalf("handleAwardDetail() unexpected error = %v", err)
	}
	if result.IsError {
		t.Fatalf("handleAwardDetail() returned error result: %v", resultText(t, result))
	}

	text := resultText(t, result)
	if !strings.Contains(text, "LAUNCH SERVICES") {
		t.Errorf("expected upstream payload in result, got %q", text)
	}
}

// TestHandleAwardDetailUpstreamError tests fail-loud reporting by default
func TestHandleAwardDetailUpstreamError(t *testing.T) {
	ctx := context.Background()
	sc := newStubContext(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "GetAwardInfoByAwardId",
			Arguments: map[string]any{
				"generated_unique_award_id": "CONT_AWD_MISSING",
			},
		},
	}

	result, err := handleAwardDetail(ctx, request, sc)
	if err != nil {
		t.Fatalf("handleAwardDetail() unexpected error = %v", err)
	}
	if !result.IsError {
		t.Fatal("handleAwardDetail() expected error result for upstream failure")
	}
	if !strings.Contains(resultText(t, result), "Failed to get award details") {
		t.Errorf("unexpected error text: %q", resultText(t, result))
	}
}

// TestHandleAwardDetailQuietPolicy tests the quiet-award configuration where
// upstream failures are reported as an absent record
func TestHandleAwardDetailQuietPolicy(t *testing.T) {
	ctx := context.Background()
	sc := newQuietStubContext(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "GetAwardInfoByAwardId",
			Arguments: map[string]any{
				"generated_unique_award_id": "CONT_AWD_MISSING",
			},
		},
	}

	result, err := handleAwardDetail(ctx, request, sc)
	if err != nil {
		t.Fatalf("handleAwardDetail() unexpected error = %v", err)
	}
	if result.IsError {
		t.Fatal("handleAwardDetail() expected absent-record result under quiet policy")
	}

	text := resultText(t, result)
	if !strings.Contains(text, "No award found for id: CONT_AWD_MISSING") {
		t.Errorf("unexpected quiet-policy text: %q", text)
	}
}

// newQuietStubContext is newStubContext with the quiet-award policy enabled.
func newQuietStubContext(t *testing.T, handler http.HandlerFunc) *server.ServerContext {
	t.Helper()

	client := usaspending.NewWithConfig(usaspending.Config{
		BaseURL:          newStubUpstream(t, handler) + "/",
		QuietAwardErrors: true,
	})

	sc, err := server.NewServerContext(context.Background(), server.WithSpendingClient(client))
	if err != nil {
		t.Fatalf("Failed to create server context: %v", err)
	}
	t.Cleanup(func() { sc.Shutdown() })

	return sc
}
