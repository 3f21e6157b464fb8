package spending_tools

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

// TestHandleSpendingByAgencyValidation tests input validation for handleSpendingByAgency
func TestHandleSpendingByAgencyValidation(t *testing.T) {
	ctx := context.Background()
	sc := newStubContext(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for invalid input")
	})

	tests := []struct {
		name string
		args map[string]any
	}{
		{
			name: "missing year",
			args: map[string]any{
				"agency_id": "012",
			},
		},
		{
			name: "empty year",
			args: map[string]any{
				"year":      "",
				"agency_id": "012",
			},
		},
		{
			name: "missing agency_id",
			args: map[string]any{
				"year": "2024",
			},
		},
		{
			name: "empty agency_id",
			args: map[string]any{
				"year":      "2024",
				"agency_id": "",
			},
		},
		{
			name: "non-string year",
			args: map[string]any{
				"year":      2024,
				"agency_id": "012",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := mcp.CallToolRequest{
				Params: mcp.CallToolParams{
					Name:      "GetSpendingAwardsByAgencyId",
					Arguments: tt.args,
				},
			}

			result, err := handleSpendingByAgency(ctx, request, sc)

			if err != nil {
				t.Errorf("handleSpendingByAgency() unexpected error = %v", err)
			}
			if result == nil {
				t.Fatal("handleSpendingByAgency() returned nil result")
			}
			if !result.IsError {
				t.Error("handleSpendingByAgency() expected error result for invalid input")
			}
		})
	}
}

// TestHandleSpendingByAgency tests the successful pass-through path
func TestHandleSpendingByAgency(t *testing.T) {
	ctx := context.Background()

	var gotBody map[string]any
	sc := newStubContext(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/spending/" {
			t.Errorf("unexpected upstream request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"name":"National Aeronautics and Space Administration","amount":1000000}]}`))
	})

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "GetSpendingAwardsByAgencyId",
			Arguments: map[string]any{
				"year":      "2024",
				"agency_id": "073",
			},
		},
	}

	result, err := handleSpendingByAgency(ctx, request, sc)
	if err != nil {
		t.Fatalf("handleSpendingByAgency() unexpected error = %v", err)
	}
	if result.IsError {
		t.Fatalf("handleSpendingByAgency() returned error result: %v", resultText(t, result))
	}

	text := resultText(t, result)
	if !strings.Contains(text, "National Aeronautics and Space Administration") {
		t.Errorf("expected upstream payload in result, got %q", text)
	}

	// The upstream body carries the fiscal year and agency filter verbatim
	filters, ok := gotBody["filters"].(map[string]any)
	if !ok {
		t.Fatalf("expected filters object in request body, got %v", gotBody)
	}
	if filters["fy"] != "2024" || filters["agency"] != "073" || filters["period"] != "12" {
		t.Errorf("unexpected filters in request body: %v", filters)
	}
}

// TestHandleSpendingByAgencyUpstreamError tests upstream failure reporting
func TestHandleSpendingByAgencyUpstreamError(t *testing.T) {
	ctx := context.Background()
	sc := newStubContext(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "GetSpendingAwardsByAgencyId",
			Arguments: map[string]any{
				"year":      "2024",
				"agency_id": "073",
			},
		},
	}

	result, err := handleSpendingByAgency(ctx, request, sc)
	if err != nil {
		t.Fatalf("handleSpendingByAgency() unexpected error = %v", err)
	}
	if !result.IsError {
		t.Fatal("handleSpendingByAgency() expected error result for upstream failure")
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Failed to get spending awards") {
		t.Errorf("unexpected error text: %q", text)
	}
	if !strings.Contains(text, "502") {
		t.Errorf("expected upstream status code in error text, got %q", text)
	}
}

// TestHandleListAgencies tests the agency reference pass-through
func TestHandleListAgencies(t *testing.T) {
	ctx := context.Background()
	sc := newStubContext(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/references/toptier_agencies/" {
			t.Errorf("unexpected upstream request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"agency_id":73,"toptier_code":"097","abbreviation":"DOD","agency_name":"Department of Defense"}]}`))
	})

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "GetAgencies",
			Arguments: map[string]any{},
		},
	}

	result, err := handleListAgencies(ctx, request, sc)
	if err != nil {
		t.Fatalf("handleListAgencies() unexpected error = %v", err)
	}
	if result.IsError {
		t.Fatalf("handleListAgencies() returned error result: %v", resultText(t, result))
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Department of Defense") {
		t.Errorf("expected upstream payload in result, got %q", text)
	}
	if !strings.Contains(text, `"toptier_code": "097"`) {
		t.Errorf("expected indented upstream fields in result, got %q", text)
	}
}

// TestHandleListAgenciesUpstreamError tests upstream failure reporting
func TestHandleListAgenciesUpstreamError(t *testing.T) {
	ctx := context.Background()
	sc := newStubContext(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "GetAgencies",
			Arguments: map[string]any{},
		},
	}

	result, err := handleListAgencies(ctx, request, sc)
	if err != nil {
		t.Fatalf("handleListAgencies() unexpected error = %v", err)
	}
	if !result.IsError {
		t.Fatal("handleListAgencies() expected error result for upstream failure")
	}
	if !strings.Contains(resultText(t, result), "Failed to list agencies") {
		t.Errorf("unexpected error text: %q", resultText(t, result))
	}
}
