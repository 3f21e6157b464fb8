package instrumentation

import "strings"

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics with request paths.

// EndpointLabel reduces a usaspending.gov API path to a bounded label.
// Paths that embed identifiers, such as awards/CONT_AWD_123/, collapse to
// their endpoint family so every award does not become its own metric series.
//
// Example:
//
//	EndpointLabel("spending/")                     // "spending"
//	EndpointLabel("awards/CONT_AWD_123/")          // "awards"
//	EndpointLabel("search/spending_by_award/")     // "spending_by_award"
//	EndpointLabel("references/toptier_agencies/")  // "toptier_agencies"
//	EndpointLabel("")                              // "unknown"
func EndpointLabel(path string) string {
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimPrefix(path, "api/v2/")
	path = strings.TrimPrefix(path, "references/")

	switch {
	case strings.HasPrefix(path, "search/spending_by_award"), strings.HasPrefix(path, "spending_by_award"):
		return EndpointAwardSearch
	case strings.HasPrefix(path, "spending"):
		return EndpointSpending
	case strings.HasPrefix(path, "awards"):
		return EndpointAwards
	case strings.HasPrefix(path, "toptier_agencies"):
		return EndpointAgencies
	}

	return "unknown"
}

// Operation names for usaspending.gov gateway and Nostr metrics.
// Status, Endpoint, and Exporter constants are defined in config.go.
const (
	OperationSpendingByAgency = "spending_by_agency"
	OperationAwardDetail      = "award_detail"
	OperationKeywordSearch    = "keyword_search"
	OperationListAgencies     = "list_agencies"
	OperationPublishNote      = "publish_note"
)
