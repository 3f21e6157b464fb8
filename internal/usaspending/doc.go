// Package usaspending is a typed gateway to the public usaspending.gov
// REST API (v2).
//
// The package exposes one Client with four operations, one per upstream
// endpoint:
//
//   - SpendingByAgency: POST spending/ (award summary per agency and fiscal year)
//   - AwardDetail:      GET awards/{id}/ (single award record)
//   - SearchByKeywords: POST search/spending_by_award/ (keyword search, typed results)
//   - TopTierAgencies:  GET references/toptier_agencies/ (agency reference list)
//
// # Request Execution
//
// Every operation performs exactly one upstream HTTP request using a fresh
// *http.Client obtained from the client's factory; no connection state is
// shared between calls and nothing is retried. Pass-through operations return
// the upstream JSON unchanged; SearchByKeywords projects the upstream results
// into KeywordSearchResult values.
//
// # Errors
//
// All failures surface as *Error with a machine-distinguishable Kind:
// validation (bad arguments, detected before any network I/O), status
// (non-2xx upstream response), transport (connection, timeout, DNS, or
// malformed response), and mapping (search result missing a required field).
//
//	results, err := client.SearchByKeywords(ctx, query)
//	if usaspending.IsKind(err, usaspending.KindStatus) {
//	    // upstream rejected the request
//	}
//
// The upstream API is public and keyless; no authentication is configured or
// supported.
package usaspending
