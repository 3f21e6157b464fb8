// Package spending_tools provides MCP tools for querying usaspending.gov.
//
// This package exposes federal award spending data through the Model Context
// Protocol (MCP), allowing AI agents to look up government spending. It wraps
// the usaspending gateway package and provides the following tools:
//
//   - GetSpendingAwardsByAgencyId: Award spending summary for one agency and fiscal year
//   - GetAwardInfoByAwardId: Full award record for one generated unique award id
//   - SearchByKeywords: Broad keyword search over prime award contracts
//   - GetAgencies: List of all toptier US federal agencies and their codes
//
// Responses are the upstream JSON, indented; the keyword search tool projects
// its results into stable snake_case fields first.
//
// Example MCP tool call:
//
//	{
//	  "tool": "SearchByKeywords",
//	  "arguments": {
//	    "keywords": ["space launch"],
//	    "year": 2023
//	  }
//	}
package spending_tools
