package common

import (
	"encoding/json"
	"strconv"
)

// GetAwardIDFromArgs extracts the award identifier from request arguments.
// Tools that operate on a single award accept the identifier under
// "generated_unique_award_id"; "award_id" is accepted as a shorthand. The
// identifier is used for detailed metric labels when those are enabled.
//
// Priority order:
//  1. Explicit "generated_unique_award_id" argument
//  2. Explicit "award_id" argument
//  3. Empty string (no award context)
func GetAwardIDFromArgs(args map[string]any) string {
	if awardVal, ok := args["generated_unique_award_id"].(string); ok && awardVal != "" {
		return awardVal
	}
	if awardVal, ok := args["award_id"].(string); ok && awardVal != "" {
		return awardVal
	}
	return ""
}

// GetYearFromArgs extracts the year scoping a spending query. Tools accept
// it under "year", either as a string (agency spending takes a fiscal year)
// or as a number (keyword search takes a calendar year, which JSON decoding
// surfaces as float64). The year tags spans, never metric labels.
func GetYearFromArgs(args map[string]any) string {
	if year, ok := args["year"].(string); ok && year != "" {
		return year
	}
	if year, ok := args["year"].(float64); ok && year > 0 {
		return strconv.Itoa(int(year))
	}
	return ""
}

// FormatArgs renders tool arguments as compact JSON for audit records.
// Whether the rendered arguments are actually emitted is decided by the
// audit logger configuration, not here.
//
// Returns the empty string when there are no arguments or rendering fails.
func FormatArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	data, err := json.Marshal(args)
	if err != nil {
		return ""
	}
	return string(data)
}
