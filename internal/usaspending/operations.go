package usaspending

import (
	"context"

	"github.com/flothjl/usaspending-mcp/internal/logging"
)

// Relative endpoint paths under the API root. Trailing slashes are load
// bearing: the upstream API rejects or 404s paths without them.
const (
	EndpointSpending        = "spending/"
	EndpointAwards          = "awards/"
	EndpointKeywordSearch   = "search/spending_by_award/"
	EndpointTopTierAgencies = "references/toptier_agencies/"
)

// searchFields is the fixed projection requested from the keyword search
// endpoint.
var searchFields = []string{
	"Award ID",
	"Recipient Name",
	"Award Amount",
	"Total Outlays",
	"Description",
	"Contract Award Type",
	"def_codes",
	"COVID-19 Obligations",
	"COVID-19 Outlays",
	"Infrastructure Obligations",
	"Infrastructure Outlays",
	"Awarding Agency",
	"Awarding Sub Agency",
	"Start Date",
	"End Date",
	"recipient_id",
	"prime_award_recipient_id",
}

// awardTypeCodes restricts keyword search to prime award contracts, not
// sub-award transactions.
var awardTypeCodes = []string{"A", "B", "C", "D"}

// SpendingByAgency returns the award spending summary for one agency and
// fiscal year. The upstream JSON is returned unchanged.
func (c *Client) SpendingByAgency(ctx context.Context, q AwardsByAgencyQuery) (map[string]any, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	body := map[string]any{
		"type": "award",
		"filters": map[string]any{
			"fy":     q.Year,
			"period": "12",
			"agency": q.AgencyID,
		},
	}

	resp, err := c.Post(ctx, EndpointSpending, body)
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := resp.JSON(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// AwardDetail returns the full award record for one generated unique award
// id. The id is appended verbatim as the final path segment, with the
// trailing slash the upstream API requires. The upstream JSON is returned
// unchanged.
//
// Under Config.QuietAwardErrors an upstream failure returns (nil, nil)
// instead of the error; a validation failure always errors.
func (c *Client) AwardDetail(ctx context.Context, q AwardDetailQuery) (map[string]any, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	resp, err := c.Get(ctx, EndpointAwards+q.GeneratedUniqueAwardID+"/")
	if err != nil {
		return c.maybeQuiet(err)
	}

	var out map[string]any
	if err := resp.JSON(&out); err != nil {
		return c.maybeQuiet(err)
	}
	return out, nil
}

// maybeQuiet applies the quiet-award policy to an upstream failure.
func (c *Client) maybeQuiet(err error) (map[string]any, error) {
	if c.quietAward {
		c.logger.Warn("award detail lookup failed, returning absent result",
			logging.Err(err))
		return nil, nil
	}
	return nil, err
}

// SearchByKeywords searches prime award contracts by keyword within the
// calendar year of the query, returning at most 20 results ordered by award
// amount descending.
func (c *Client) SearchByKeywords(ctx context.Context, q KeywordSearchQuery) ([]KeywordSearchResult, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	start, end := q.dateRange()
	body := map[string]any{
		"filters": map[string]any{
			"keywords": q.Keywords,
			"time_period": []map[string]string{
				{"start_date": start, "end_date": end},
			},
			"award_type_codes": awardTypeCodes,
		},
		"fields":    searchFields,
		"page":      1,
		"limit":     20,
		"sort":      "Award Amount",
		"order":     "desc",
		"subawards": false,
	}

	resp, err := c.Post(ctx, EndpointKeywordSearch, body)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Results []keywordSearchRow `json:"results"`
	}
	if err := resp.JSON(&payload); err != nil {
		return nil, err
	}
	return mapKeywordResults(payload.Results)
}

// TopTierAgencies lists every top-level federal agency known to the upstream
// reference endpoint. The upstream JSON is returned unchanged.
func (c *Client) TopTierAgencies(ctx context.Context) (map[string]any, error) {
	resp, err := c.Get(ctx, EndpointTopTierAgencies)
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := resp.JSON(&out); err != nil {
		return nil, err
	}
	return out, nil
}
