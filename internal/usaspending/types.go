package usaspending

import "time"

// AwardsByAgencyQuery selects the award spending summary for one agency in
// one fiscal year. Both values are consumed verbatim by the upstream API and
// are not validated beyond presence.
type AwardsByAgencyQuery struct {
	Year     string
	AgencyID string
}

func (q AwardsByAgencyQuery) validate() error {
	if q.Year == "" {
		return newValidationError("year", "is required")
	}
	if q.AgencyID == "" {
		return newValidationError("agency_id", "is required")
	}
	return nil
}

// AwardDetailQuery selects a single award record. The id is upstream's opaque
// generated unique award id and is used verbatim as the final URL path segment.
type AwardDetailQuery struct {
	GeneratedUniqueAwardID string
}

func (q AwardDetailQuery) validate() error {
	if q.GeneratedUniqueAwardID == "" {
		return newValidationError("generated_unique_award_id", "is required")
	}
	return nil
}

// KeywordSearchQuery searches prime award contracts by keyword within one
// calendar year. The year derives the closed window [Jan 1, Dec 31]; partial
// year queries are not possible.
type KeywordSearchQuery struct {
	Keywords []string
	Year     int
}

func (q KeywordSearchQuery) validate() error {
	if len(q.Keywords) == 0 {
		return newValidationError("keywords", "must not be empty")
	}
	if q.Year <= 0 {
		return newValidationError("year", "must be a positive year")
	}
	return nil
}

// dateRange returns the calendar-year window for year as upstream date strings.
func (q KeywordSearchQuery) dateRange() (start, end string) {
	const layout = "2006-01-02"
	s := time.Date(q.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	e := time.Date(q.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return s.Format(layout), e.Format(layout)
}

// KeywordSearchResult is one award returned by SearchByKeywords. Upstream
// reports display-style keys ("Award ID", "Recipient Name"); this struct
// renames them to stable snake_case fields. RecipientName is the only
// required field, everything else may be absent.
type KeywordSearchResult struct {
	InternalID             *int     `json:"internal_id,omitempty"`
	Description            *string  `json:"description,omitempty"`
	AwardID                *string  `json:"award_id,omitempty"`
	RecipientName          string   `json:"recipient_name"`
	AwardAmount            *float64 `json:"award_amount,omitempty"`
	TotalOutlays           *float64 `json:"total_outlays,omitempty"`
	AwardingAgency         *string  `json:"awarding_agency,omitempty"`
	AwardingSubAgency      *string  `json:"awarding_subagency,omitempty"`
	StartDate              *string  `json:"start_date,omitempty"`
	EndDate                *string  `json:"end_date,omitempty"`
	AwardingAgencyID       *int     `json:"awarding_agency_id,omitempty"`
	GeneratedUniqueAwardID *string  `json:"generated_unique_award_id,omitempty"`
}

// keywordSearchRow mirrors the upstream JSON keys of one results entry.
type keywordSearchRow struct {
	InternalID          *int     `json:"internal_id"`
	Description         *string  `json:"Description"`
	AwardID             *string  `json:"Award ID"`
	RecipientName       *string  `json:"Recipient Name"`
	AwardAmount         *float64 `json:"Award Amount"`
	TotalOutlays        *float64 `json:"Total Outlays"`
	AwardingAgency      *string  `json:"Awarding Agency"`
	AwardingSubAgency   *string  `json:"Awarding Sub Agency"`
	StartDate           *string  `json:"Start Date"`
	EndDate             *string  `json:"End Date"`
	AwardingAgencyID    *int     `json:"awarding_agency_id"`
	GeneratedInternalID *string  `json:"generated_internal_id"`
}

// mapKeywordResults projects the upstream results array into typed results.
// An entry without "Recipient Name" fails the whole mapping.
func mapKeywordResults(rows []keywordSearchRow) ([]KeywordSearchResult, error) {
	results := make([]KeywordSearchResult, 0, len(rows))
	for i, row := range rows {
		if row.RecipientName == nil {
			return nil, newMappingError(i, "Recipient Name")
		}
		results = append(results, KeywordSearchResult{
			InternalID:             row.InternalID,
			Description:            row.Description,
			AwardID:                row.AwardID,
			RecipientName:          *row.RecipientName,
			AwardAmount:            row.AwardAmount,
			TotalOutlays:           row.TotalOutlays,
			AwardingAgency:         row.AwardingAgency,
			AwardingSubAgency:      row.AwardingSubAgency,
			StartDate:              row.StartDate,
			EndDate:                row.EndDate,
			AwardingAgencyID:       row.AwardingAgencyID,
			GeneratedUniqueAwardID: row.GeneratedInternalID,
		})
	}
	return results, nil
}
