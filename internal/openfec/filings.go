// SPDX-License-Identifier: Apache-2.0

package openfec

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultFilingLimit = 10
	DefaultFilingSort  = "-receipt_date"
)

var committeeID = regexp.MustCompile(`^C[0-9]{8}$`)

// sortField accepts any field name; OpenFEC itself rejects unknown sort keys.
var sortField = regexp.MustCompile(`^-?[a-z][a-z0-9_]*$`)

// Filing is one filing of a committee, reduced to the fields needed to pick a
// filing ID for retrieval.
type Filing struct {
	FilingID           int64    `json:"filing_id"`
	FormType           string   `json:"form_type"`
	ReceiptDate        string   `json:"receipt_date,omitempty"`
	CoverageStartDate  string   `json:"coverage_start_date,omitempty"`
	CoverageEndDate    string   `json:"coverage_end_date,omitempty"`
	TotalReceipts      *float64 `json:"total_receipts"`
	TotalDisbursements *float64 `json:"total_disbursements"`
	AmendmentIndicator string   `json:"amendment_indicator,omitempty"`
}

type apiFiling struct {
	FileNumber         *int64   `json:"file_number"`
	FormType           string   `json:"form_type"`
	ReceiptDate        *string  `json:"receipt_date"`
	CoverageStartDate  *string  `json:"coverage_start_date"`
	CoverageEndDate    *string  `json:"coverage_end_date"`
	TotalReceipts      *float64 `json:"total_receipts"`
	TotalDisbursements *float64 `json:"total_disbursements"`
	AmendmentIndicator *string  `json:"amendment_indicator"`
}

func (a apiFiling) project() Filing {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	f := Filing{
		FormType:           a.FormType,
		ReceiptDate:        deref(a.ReceiptDate),
		CoverageStartDate:  deref(a.CoverageStartDate),
		CoverageEndDate:    deref(a.CoverageEndDate),
		TotalReceipts:      a.TotalReceipts,
		TotalDisbursements: a.TotalDisbursements,
		AmendmentIndicator: deref(a.AmendmentIndicator),
	}
	if a.FileNumber != nil {
		f.FilingID = *a.FileNumber
	}
	return f
}

// FilingQuery selects filings of one committee.
type FilingQuery struct {
	CommitteeID string
	Limit       int
	// Sort is a field name with an optional "-" prefix for descending order.
	Sort       string
	FormType   string
	Cycle      int
	ReportType string
	// IncludeAmended also returns filings superseded by an amendment.
	IncludeAmended bool
}

// GetFilings lists a committee's filings, most recent receipt first by default.
func (c *Client) GetFilings(ctx context.Context, q FilingQuery) ([]Filing, error) {
	id := strings.ToUpper(strings.TrimSpace(q.CommitteeID))
	if !committeeID.MatchString(id) {
		return nil, &InvalidQueryError{Field: "committee ID", Value: q.CommitteeID, Reason: "expected C followed by 8 digits, e.g. C00089482"}
	}
	sort := q.Sort
	if sort == "" {
		sort = DefaultFilingSort
	}
	if !sortField.MatchString(sort) {
		return nil, &InvalidQueryError{Field: "sort field", Value: q.Sort, Reason: "expected a field name with an optional '-' prefix, e.g. -receipt_date"}
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultFilingLimit
	}

	params := url.Values{}
	params.Set("per_page", strconv.Itoa(min(limit, maxPerPage)))
	params.Set("sort", sort)
	params.Set("most_recent", strconv.FormatBool(!q.IncludeAmended))
	if q.FormType != "" {
		params.Set("form_type", strings.ToUpper(q.FormType))
	}
	if q.Cycle != 0 {
		params.Set("cycle", strconv.Itoa(q.Cycle))
	}
	if q.ReportType != "" {
		params.Set("report_type", strings.ToUpper(q.ReportType))
	}

	results, err := get[apiFiling](ctx, c, "/committee/"+url.PathEscape(id)+"/filings/", params)
	if err != nil {
		return nil, err
	}
	if len(results) > limit {
		results = results[:limit]
	}
	out := make([]Filing, len(results))
	for i, r := range results {
		out[i] = r.project()
	}
	return out, nil
}
