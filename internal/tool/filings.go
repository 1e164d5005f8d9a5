// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fecmcp/fec-mcp/internal/openfec"
)

// MetadataGetFilings describes the get_filings tool.
var MetadataGetFilings = &mcp.Tool{
	Name: "get_filings",
	Description: "Get FEC filings for a committee. Returns filing IDs, dates, and financial summaries; " +
		"pass a filing ID to fetch_filing for the full filing. Use search_committees first to find the " +
		"committee ID. Requires an FEC API key.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"committee_id"},
		"properties": map[string]interface{}{
			"committee_id": map[string]interface{}{
				"type":        "string",
				"description": "FEC committee ID (e.g., C00089482)",
			},
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum number of results (default: 10)",
				"default":     openfec.DefaultFilingLimit,
			},
			"form_type": map[string]interface{}{
				"type":        "string",
				"description": "Filter by form type (F3, F3P, F3X)",
			},
			"cycle": map[string]interface{}{
				"type":        "integer",
				"description": "Filter by two-year election cycle (e.g., 2024)",
			},
			"report_type": map[string]interface{}{
				"type":        "string",
				"description": "Filter by report type (Q1, Q2, Q3, YE, MY, 12G, 30G)",
			},
			"sort": map[string]interface{}{
				"type":        "string",
				"description": "Sort field with optional '-' prefix for descending (default: -receipt_date)",
				"default":     openfec.DefaultFilingSort,
			},
			"include_amended": map[string]interface{}{
				"type":        "boolean",
				"description": "Include superseded amendments (default: false)",
				"default":     false,
			},
		},
	},
}

// InputGetFilings is the input for the GetFilings tool.
type InputGetFilings struct {
	CommitteeID    string `json:"committee_id"`
	Limit          int    `json:"limit"`
	FormType       string `json:"form_type"`
	Cycle          int    `json:"cycle"`
	ReportType     string `json:"report_type"`
	Sort           string `json:"sort"`
	IncludeAmended bool   `json:"include_amended"`
}

// OutputGetFilings is the output for the GetFilings tool.
type OutputGetFilings struct {
	Filings []openfec.Filing `json:"filings"`
}

// GetFilings lists a committee's filings.
func (t *Tools) GetFilings(ctx context.Context, _ *mcp.CallToolRequest, input InputGetFilings) (*mcp.CallToolResult, OutputGetFilings, error) {
	filings, err := t.api.GetFilings(ctx, openfec.FilingQuery{
		CommitteeID:    input.CommitteeID,
		Limit:          input.Limit,
		Sort:           input.Sort,
		FormType:       input.FormType,
		Cycle:          input.Cycle,
		ReportType:     input.ReportType,
		IncludeAmended: input.IncludeAmended,
	})
	if err != nil {
		return nil, OutputGetFilings{}, t.fail(MetadataGetFilings.Name, err)
	}
	if filings == nil {
		filings = []openfec.Filing{}
	}
	return nil, OutputGetFilings{Filings: filings}, nil
}
