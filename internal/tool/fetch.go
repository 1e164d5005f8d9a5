// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fecmcp/fec-mcp/internal/filing"
)

// MetadataFetchFiling describes the fetch_filing tool.
var MetadataFetchFiling = &mcp.Tool{
	Name: "fetch_filing",
	Description: "Fetch an FEC electronic filing by filing ID and return its summary and itemizations. " +
		"Large filings can hold hundreds of thousands of itemizations: call with summary_only first, " +
		"then request specific schedules with a limit. " +
		"Schedules: A contributions, B disbursements, C loans, D debts, E independent expenditures.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"filing_id"},
		"properties": map[string]interface{}{
			"filing_id": map[string]interface{}{
				"type":        "integer",
				"description": "FEC filing ID (positive integer), e.g. 1896830",
				"minimum":     1,
			},
			"summary_only": map[string]interface{}{
				"type":        "boolean",
				"description": "Return only the filing summary, no itemizations",
			},
			"schedules": map[string]interface{}{
				"type":        "array",
				"description": "Schedules to include. If omitted, all schedules are included.",
				"items": map[string]interface{}{
					"type": "string",
					"enum": []string{"A", "B", "C", "D", "E"},
				},
			},
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum itemizations returned per schedule. 0 or omitted means no limit.",
				"minimum":     0,
			},
		},
	},
}

// InputFetchFiling is the input for the FetchFiling tool.
type InputFetchFiling struct {
	FilingID    int64    `json:"filing_id"`
	SummaryOnly bool     `json:"summary_only"`
	Schedules   []string `json:"schedules"`
	Limit       int      `json:"limit"`
}

// OutputFetchFiling is the output for the FetchFiling tool.
type OutputFetchFiling struct {
	FilingID int64  `json:"filing_id"`
	FormType string `json:"form_type"`
	// Filing is the summary record.
	Filing map[string]any `json:"filing"`
	// Itemizations maps schedule names to records in filing order.
	Itemizations map[string][]map[string]any `json:"itemizations"`
	// Truncated lists schedules that held more records than the limit.
	Truncated []string `json:"truncated,omitempty"`
}

// FetchFiling downloads a filing and projects the requested parts. With a
// limit, each schedule is decoded only up to one record past the limit.
func (t *Tools) FetchFiling(ctx context.Context, _ *mcp.CallToolRequest, input InputFetchFiling) (*mcp.CallToolResult, OutputFetchFiling, error) {
	id, err := filing.ParseID(strconv.FormatInt(input.FilingID, 10))
	if err != nil {
		return nil, OutputFetchFiling{}, err
	}
	if input.Limit < 0 {
		return nil, OutputFetchFiling{}, fmt.Errorf("limit must not be negative")
	}
	scope, err := filing.ResolveScope(filing.Selection{SummaryOnly: input.SummaryOnly, Schedules: input.Schedules})
	if err != nil {
		return nil, OutputFetchFiling{}, err
	}

	f, err := t.filings.Open(ctx, id)
	if err != nil {
		return nil, OutputFetchFiling{}, t.fail(MetadataFetchFiling.Name, err)
	}
	defer f.Close()

	out := OutputFetchFiling{
		FilingID:     int64(id),
		FormType:     f.Decoder.FormType(),
		Itemizations: make(map[string][]map[string]any, len(scope.Schedules)),
	}

	for u, err := range filing.Stream(ctx, id, f.Decoder, filing.Scope{Summary: true}) {
		if err != nil {
			return nil, OutputFetchFiling{}, t.fail(MetadataFetchFiling.Name, err)
		}
		out.Filing = u.Data.Map()
	}

	for _, sch := range scope.Schedules {
		records := []map[string]any{}
		for u, err := range filing.Stream(ctx, id, f.Decoder, filing.Scope{Schedules: []filing.Schedule{sch}}) {
			if err != nil {
				return nil, OutputFetchFiling{}, t.fail(MetadataFetchFiling.Name, err)
			}
			if input.Limit > 0 && len(records) == input.Limit {
				out.Truncated = append(out.Truncated, sch.Name())
				break
			}
			records = append(records, u.Data.Map())
		}
		out.Itemizations[sch.Name()] = records
	}

	return nil, out, nil
}
