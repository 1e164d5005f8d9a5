// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fecmcp/fec-mcp/internal/openfec"
)

// MetadataSearchCommittees describes the search_committees tool.
var MetadataSearchCommittees = &mcp.Tool{
	Name: "search_committees",
	Description: "Search for FEC committees by name. Returns committee IDs that can be used with get_filings. " +
		"Requires an FEC API key in the system keyring or a configured credential command.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"query"},
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Committee name or partial name to search for",
			},
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum number of results (default: 20)",
				"default":     openfec.DefaultCommitteeLimit,
			},
		},
	},
}

// InputSearchCommittees is the input for the SearchCommittees tool.
type InputSearchCommittees struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// OutputSearchCommittees is the output for the SearchCommittees tool.
type OutputSearchCommittees struct {
	Committees []openfec.Committee `json:"committees"`
}

// SearchCommittees looks committees up by name.
func (t *Tools) SearchCommittees(ctx context.Context, _ *mcp.CallToolRequest, input InputSearchCommittees) (*mcp.CallToolResult, OutputSearchCommittees, error) {
	committees, err := t.api.SearchCommittees(ctx, openfec.CommitteeQuery{Name: input.Query, Limit: input.Limit})
	if err != nil {
		return nil, OutputSearchCommittees{}, t.fail(MetadataSearchCommittees.Name, err)
	}
	if committees == nil {
		committees = []openfec.Committee{}
	}
	return nil, OutputSearchCommittees{Committees: committees}, nil
}
