// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fecmcp/fec-mcp/internal/credential"
	"github.com/fecmcp/fec-mcp/internal/openfec"
	"github.com/fecmcp/fec-mcp/internal/retrieval"
)

// Tools holds the dependencies shared by the tool handlers.
type Tools struct {
	filings  *retrieval.Retriever
	api      *openfec.Client
	redactor *credential.Redactor
	logger   *zap.Logger
}

// New creates the tool set. The redactor scrubs every error returned to the
// client.
func New(filings *retrieval.Retriever, api *openfec.Client, redactor *credential.Redactor, logger *zap.Logger) *Tools {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tools{filings: filings, api: api, redactor: redactor, logger: logger}
}

// NewServer creates an MCP server exposing every tool.
func NewServer(version string, t *Tools) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "fec-mcp", Version: version}, nil)
	mcp.AddTool(server, MetadataFetchFiling, t.FetchFiling)
	mcp.AddTool(server, MetadataSearchCommittees, t.SearchCommittees)
	mcp.AddTool(server, MetadataGetFilings, t.GetFilings)
	return server
}

// fail logs a redacted error and returns it in redacted form.
func (t *Tools) fail(tool string, err error) error {
	t.logger.Warn("tool call failed", zap.String("tool", tool), t.redactor.ErrorField(err))
	return t.redactor.Error(err)
}
