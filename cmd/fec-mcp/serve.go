// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/fecmcp/fec-mcp/internal/tool"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Run an MCP server on stdin/stdout exposing fetch_filing, search_committees and
get_filings. The API key is resolved on the first authenticated call, cached
for the life of the server, and never included in tool results.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := newResolver()
		tools := tool.New(newRetriever(), newAPIClient(resolver), resolver.Redactor(), logger)
		server := tool.NewServer(version, tools)

		logger.Info("serving MCP over stdio")
		return server.Run(cmd.Context(), &mcp.StdioTransport{})
	},
}
