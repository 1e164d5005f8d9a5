// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"

	"github.com/fecmcp/fec-mcp/internal/openfec"
)

var searchOpts struct {
	limit int
}

var searchCommitteesCmd = &cobra.Command{
	Use:     "search-committees <name>",
	Short:   "Search for committees by name",
	Example: `  fec-mcp search-committees "Utah Republican Party" --limit 5`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient(newResolver())
		committees, err := client.SearchCommittees(cmd.Context(), openfec.CommitteeQuery{Name: args[0], Limit: searchOpts.limit})
		if err != nil {
			return err
		}
		if len(committees) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "No committees found matching '%s'\n", args[0])
			return nil
		}
		return printJSON(cmd, committees)
	},
}

var filingsOpts struct {
	limit          int
	sort           string
	formType       string
	cycle          int
	reportType     string
	includeAmended bool
}

var getFilingsCmd = &cobra.Command{
	Use:     "get-filings <committee-id>",
	Short:   "List filings for a committee",
	Example: `  fec-mcp get-filings C00089482 --limit 5 --form-type F3X --cycle 2024`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient(newResolver())
		filings, err := client.GetFilings(cmd.Context(), openfec.FilingQuery{
			CommitteeID:    args[0],
			Limit:          filingsOpts.limit,
			Sort:           filingsOpts.sort,
			FormType:       filingsOpts.formType,
			Cycle:          filingsOpts.cycle,
			ReportType:     filingsOpts.reportType,
			IncludeAmended: filingsOpts.includeAmended,
		})
		if err != nil {
			return err
		}
		if len(filings) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "No filings found for committee '%s'\n", args[0])
			return nil
		}
		return printJSON(cmd, filings)
	},
}

func init() {
	searchCommitteesCmd.Flags().IntVar(&searchOpts.limit, "limit", openfec.DefaultCommitteeLimit, "maximum results to return")

	f := getFilingsCmd.Flags()
	f.IntVar(&filingsOpts.limit, "limit", openfec.DefaultFilingLimit, "maximum results to return")
	f.StringVar(&filingsOpts.sort, "sort", openfec.DefaultFilingSort, "sort field, '-' prefix for descending")
	f.StringVar(&filingsOpts.formType, "form-type", "", "filter by form type (e.g. F3P, F3X, F3)")
	f.IntVar(&filingsOpts.cycle, "cycle", 0, "filter by two-year election cycle (e.g. 2024)")
	f.StringVar(&filingsOpts.reportType, "report-type", "", "filter by report type (e.g. Q1, Q2, MY, YE, 12G, 30G)")
	f.BoolVar(&filingsOpts.includeAmended, "include-amended", false, "include superseded amendments")
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}
