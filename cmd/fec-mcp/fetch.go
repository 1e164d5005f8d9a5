// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fecmcp/fec-mcp/internal/filing"
	"github.com/fecmcp/fec-mcp/internal/retrieval"
)

var fetchOpts struct {
	summaryOnly bool
	schedule    string
	schedules   string
	stream      bool
	format      string
	file        string
}

var fetchCmd = &cobra.Command{
	Use:   "fetch-filing [filing-id]",
	Short: "Fetch and print an FEC filing",
	Long: `Fetch an FEC electronic filing and print its summary and itemizations.

By default the whole filing is printed as one JSON document. Filings can hold
hundreds of thousands of itemizations: check the size with --summary-only
first, then use --stream to print one JSON object per line without
buffering the filing in memory.

Schedule codes:
  A  - Contributions
  B  - Disbursements
  C  - Loans
  D  - Debts
  E  - Independent Expenditures`,
	Example: `  fec-mcp fetch-filing 1896830 --summary-only
  fec-mcp fetch-filing 1896830 --schedule A --stream
  fec-mcp fetch-filing 1896830 --schedules A,B --format yaml
  fec-mcp fetch-filing --file 1896830.fec --summary-only`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	f := fetchCmd.Flags()
	f.BoolVar(&fetchOpts.summaryOnly, "summary-only", false, "only fetch the filing summary (no itemizations)")
	f.StringVar(&fetchOpts.schedule, "schedule", "", "only fetch a single schedule (A, B, C, D or E)")
	f.StringVar(&fetchOpts.schedules, "schedules", "", "only fetch these schedules (comma-separated, e.g. A,B)")
	f.BoolVar(&fetchOpts.stream, "stream", false, "print one JSON object per record instead of one document")
	f.StringVar(&fetchOpts.format, "format", "json", "document format: json or yaml (--stream always writes JSON lines)")
	f.StringVar(&fetchOpts.file, "file", "", "decode a local .fec file instead of downloading")
}

// selectionFromFlags applies the flag conflict rules and builds a Selection.
func selectionFromFlags() (filing.Selection, error) {
	if fetchOpts.summaryOnly && (fetchOpts.schedule != "" || fetchOpts.schedules != "") {
		return filing.Selection{}, &filing.InvalidSelectionError{Reason: "--summary-only cannot be combined with --schedule or --schedules"}
	}
	if fetchOpts.schedule != "" && fetchOpts.schedules != "" {
		return filing.Selection{}, &filing.InvalidSelectionError{Reason: "use either --schedule or --schedules, not both"}
	}

	sel := filing.Selection{SummaryOnly: fetchOpts.summaryOnly}
	switch {
	case fetchOpts.schedule != "":
		sel.Schedules = []string{fetchOpts.schedule}
	case fetchOpts.schedules != "":
		sel.Schedules = strings.Split(fetchOpts.schedules, ",")
	}
	return sel, nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	var id filing.ID
	if len(args) == 1 {
		var err error
		if id, err = filing.ParseID(args[0]); err != nil {
			return err
		}
	} else if fetchOpts.file == "" {
		return errors.New("a filing ID is required unless --file is given")
	}

	sel, err := selectionFromFlags()
	if err != nil {
		return err
	}
	scope, err := filing.ResolveScope(sel)
	if err != nil {
		return err
	}
	format, err := filing.ParseFormat(fetchOpts.format)
	if err != nil {
		return err
	}
	if fetchOpts.stream && format != filing.FormatJSON {
		return &filing.InvalidSelectionError{Reason: "--stream writes newline-delimited JSON and cannot be combined with --format " + string(format)}
	}

	ctx := cmd.Context()
	r := newRetriever()
	var f *retrieval.Filing
	if fetchOpts.file != "" {
		f, err = r.OpenFile(fetchOpts.file, id)
	} else {
		f, err = r.Open(ctx, id)
	}
	if err != nil {
		return err
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	if fetchOpts.stream {
		n, err := filing.WriteStream(out, filing.Stream(ctx, id, f.Decoder, scope))
		logger.Debug("streamed filing", zap.Stringer("filing_id", id), zap.Int("units", n))
		return err
	}

	agg, err := filing.Aggregate(ctx, id, f.Decoder, scope)
	if err != nil {
		return err
	}
	return filing.WriteAggregate(out, agg, format)
}
