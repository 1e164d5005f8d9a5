// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fecmcp/fec-mcp/internal/config"
	"github.com/fecmcp/fec-mcp/internal/credential"
	"github.com/fecmcp/fec-mcp/internal/docquery"
	"github.com/fecmcp/fec-mcp/internal/openfec"
	"github.com/fecmcp/fec-mcp/internal/retrieval"
)

var version = "dev"

var (
	// Global flags
	configPath    string
	verbose       bool
	credentialCmd string

	cfg    *config.Config
	logger = zap.NewNop()

	// redactor is shared by the resolver, the API client and error output.
	redactor = credential.NewRedactor()
)

var rootCmd = &cobra.Command{
	Use:   "fec-mcp",
	Short: "Retrieve FEC filings and query the OpenFEC API without exposing the API key",
	Long: `fec-mcp fetches FEC electronic filings, streaming large filings record by record,
and searches committees and filings through the authenticated OpenFEC API.

The API key is read once from the system keyring (service "fec-api", account
"api-key") or from the output of --credential-cmd, and never printed.

Run "fec-mcp serve" to expose the same operations as MCP tools over stdio.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath, map[string]*pflag.Flag{
			"credential.command": cmd.Root().PersistentFlags().Lookup("credential-cmd"),
		})
		if err != nil {
			return err
		}
		logger, err = newLogger(cfg.Log.Level, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/fec-mcp/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&credentialCmd, "credential-cmd", "", "shell command that prints the FEC API key (default: system keyring)")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(searchCommitteesCmd)
	rootCmd.AddCommand(getFilingsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		zc.Level = lvl
	}
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

func newResolver() *credential.Resolver {
	return credential.NewResolver(cfg.Credential.Source(),
		credential.WithRedactor(redactor),
		credential.WithLogger(logger))
}

func newAPIClient(resolver *credential.Resolver) *openfec.Client {
	return openfec.NewClient(resolver,
		openfec.WithBaseURL(cfg.OpenFEC.BaseURL),
		openfec.WithHTTPClient(&http.Client{Timeout: cfg.OpenFEC.Timeout}),
		openfec.WithLogger(logger))
}

func newRetriever() *retrieval.Retriever {
	client := docquery.NewClient(
		docquery.WithBaseURL(cfg.DocQuery.BaseURL),
		docquery.WithHTTPClient(&http.Client{Timeout: cfg.DocQuery.Timeout}),
		docquery.WithUserAgent(cfg.DocQuery.UserAgent),
		docquery.WithTempDir(cfg.DocQuery.TempDir),
		docquery.WithLogger(logger))
	return retrieval.New(client, cfg.Filing.StrictLayouts, logger)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		writeError(os.Stderr, err)
		os.Exit(1)
	}
}
