package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/rerite/openscience-explorer/internal/openalex"
)

var (
	metaFetchLimit     int
	metaFetchOverwrite bool
)

func init() {
	metaFetchCmd.Flags().IntVar(&metaFetchLimit, "limit", 0, "Maximum OpenAlex lookups (0 for no limit)")
	metaFetchCmd.Flags().BoolVar(&metaFetchOverwrite, "overwrite", false, "Replace existing side-files")

	metaCmd.AddCommand(metaMissingCmd)
	metaCmd.AddCommand(metaFetchCmd)
	rootCmd.AddCommand(metaCmd)
}

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Inspect and fetch metadata side-files",
	Long: `Commands for the per-DOI metadata side-files that supply titles,
abstracts, institutions, keywords, funding and open-access flags.`,
}

var metaMissingCmd = &cobra.Command{
	Use:   "missing",
	Short: "List DOIs without a usable side-file",
	RunE:  runMetaMissing,
}

var metaFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Create missing side-files from OpenAlex",
	Long: `Look up each DOI of the table in OpenAlex and write its side-file.
Existing side-files are kept unless --overwrite is given.

Requests are rate limited (openalex.rate_limit, default 5/s). Set
OPENALEX_MAILTO or openalex.mailto to use the polite pool.

Examples:
  ose meta fetch --limit 100
  ose meta fetch --overwrite`,
	RunE: runMetaFetch,
}

// MissingResult is the response for the meta missing command.
type MissingResult struct {
	MetaDir string   `json:"meta_dir"`
	Count   int      `json:"count"`
	DOIs    []string `json:"dois"`
}

func runMetaMissing(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	ds := mustLoadDataset(cfg)

	missing := ds.MissingMetadata()
	if humanOutput {
		if len(missing) == 0 {
			outputHuman("All %d papers have side-files in %s\n", len(ds.Records), cfg.MetaDir)
			return nil
		}
		for _, doi := range missing {
			outputHuman("%s\n", doi)
		}
		outputHuman("\n%d of %d papers lack side-files in %s\n", len(missing), len(ds.Records), cfg.MetaDir)
		return nil
	}
	return outputJSON(MissingResult{MetaDir: cfg.MetaDir, Count: len(missing), DOIs: missing})
}

func runMetaFetch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	ds := mustLoadDataset(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	client := openalex.NewClient(
		openalex.WithBaseURL(cfg.OpenAlex.BaseURL),
		openalex.WithMailto(cfg.OpenAlex.Mailto),
		openalex.WithRateLimit(cfg.OpenAlex.RateLimit),
	)
	enricher := &openalex.Enricher{Fetcher: client, MetaDir: cfg.MetaDir, Logger: logger}

	report, err := enricher.Fetch(ctx, ds.DOIs(), openalex.FetchOptions{
		Limit:     metaFetchLimit,
		Overwrite: metaFetchOverwrite,
	})

	if humanOutput {
		outputHuman("Wrote %d side-files to %s\n", len(report.Written), cfg.MetaDir)
		outputHuman("  %d already present, %d not in OpenAlex, %d failed\n",
			len(report.Existing), len(report.NotFound), len(report.Failed))
	} else {
		outputJSON(report)
	}

	if err != nil {
		exitWithError(ExitError, "fetching metadata: %v", err)
	}
	return nil
}
