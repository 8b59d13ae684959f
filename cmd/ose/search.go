package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var (
	searchLimit   int
	searchRebuild bool
)

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return (0 for all)")
	searchCmd.Flags().BoolVar(&searchRebuild, "rebuild", false, "Rebuild the index before querying")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <terms>...",
	Short: "Search abstracts",
	Long: `Search paper abstracts. A paper matches when its abstract contains every
term, case-insensitively, as a substring. This is the same rule the explorer
page uses to highlight points.

Examples:
  ose search calibration model
  ose search "traffic signal" --limit 10 --human`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

// SearchResult is one paper in search output.
type SearchResult struct {
	DOI           string `json:"doi"`
	Title         string `json:"title"`
	Year          string `json:"year"`
	Journal       string `json:"journal"`
	Topic         string `json:"topic"`
	CodeAvailable bool   `json:"code_available"`
	DataAvailable bool   `json:"data_available"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenDatabase(cfg)
	defer db.Close()

	mustEnsureIndex(cfg, db, searchRebuild)

	query := strings.Join(args, " ")
	records, err := db.SearchAbstracts(query, searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	results := make([]SearchResult, 0, len(records))
	for _, r := range records {
		results = append(results, SearchResult{
			DOI:           r.DOI,
			Title:         r.Title,
			Year:          r.Year,
			Journal:       r.Journal,
			Topic:         r.Topic,
			CodeAvailable: r.CodeAvailable,
			DataAvailable: r.DataAvailable,
		})
	}

	if !humanOutput {
		return outputJSON(results)
	}

	if len(results) == 0 {
		outputHuman("No abstracts match %q\n", query)
		return nil
	}
	for i, r := range results {
		outputHuman("%d. %s\n", i+1, r.DOI)
		outputHuman("   %s\n", truncateString(valueOr(r.Title, "(untitled)"), SearchTitleMaxLen))
		outputHuman("   %s, %s | %s | code: %s, data: %s\n\n",
			valueOr(r.Journal, "unknown journal"), valueOr(r.Year, "n.d."), r.Topic,
			yesNo(r.CodeAvailable), yesNo(r.DataAvailable))
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
