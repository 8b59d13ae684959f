package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rerite/openscience-explorer/internal/record"
)

// DetailRuleWidth is the width of the rule under a record heading.
const DetailRuleWidth = 60

var getRebuild bool

func init() {
	getCmd.Flags().BoolVar(&getRebuild, "rebuild", false, "Rebuild the index before querying")
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <doi>",
	Short: "Get a single paper by DOI",
	Long: `Get the normalized record of one paper, with its side-file metadata,
from the query index.

Example:
  ose get 10.1016/j.trc.2021.103`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenDatabase(cfg)
	defer db.Close()

	mustEnsureIndex(cfg, db, getRebuild)

	doi := strings.TrimSpace(args[0])
	rec, err := db.GetByDOI(doi)
	if err != nil {
		exitWithError(ExitError, "getting record: %v", err)
	}
	if rec == nil {
		exitWithError(ExitError, "record not found: %s", doi)
	}

	if humanOutput {
		printRecordDetail(*rec)
		return nil
	}
	return outputJSON(rec)
}

func printRecordDetail(r record.Record) {
	fmt.Println(r.DOI)
	fmt.Println(strings.Repeat("=", DetailRuleWidth))
	fmt.Println()

	fmt.Printf("Title:        %s\n", valueOr(r.Title, "(untitled)"))
	fmt.Printf("Topic:        %s\n", r.Topic)
	fmt.Printf("Year:         %s\n", valueOr(r.Year, "n.d."))
	fmt.Printf("Journal:      %s\n", valueOr(r.Journal, "unknown journal"))
	if r.Institution != "" {
		fmt.Printf("Institution:  %s\n", r.Institution)
	}
	fmt.Printf("Open access:  %s\n", yesNo(r.IsOpenAccess()))
	if r.Keywords != "" {
		fmt.Printf("Keywords:     %s\n", r.Keywords)
	}
	if r.Funding != "" {
		fmt.Printf("Funding:      %s\n", r.Funding)
	}

	for _, view := range []string{"code", "data"} {
		fmt.Println()
		fmt.Printf("%s available: %s\n", strings.ToUpper(view[:1])+view[1:], yesNo(r.Available(view)))
		for i, link := range r.Links(view) {
			fmt.Printf("  [%d] %s\n", i+1, link)
		}
	}

	if r.Abstract != "" {
		fmt.Println()
		fmt.Println("Abstract:")
		fmt.Printf("  %s\n", r.Abstract)
	}
	if r.DOIURL != "" {
		fmt.Println()
		fmt.Printf("URL:          %s\n", r.DOIURL)
	}
}
