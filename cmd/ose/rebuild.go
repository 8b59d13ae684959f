package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rerite/openscience-explorer/internal/config"
	"github.com/rerite/openscience-explorer/internal/storage"
)

var rebuildFrom string

func init() {
	rebuildCmd.Flags().StringVar(&rebuildFrom, "from", "", "Index a JSONL export instead of the table")
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query index from the table",
	Long: `Rebuild the SQLite query index used by 'ose stats', 'ose search' and
'ose get' from the publication table and side-files.

With --from, index the records of a JSONL file written by 'ose export'
instead, for example one exported on another machine.

Run this after editing the table or fetching new metadata.

Examples:
  ose rebuild
  ose rebuild --from build/records.jsonl`,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status  string `json:"status"`
	Path    string `json:"path"`
	Source  string `json:"source"`
	Records int    `json:"records"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenDatabase(cfg)
	defer db.Close()

	source := cfg.TablePath
	var n int
	if rebuildFrom != "" {
		source = config.ExpandPath(rebuildFrom)
		var err error
		n, err = rebuildIndexFromJSONL(db, source)
		if err != nil {
			exitWithError(dataExitCode(err), "rebuilding index: %v", err)
		}
	} else {
		n = mustRebuildIndex(cfg, db)
	}

	if humanOutput {
		outputHuman("Indexed %d records from %s in %s\n", n, source, cfg.DBPath)
		return nil
	}
	return outputJSON(RebuildResult{Status: "rebuilt", Path: cfg.DBPath, Source: source, Records: n})
}

// rebuildIndexFromJSONL replaces the index contents with the records of a
// JSONL export. A missing file is an error rather than an empty index.
func rebuildIndexFromJSONL(db *storage.DB, path string) (int, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("reading export: %w", err)
	}
	return db.RebuildFromJSONL(path)
}

// mustRebuildIndex loads the dataset into db, exits on error.
func mustRebuildIndex(cfg *config.Config, db *storage.DB) int {
	ds := mustLoadDataset(cfg)
	n, err := db.RebuildFromRecords(ds.Records)
	if err != nil {
		exitWithError(ExitError, "rebuilding index: %v", err)
	}
	return n
}

// mustEnsureIndex rebuilds db when it is empty or rebuild is set.
func mustEnsureIndex(cfg *config.Config, db *storage.DB, rebuild bool) {
	if !rebuild {
		count, err := db.Count()
		if err != nil {
			exitWithError(ExitError, "reading index: %v", err)
		}
		if count > 0 {
			return
		}
	}
	mustRebuildIndex(cfg, db)
}
