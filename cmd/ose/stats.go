package main

import (
	"github.com/spf13/cobra"

	"github.com/rerite/openscience-explorer/internal/storage"
)

var statsRebuild bool

func init() {
	statsCmd.Flags().BoolVar(&statsRebuild, "rebuild", false, "Rebuild the index before querying")
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show code and data availability per topic",
	Long: `Show how many papers in each topic share code, share data, and are open
access. The index is built on first use; pass --rebuild after input changes.

Examples:
  ose stats
  ose stats --human --rebuild`,
	RunE: runStats,
}

// StatsResult is the response for the stats command.
type StatsResult struct {
	Total  int                 `json:"total"`
	Topics []storage.TopicStat `json:"topics"`
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenDatabase(cfg)
	defer db.Close()

	mustEnsureIndex(cfg, db, statsRebuild)

	stats, err := db.TopicStats()
	if err != nil {
		exitWithError(ExitError, "querying stats: %v", err)
	}

	result := StatsResult{Topics: stats}
	for _, s := range stats {
		result.Total += s.Total
	}
	if result.Topics == nil {
		result.Topics = []storage.TopicStat{}
	}

	if !humanOutput {
		return outputJSON(result)
	}

	outputHuman("%-40s %6s %6s %6s %6s\n", "TOPIC", "PAPERS", "CODE", "DATA", "OA")
	for _, s := range stats {
		outputHuman("%-40s %6d %6d %6d %6d\n", truncateString(s.Topic, 40), s.Total, s.CodeAvailable, s.DataAvailable, s.OpenAccess)
	}
	outputHuman("%-40s %6d\n", "TOTAL", result.Total)
	return nil
}
