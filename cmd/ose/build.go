package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rerite/openscience-explorer/internal/config"
	"github.com/rerite/openscience-explorer/internal/explorer"
	"github.com/rerite/openscience-explorer/internal/watch"
)

var (
	buildTable  string
	buildMeta   string
	buildOutput string
	buildWatch  bool
)

func init() {
	buildCmd.Flags().StringVar(&buildTable, "table", "", "Input table (overrides config)")
	buildCmd.Flags().StringVar(&buildMeta, "meta", "", "Side-file directory (overrides config)")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output HTML file (overrides config)")
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "Rebuild whenever the table or side-files change")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the explorer page",
	Long: `Generate the interactive explorer page from the publication table and the
per-DOI metadata side-files.

Rows without plottable coordinates are skipped and counted. Missing or
unreadable side-files are not errors; those papers show default details.

Examples:
  ose build
  ose build --table data/dashboard.csv --meta meta --output explorer.html
  ose build --watch`,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	applyBuildFlags(cfg)

	summary, err := explorer.Build(cfg, logger)
	if err != nil {
		exitWithError(dataExitCode(err), "building page: %v", err)
	}
	printBuildSummary(summary)

	if !buildWatch {
		return nil
	}
	return watchAndRebuild(cmd.Context(), cfg)
}

func applyBuildFlags(cfg *config.Config) {
	if buildTable != "" {
		cfg.TablePath = config.ExpandPath(buildTable)
	}
	if buildMeta != "" {
		cfg.MetaDir = config.ExpandPath(buildMeta)
	}
	if buildOutput != "" {
		cfg.OutputPath = config.ExpandPath(buildOutput)
	}
}

func printBuildSummary(s *explorer.Summary) {
	if humanOutput {
		outputHuman("Wrote %s: %d papers in %d topics (%d traces)\n", s.Output, s.Records, s.Topics, s.Traces)
		if s.Skipped > 0 {
			outputHuman("  skipped %d rows without coordinates\n", s.Skipped)
		}
		if s.MissingMeta > 0 {
			outputHuman("  %d papers have no metadata side-file (see 'ose meta missing')\n", s.MissingMeta)
		}
		return
	}
	outputJSON(s)
}

// watchAndRebuild blocks until interrupted, rebuilding on input changes.
func watchAndRebuild(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	wcfg := watch.Config{
		Files:  []string{cfg.TablePath},
		Logger: logger,
		OnChange: func(context.Context) error {
			summary, err := explorer.Build(cfg, logger)
			if err != nil {
				return err
			}
			printBuildSummary(summary)
			return nil
		},
	}
	if cfg.MetaDir != "" {
		if info, err := os.Stat(cfg.MetaDir); err == nil && info.IsDir() {
			wcfg.Dirs = []string{cfg.MetaDir}
		} else {
			logger.Warn("side-file directory not found, watching the table only", zap.String("dir", cfg.MetaDir))
		}
	}

	w, err := watch.New(wcfg)
	if err != nil {
		exitWithError(ExitError, "creating watcher: %v", err)
	}
	if err := w.Start(ctx); err != nil {
		exitWithError(ExitError, "starting watcher: %v", err)
	}
	defer w.Stop()

	logger.Info("watching for changes", zap.String("table", cfg.TablePath), zap.String("meta_dir", cfg.MetaDir))
	if humanOutput {
		outputHuman("Watching %s and %s (Ctrl-C to stop)\n", cfg.TablePath, cfg.MetaDir)
	}

	<-ctx.Done()
	return nil
}
