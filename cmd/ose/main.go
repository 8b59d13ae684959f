// Package main provides the ose CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rerite/openscience-explorer/internal/config"
	"github.com/rerite/openscience-explorer/internal/explorer"
	"github.com/rerite/openscience-explorer/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	configPath  string
	verbose     bool

	logger = zap.NewNop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is set, so cobra errors are printed here
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ose",
	Short: "Open Science Explorer page generator",
	Long: `ose turns a table of publications and per-DOI metadata side-files into a
self-contained interactive explorer page.

Each publication is a point on a 2-D embedding, colored by topic and drawn as
a star when its code (or data) is publicly available.

All commands output JSON by default; use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigFile, "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = Version
}

// mustLoadConfig loads the file config, applies .env and environment
// overrides, and validates the result. Exits on error.
func mustLoadConfig() *config.Config {
	config.LoadEnv()

	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return cfg
}

// mustLoadDataset reads and normalizes the inputs, exits on error.
func mustLoadDataset(cfg *config.Config) *explorer.Dataset {
	ds, err := explorer.Load(cfg, logger)
	if err != nil {
		exitWithError(dataExitCode(err), "loading dataset: %v", err)
	}
	return ds
}

// dataExitCode maps input failures onto exit codes.
func dataExitCode(err error) int {
	var pathErr *os.PathError
	if errors.Is(err, explorer.ErrMissingColumn) || errors.As(err, &pathErr) {
		return ExitDataError
	}
	return ExitError
}

// mustOpenDatabase opens the SQLite index, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(cfg *config.Config) *storage.DB {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		exitWithError(ExitError, "creating database directory: %v", err)
	}
	db, err := storage.OpenDB(cfg.DBPath)
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}
