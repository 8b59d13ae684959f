package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rerite/openscience-explorer/internal/config"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the configuration file",
	Long: `Show or create the configuration file.

Settings are read from --config (default ose.yml), then overridden by
environment variables (also read from .env):
  OSE_TABLE, OSE_META_DIR, OSE_OUTPUT, OSE_DB,
  OPENALEX_MAILTO, OPENALEX_RATE_LIMIT
Command flags override both.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE:  runConfigInit,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	if humanOutput {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			exitWithError(ExitError, "encoding config: %v", err)
		}
		outputHuman("%s", data)
		return nil
	}
	return outputJSON(cfg)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil && !configInitForce {
		exitWithError(ExitConfigError, "%s already exists (use --force to overwrite)", configPath)
	}

	if err := config.Default().Save(configPath); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("Wrote default configuration to %s\n", configPath)
		return nil
	}
	return outputJSON(StatusResponse{Status: "created", Path: configPath})
}
