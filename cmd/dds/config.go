package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Labrandor/DynamicDifficultyScaler/internal/config"
)

var flagFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after the search order and the difficulty preset
have been applied. The output can be saved as a starting config file.

Examples:
  dds config > ~/.dds/configs/dds.yaml
  dds --difficulty hard config --format toml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagFormat, "format", "yaml", "Output format (yaml or toml)")
}

func runConfig(cmd *cobra.Command, args []string) error {
	format := config.Format(flagFormat)
	if format != config.FormatYAML && format != config.FormatTOML {
		return fmt.Errorf("unknown format %q (want yaml or toml)", flagFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := cfg.Build(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	data, err := config.Encode(cfg, format)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
