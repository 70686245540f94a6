// dds is a command-line front end for the dynamic difficulty scaler.
//
// Usage:
//
//	dds simulate <script>   - Replay engine events against a session
//	dds curves              - List available pacing curves
//	dds sessions            - List saved sessions
//	dds history <id>        - Show the reward log of a saved session
//	dds state <id>          - Show pacing telemetry of a saved session
//	dds config              - Print the effective configuration
//
// Global flags:
//
//	--config <path>       - Config file (YAML or TOML)
//	--difficulty <name>   - Scaling preset: easy, normal, hard
//	--db <path>           - Session database (default: ~/.dds/sessions.db)
//	--verbose             - Log scaling decisions
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Labrandor/DynamicDifficultyScaler/internal/config"
	"github.com/Labrandor/DynamicDifficultyScaler/internal/report"
)

var (
	// Global flags
	flagConfig     string
	flagDifficulty string
	flagDBPath     string
	flagVerbose    bool
	flagPlain      bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dds",
	Short: "Dynamic difficulty scaler - pace rewards against a visible clock",
	Long: `dds scales milestone values and time bonuses so a player's score tracks
a pacing curve toward a target score at a target visible time.

Available commands:
  simulate - Replay a script of engine events
  curves   - Show all pacing curves
  sessions - List or delete saved sessions
  history  - Show the reward log of a session
  state    - Show pacing telemetry of a session
  config   - Print the effective configuration

Examples:
  dds simulate run.yaml
  dds simulate run.yaml --save
  dds --difficulty hard simulate run.yaml
  dds history 6f1c...
  dds config --format toml`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Scaling preset (easy, normal, hard)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.dds/sessions.db", "Path to sessions database")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log every scaling decision")
	rootCmd.PersistentFlags().BoolVar(&flagPlain, "plain", false, "Disable styled output")

	// Add subcommands
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(curvesCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(configCmd)
}

func newLogger() *log.Logger {
	level := log.InfoLevel
	if flagVerbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "dds",
		Level:           level,
	})
}

// loadConfig loads the config file and applies the difficulty flag.
func loadConfig() (config.Config, error) {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	config.ApplyPreset(&cfg, preset)
	return cfg, nil
}

func newRenderer() *report.Renderer {
	styled := !flagPlain && term.IsTerminal(int(os.Stdout.Fd()))
	return report.New(os.Stdout, styled)
}
