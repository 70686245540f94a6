package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Labrandor/DynamicDifficultyScaler/internal/report"
	"github.com/Labrandor/DynamicDifficultyScaler/internal/storage"
	"github.com/Labrandor/DynamicDifficultyScaler/pkg/dds"
)

var stateCmd = &cobra.Command{
	Use:   "state <id>",
	Short: "Show pacing telemetry of a saved session",
	Long: `Restore a saved session under the current configuration and show where
its score stands against the pacing curve.

Examples:
  dds state 6f1c...
  dds --difficulty easy state 6f1c...`,
	Args: cobra.ExactArgs(1),
	RunE: runState,
}

func runState(cmd *cobra.Command, args []string) error {
	id := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.LoadSnapshot(cmd.Context(), id)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("no saved session %q", id)
	}

	session, err := cfg.NewSession(dds.WithID(id))
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := session.Restore(rec.State); err != nil {
		return err
	}
	gs, err := session.GameState(rec.Points)
	if err != nil {
		return err
	}
	return newRenderer().Render(report.GameStateTable("Session "+id, gs))
}
