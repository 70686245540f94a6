package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Labrandor/DynamicDifficultyScaler/internal/report"
	"github.com/Labrandor/DynamicDifficultyScaler/internal/storage"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show the reward log of a session",
	Long: `Display every milestone and time bonus recorded for a saved session.

Examples:
  dds history 6f1c...
  dds history 6f1c... --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 0, "Maximum number of entries (0 = all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	id := args[0]

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.RewardHistory(cmd.Context(), id, flagHistoryLimit)
	if err != nil {
		return err
	}
	if err := newRenderer().Render(report.HistoryTable(id, entries)); err != nil {
		return err
	}

	if len(entries) > 0 {
		var total float64
		for _, e := range entries {
			total += e.Scaled
		}
		fmt.Println()
		fmt.Printf("Total awarded: %s\n", report.Num(total))
	}
	return nil
}
