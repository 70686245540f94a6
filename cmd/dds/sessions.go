package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Labrandor/DynamicDifficultyScaler/internal/report"
	"github.com/Labrandor/DynamicDifficultyScaler/internal/storage"
)

var flagLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List saved sessions",
	Long: `Display the most recently updated sessions in the database.

Examples:
  dds sessions
  dds sessions --limit 5
  dds sessions delete 6f1c...`,
	Args: cobra.NoArgs,
	RunE: runSessions,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved session and its rewards",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	sessionsCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Maximum number of sessions to show")
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.RecentSessions(cmd.Context(), flagLimit)
	if err != nil {
		return err
	}
	if err := newRenderer().Render(report.SessionsTable(records)); err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println()
		fmt.Println("Run 'dds simulate <script> --save' to store a session.")
	}
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteSession(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}
