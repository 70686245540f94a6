package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Labrandor/DynamicDifficultyScaler/internal/report"
	"github.com/Labrandor/DynamicDifficultyScaler/internal/sim"
	"github.com/Labrandor/DynamicDifficultyScaler/internal/storage"
	"github.com/Labrandor/DynamicDifficultyScaler/pkg/dds"
)

var (
	flagSave   bool
	flagResume string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <script>",
	Short: "Replay a script of engine events",
	Long: `Replay a YAML script of clock reports and scoring events against a new
session and print every scaling decision.

With --save the rewards and the final session state are stored in the
database. --resume continues a saved session instead of starting fresh.

Examples:
  dds simulate run.yaml
  dds simulate run.yaml --save
  dds simulate more.yaml --resume 6f1c... --save`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().BoolVar(&flagSave, "save", false, "Store rewards and final state in the database")
	simulateCmd.Flags().StringVar(&flagResume, "resume", "", "Continue a saved session by ID")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := newLogger()

	script, err := sim.LoadScript(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	session, err := cfg.NewSession(dds.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var store *storage.Store
	if flagSave || flagResume != "" {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	var recorder sim.Recorder
	if flagSave {
		recorder = store
	}
	runner := sim.NewRunner(session, recorder, logger)

	if flagResume != "" {
		rec, err := store.LoadSnapshot(ctx, flagResume)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("no saved session %q", flagResume)
		}
		if err := session.Restore(rec.State); err != nil {
			return fmt.Errorf("cannot resume %s: %w", flagResume, err)
		}
		runner.SetPoints(rec.Points)
		logger.Info("resumed session", "session", session.ID(), "points", rec.Points, "tick", rec.State.Tick)
	}

	result, err := runner.Run(ctx, script)
	if err != nil && !errors.Is(err, ctx.Err()) {
		return err
	}
	if err != nil {
		logger.Warn("replay interrupted", "steps", len(result.Steps))
	}

	r := newRenderer()
	title := script.Name
	if title == "" {
		title = args[0]
	}
	if err := r.Render(report.StepsTable("Replay - "+title, result.Steps)); err != nil {
		return err
	}
	gs, err := session.GameState(runner.Points())
	if err != nil {
		return err
	}
	fmt.Println()
	if err := r.Render(report.GameStateTable("Final state", gs)); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Session: %s\n", result.SessionID)
	if result.Skipped > 0 {
		fmt.Printf("Skipped events: %d\n", result.Skipped)
	}

	if flagSave {
		st, err := session.Snapshot()
		if err != nil {
			return err
		}
		if err := store.SaveSnapshot(ctx, st, runner.Points(), script.Name); err != nil {
			return err
		}
		fmt.Printf("Saved. Run 'dds history %s' to see its rewards.\n", result.SessionID)
	}
	return nil
}
