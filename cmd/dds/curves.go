package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Labrandor/DynamicDifficultyScaler/internal/report"
	"github.com/Labrandor/DynamicDifficultyScaler/pkg/dds"
)

var curvesCmd = &cobra.Command{
	Use:   "curves",
	Short: "List all pacing curves",
	Long:  `Shows every pacing curve that can be named in the config's pacing.curve.`,
	Args:  cobra.NoArgs,
	RunE:  runCurves,
}

func runCurves(cmd *cobra.Command, args []string) error {
	if err := newRenderer().Render(report.CurvesTable(dds.Curves())); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("Set 'pacing.curve' in the config to choose one.")
	return nil
}
