package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ats/internal/observability"
	"github.com/jonathan/resume-ats/internal/planning"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute how many bullets fit and how they split across roles",
	Long:  "Picks a page count (or uses --pages), computes the bullet budget and allots it most recent role first.",
	RunE:  runPlan,
}

var (
	planResume string
	planPages  int
	planOut    string
)

func init() {
	planCmd.Flags().StringVarP(&planResume, "resume", "r", "", "Path to resume JSON (required)")
	planCmd.Flags().IntVar(&planPages, "pages", 0, "Target page count, 1 or 2 (default: chosen from content)")
	planCmd.Flags().StringVarP(&planOut, "out", "o", "", "Path to write the plan JSON (default stdout)")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	pages := planPages
	if pages == 0 {
		pages = fileConfig.TargetPages
	}
	if pages < 0 || pages > 2 {
		return fmt.Errorf("--pages must be 1 or 2, got %d", pages)
	}

	resume, err := readResume(firstNonEmpty(planResume, fileConfig.Resume))
	if err != nil {
		return err
	}

	plan := planning.Plan(resume, planning.Options{TargetPages: pages})

	if verboseMode() {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintPlan(plan)
	}
	return writeJSON(cmd.OutOrStdout(), planOut, plan)
}
