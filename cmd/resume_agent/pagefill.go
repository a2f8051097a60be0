package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ats/internal/observability"
	"github.com/jonathan/resume-ats/internal/pagefill"
)

var pagefillCmd = &cobra.Command{
	Use:   "pagefill",
	Short: "Classify how well a rendered PDF fills its pages",
	Long:  "Reads a rendered resume PDF, estimates how full each page is and reports whether it needs more content or consolidation.",
	RunE:  runPageFill,
}

var (
	pagefillPDF string
	pagefillOut string
)

func init() {
	pagefillCmd.Flags().StringVar(&pagefillPDF, "pdf", "", "Path to the rendered resume PDF (required)")
	pagefillCmd.Flags().StringVarP(&pagefillOut, "out", "o", "", "Path to write the report JSON (default stdout)")

	if err := pagefillCmd.MarkFlagRequired("pdf"); err != nil {
		panic(fmt.Sprintf("failed to mark pdf flag as required: %v", err))
	}

	rootCmd.AddCommand(pagefillCmd)
}

func runPageFill(cmd *cobra.Command, _ []string) error {
	report, err := pagefill.CheckPDF(pagefillPDF)
	if err != nil {
		return err
	}

	if verboseMode() {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintPageFill(report)
	}
	return writeJSON(cmd.OutOrStdout(), pagefillOut, report)
}
