package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ats/internal/consolidation"
	"github.com/jonathan/resume-ats/internal/observability"
	"github.com/jonathan/resume-ats/internal/types"
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Trim weak bullets so the resume drops a sparse trailing page",
	Long: `Removes the weakest bullets, oldest roles first, using the weak bullets and
missing keywords of a ScoreRecord. When an LLM key is configured the remaining
weak bullets are also rewritten.`,
	RunE: runConsolidate,
}

var (
	consolidateResume string
	consolidateScore  string
	consolidateOut    string
)

func init() {
	consolidateCmd.Flags().StringVarP(&consolidateResume, "resume", "r", "", "Path to resume JSON (required)")
	consolidateCmd.Flags().StringVarP(&consolidateScore, "score", "s", "", "Path to ScoreRecord JSON from the score command (required)")
	consolidateCmd.Flags().StringVarP(&consolidateOut, "out", "o", "", "Path to write the consolidated resume (required)")

	if err := consolidateCmd.MarkFlagRequired("score"); err != nil {
		panic(fmt.Sprintf("failed to mark score flag as required: %v", err))
	}

	rootCmd.AddCommand(consolidateCmd)
}

func runConsolidate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := firstNonEmpty(consolidateOut, fileConfig.Out)
	if out == "" {
		return fmt.Errorf("--out is required")
	}
	resume, err := readResume(firstNonEmpty(consolidateResume, fileConfig.Resume))
	if err != nil {
		return err
	}
	var score types.ScoreRecord
	if err := readJSON(consolidateScore, &score); err != nil {
		return err
	}

	var rewriter consolidation.Rewriter
	if client, err := newLLMClient(ctx, fileConfig); err != nil {
		logger.Debug().Err(err).Msg("LLM unavailable, skipping polish")
	} else {
		defer client.Close() //nolint:errcheck
		rewriter = consolidation.NewLLMRewriter(client)
	}

	consolidated, report := consolidation.NewEngine(rewriter, consolidation.Options{}, logger).Consolidate(ctx, resume, score)
	if err := writeJSON(cmd.OutOrStdout(), out, consolidated); err != nil {
		return err
	}

	if verboseMode() {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintConsolidation(report)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d bullets, polished %d; wrote %s\n", len(report.Removed), report.Polished, out)
	return nil
}
