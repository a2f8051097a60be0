package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ats/internal/observability"
	"github.com/jonathan/resume-ats/internal/scoring"
	"github.com/jonathan/resume-ats/internal/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a job profile",
	Long: `Scores a resume with the deterministic rule scorer and prints the ScoreRecord
as JSON. With --hybrid the LLM scores it too and the two are blended; without
an LLM key the rule score is used.`,
	RunE: runScore,
}

var (
	scoreResume  string
	scoreProfile string
	scoreHybrid  bool
	scoreOut     string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreResume, "resume", "r", "", "Path to resume JSON (required)")
	scoreCmd.Flags().StringVarP(&scoreProfile, "profile", "p", "", "Path to job profile JSON (required)")
	scoreCmd.Flags().BoolVar(&scoreHybrid, "hybrid", false, "Blend the LLM score with the rule score")
	scoreCmd.Flags().StringVarP(&scoreOut, "out", "o", "", "Path to write the score JSON (default stdout)")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resume, err := readResume(firstNonEmpty(scoreResume, fileConfig.Resume))
	if err != nil {
		return err
	}
	profilePath := firstNonEmpty(scoreProfile, fileConfig.Profile)
	if profilePath == "" {
		return fmt.Errorf("--profile is required")
	}
	profile, err := readProfile(profilePath)
	if err != nil {
		return err
	}

	var record types.ScoreRecord
	if scoreHybrid || fileConfig.HybridScoring {
		var ai scoring.AIScorer
		client, err := newLLMClient(ctx, fileConfig)
		if err != nil {
			logger.Warn().Err(err).Msg("LLM unavailable, using the rule score")
		} else {
			defer client.Close() //nolint:errcheck
			ai = scoring.NewLLMScorer(client)
		}

		var history types.ScoreHistory
		record, history, err = scoring.NewHybridScorer(ai, logger).Score(ctx, resume, profile, 0, types.ScoreHistory{})
		if err != nil {
			return fmt.Errorf("scoring failed: %w", err)
		}
		if n := history.Len(); n > 0 && history.Attempts[n-1].FellBack {
			logger.Info().Msg("hybrid scoring fell back to the rule score")
		}
	} else {
		record = scoring.NewRuleScorer().Score(resume, profile)
	}

	if verboseMode() {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintScore(record)
	}
	return writeJSON(cmd.OutOrStdout(), scoreOut, record)
}
