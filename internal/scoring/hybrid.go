package scoring

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-ats/internal/types"
)

// AIScorer produces a score record from an external, non-deterministic source
type AIScorer interface {
	Score(ctx context.Context, resume *types.Resume, profile *types.JobProfile) (types.ScoreRecord, error)
}

// HybridScorer blends an AI score with the rule-based score. It keeps no
// history of its own: callers pass a ScoreHistory in and get the extended
// copy back.
type HybridScorer struct {
	ai     AIScorer
	rule   *RuleScorer
	logger zerolog.Logger
}

// NewHybridScorer creates a hybrid scorer. A nil AI scorer makes every call
// fall back to the rule score.
func NewHybridScorer(ai AIScorer, logger zerolog.Logger) *HybridScorer {
	return &HybridScorer{
		ai:     ai,
		rule:   NewRuleScorer(),
		logger: logger,
	}
}

// Score runs both scorers concurrently and blends the results. When the AI
// scorer is absent or fails, the rule record is the final record and the
// attempt is marked as a fallback. The returned error is non-nil only when
// the context was cancelled before scoring finished.
func (h *HybridScorer) Score(
	ctx context.Context,
	resume *types.Resume,
	profile *types.JobProfile,
	retry int,
	history types.ScoreHistory,
) (types.ScoreRecord, types.ScoreHistory, error) {
	start := time.Now()

	var (
		ruleRecord types.ScoreRecord
		aiRecord   types.ScoreRecord
		aiErr      error
	)

	var g errgroup.Group
	g.Go(func() error {
		ruleRecord = h.rule.Score(resume, profile)
		return nil
	})
	if h.ai != nil {
		g.Go(func() error {
			aiRecord, aiErr = h.ai.Score(ctx, resume, profile)
			return nil
		})
	} else {
		aiErr = &AIScoreError{Message: "no AI scorer configured"}
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return types.ScoreRecord{}, history, err
	}

	attempt := types.ScoreAttempt{
		Rule:  ruleRecord.Overall,
		Retry: retry,
	}

	var final types.ScoreRecord
	if aiErr != nil {
		h.logger.Warn().Err(aiErr).Int("rule_score", ruleRecord.Overall).Msg("AI scoring unavailable, using rule score")
		final = ruleRecord
		attempt.FellBack = true
	} else {
		final = Blend(aiRecord, ruleRecord, retry)
		attempt.AI = aiRecord.Overall
	}

	attempt.Final = final.Overall
	attempt.Elapsed = time.Since(start)

	h.logger.Debug().
		Int("final", attempt.Final).
		Int("ai", attempt.AI).
		Int("rule", attempt.Rule).
		Int("retry", retry).
		Dur("elapsed", attempt.Elapsed).
		Msg("hybrid score")

	return final, history.Append(attempt), nil
}
