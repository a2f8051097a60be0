// Package regeneration runs the bounded score-and-improve loop. Each attempt
// scores the current resume, keeps the best version seen, and then either
// consolidates or improves it depending on how the pages fill.
package regeneration

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-ats/internal/consolidation"
	"github.com/jonathan/resume-ats/internal/lexicon"
	"github.com/jonathan/resume-ats/internal/pagefill"
	"github.com/jonathan/resume-ats/internal/planning"
	"github.com/jonathan/resume-ats/internal/scoring"
	"github.com/jonathan/resume-ats/internal/types"
)

const (
	// variationCount is how many variation styles a stalled attempt receives
	variationCount = 3
	// targetDensity is the page fill, as a fraction, the content plan steers toward
	targetDensity = 0.90
)

// ImproveRequest carries everything an improver needs for one round
type ImproveRequest struct {
	Resume         *types.Resume
	Profile        *types.JobProfile
	Score          types.ScoreRecord
	Fill           pagefill.Report
	Plan           types.ContentPlan
	ForceVariation bool
	Variations     []string
}

// ImproveReport describes what an improvement round changed
type ImproveReport struct {
	Replaced      int      `json:"replaced"`
	Added         int      `json:"added"`
	Duplicates    int      `json:"duplicates,omitempty"`
	KeywordsAdded []string `json:"keywords_added,omitempty"`
}

// Improver produces a better copy of a resume. The request resume must not be modified.
type Improver interface {
	Improve(ctx context.Context, req ImproveRequest) (*types.Resume, ImproveReport, error)
}

// Scorer scores one attempt and returns the history extended by it.
// scoring.HybridScorer is the production implementation.
type Scorer interface {
	Score(ctx context.Context, resume *types.Resume, profile *types.JobProfile, retry int, history types.ScoreHistory) (types.ScoreRecord, types.ScoreHistory, error)
}

// ruleScorer adapts the deterministic rule scorer to Scorer
type ruleScorer struct {
	rule *scoring.RuleScorer
	now  func() time.Time
}

func (s ruleScorer) Score(_ context.Context, resume *types.Resume, profile *types.JobProfile, retry int, history types.ScoreHistory) (types.ScoreRecord, types.ScoreHistory, error) {
	start := s.now()
	record := s.rule.Score(resume, profile)
	return record, history.Append(types.ScoreAttempt{
		Final:   record.Overall,
		Rule:    record.Overall,
		Retry:   retry,
		Elapsed: s.now().Sub(start),
	}), nil
}

// PageChecker reports how a resume fills its pages
type PageChecker interface {
	Check(ctx context.Context, resume *types.Resume) (pagefill.Report, error)
}

// EstimatedPages classifies page fill from the content-volume estimate
type EstimatedPages struct{}

// Check implements PageChecker
func (EstimatedPages) Check(_ context.Context, resume *types.Resume) (pagefill.Report, error) {
	return pagefill.Classify(planning.EstimateFills(resume)), nil
}

// Options wires the controller's collaborators. Nil fields fall back to rule
// scoring, no improvement, consolidation without polish and estimated pages.
type Options struct {
	Hybrid       Scorer
	Improver     Improver
	Consolidator *consolidation.Engine
	Pages        PageChecker
	Progress     ProgressFunc
}

// Controller runs the regeneration loop
type Controller struct {
	rule         Scorer
	hybrid       Scorer
	improver     Improver
	consolidator *consolidation.Engine
	pages        PageChecker
	progress     ProgressFunc
	logger       zerolog.Logger
	perm         func(n int) []int
	now          func() time.Time
}

// NewController creates a controller
func NewController(opts Options, logger zerolog.Logger) *Controller {
	c := &Controller{
		rule:         ruleScorer{rule: scoring.NewRuleScorer(), now: time.Now},
		hybrid:       opts.Hybrid,
		improver:     opts.Improver,
		consolidator: opts.Consolidator,
		pages:        opts.Pages,
		progress:     opts.Progress,
		logger:       logger,
		perm:         rand.Perm,
		now:          time.Now,
	}
	if c.consolidator == nil {
		c.consolidator = consolidation.NewEngine(nil, consolidation.Options{}, logger)
	}
	if c.pages == nil {
		c.pages = EstimatedPages{}
	}
	return c
}

// Result is the outcome of a run: the best resume seen and how it got there
type Result struct {
	Resume   *types.Resume      `json:"resume"`
	Score    types.ScoreRecord  `json:"score"`
	History  types.ScoreHistory `json:"history"`
	Stats    types.HistoryStats `json:"stats"`
	Fill     pagefill.Report    `json:"page_fill"`
	Plan     types.ContentPlan  `json:"plan"`
	Attempts int                `json:"attempts"`
	Reached  bool               `json:"reached_target"`
}

// Run scores and improves resume for up to cfg.MaxAttempts attempts,
// stopping early once the target score is reached. The best-scoring version
// is returned; on the earliest tie the first one wins. When ctx is cancelled
// the best result so far is returned together with the context error.
//
// A content plan for cfg.TargetPages bounds how many bullets each role may
// grow to. When cfg.TargetPages is set and the resume is estimated to run
// past it, the attempt consolidates down to the plan's bullet budget.
func (c *Controller) Run(ctx context.Context, resume *types.Resume, profile *types.JobProfile, cfg types.GenerationConfig) (*Result, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Message: "config failed validation", Cause: err}
	}
	if resume == nil || profile == nil {
		return nil, &ConfigError{Message: "resume and profile are required"}
	}

	current := resume.Clone()
	types.AssignIDs(current)

	plan := planning.Plan(current, planning.Options{TargetPages: cfg.TargetPages})
	c.logger.Debug().
		Int("target_pages", plan.TargetPages).
		Int("max_bullets", plan.MaxBullets).
		Int("planned_bullets", plan.TotalBullets).
		Msg("content plan")

	var (
		best           *Result
		history        types.ScoreHistory
		forceVariation bool
	)

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return c.finish(ctx, best, history, plan, err)
		}

		c.emit(Event{Stage: StageScoring, Attempt: attempt, Message: fmt.Sprintf("Attempt %d: scoring resume", attempt)})

		record, next, err := c.score(ctx, current, profile, attempt-1, history, cfg.HybridScoring)
		if err != nil {
			return c.finish(ctx, best, history, plan, err)
		}
		history = next

		if best == nil || record.Overall > best.Score.Overall {
			best = &Result{Resume: current.Clone(), Score: record}
		}
		c.emit(Event{
			Stage:   StageScored,
			Attempt: attempt,
			Message: fmt.Sprintf("Attempt %d scored %d/100", attempt, record.Overall),
			Score:   record.Overall,
			Best:    best.Score.Overall,
		})

		if record.Overall >= cfg.TargetScore {
			best.Reached = true
			break
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		forceVariation = history.Stale()
		step := attemptState{
			attempt:        attempt,
			record:         record,
			forceVariation: forceVariation,
			pageLimit:      cfg.TargetPages,
		}
		updated, changed := c.adjust(ctx, step, current, profile, &plan)
		if !changed {
			c.logger.Info().Int("attempt", attempt).Msg("no further changes possible, stopping")
			break
		}
		current = updated
	}

	return c.finish(ctx, best, history, plan, nil)
}

// attemptState is what adjust needs to know about the attempt just scored
type attemptState struct {
	attempt        int
	record         types.ScoreRecord
	forceVariation bool
	// pageLimit is the requested page count, zero when none was requested
	pageLimit int
}

// score runs the hybrid scorer when requested and configured, otherwise
// the rule scorer
func (c *Controller) score(
	ctx context.Context,
	resume *types.Resume,
	profile *types.JobProfile,
	retry int,
	history types.ScoreHistory,
	hybrid bool,
) (types.ScoreRecord, types.ScoreHistory, error) {
	if hybrid && c.hybrid != nil {
		return c.hybrid.Score(ctx, resume, profile, retry, history)
	}
	return c.rule.Score(ctx, resume, profile, retry, history)
}

// overflows reports whether resume is estimated to run past pages
func overflows(resume *types.Resume, pages int) bool {
	if pages <= 0 {
		return false
	}
	estimated := planning.EstimatePageCount(
		resume.ExperienceBulletCount(),
		planning.CountSections(resume),
		resume.Summary != "",
	)
	return estimated > pages
}

// adjust applies one page-driven strategy and reports whether the resume
// changed. Improvement rounds feed the page density back into plan.
func (c *Controller) adjust(
	ctx context.Context,
	step attemptState,
	current *types.Resume,
	profile *types.JobProfile,
	plan *types.ContentPlan,
) (*types.Resume, bool) {
	attempt, record := step.attempt, step.record

	if overflows(current, step.pageLimit) {
		c.emit(Event{
			Stage:   StageConsolidating,
			Attempt: attempt,
			Message: fmt.Sprintf("Attempt %d: trimming to %d bullets to fit %d page(s)", attempt, plan.MaxBullets, step.pageLimit),
		})
		out, report := c.consolidator.ConsolidateTo(ctx, current, record, plan.MaxBullets)
		c.logConsolidation(attempt, report)
		return out, len(report.Removed) > 0 || report.Polished > 0
	}

	fill, err := c.pages.Check(ctx, current)
	if err != nil {
		c.logger.Warn().Err(err).Int("attempt", attempt).Msg("page fill check failed, assuming on target")
		fill = pagefill.Classify(nil)
	}

	if fill.Status == pagefill.NeedsConsolidation {
		c.emit(Event{Stage: StageConsolidating, Attempt: attempt, Message: fill.Suggestion})
		out, report := c.consolidator.Consolidate(ctx, current, record)
		c.logConsolidation(attempt, report)
		return out, len(report.Removed) > 0 || report.Polished > 0
	}

	if c.improver == nil {
		return current, false
	}

	if fill.Pages > 0 {
		*plan = planning.AdjustForDensity(*plan, fill.LastPageFill/100, targetDensity)
	}

	req := ImproveRequest{
		Resume:         current,
		Profile:        profile,
		Score:          record,
		Fill:           fill,
		Plan:           *plan,
		ForceVariation: step.forceVariation,
	}
	message := fmt.Sprintf("Attempt %d: improving content", attempt)
	if step.forceVariation {
		req.Variations = c.variations()
		message = fmt.Sprintf("Attempt %d: score stalled at %d, forcing variation", attempt, record.Overall)
	}
	c.emit(Event{Stage: StageImproving, Attempt: attempt, Message: message, Score: record.Overall})

	out, report, err := c.improver.Improve(ctx, req)
	if err != nil {
		// the next attempt rescores the same resume, which forces variation
		c.logger.Warn().Err(err).Int("attempt", attempt).Msg("improvement failed")
		return current, true
	}
	c.logger.Info().
		Int("attempt", attempt).
		Int("replaced", report.Replaced).
		Int("added", report.Added).
		Int("duplicates", report.Duplicates).
		Strs("keywords_added", report.KeywordsAdded).
		Bool("variation", step.forceVariation).
		Msg("improved resume")
	return out, true
}

func (c *Controller) logConsolidation(attempt int, report consolidation.Report) {
	if report.PolishErr != nil {
		c.logger.Warn().Err(report.PolishErr).Msg("consolidation polish skipped")
	}
	c.logger.Info().
		Int("attempt", attempt).
		Int("removed", len(report.Removed)).
		Int("polished", report.Polished).
		Msg("consolidated resume")
}

// variations picks distinct variation styles at random
func (c *Controller) variations() []string {
	styles := lexicon.VariationStyles
	order := c.perm(len(styles))
	out := make([]string, 0, variationCount)
	for _, i := range order[:min(variationCount, len(order))] {
		out = append(out, styles[i])
	}
	return out
}

func (c *Controller) finish(ctx context.Context, best *Result, history types.ScoreHistory, plan types.ContentPlan, err error) (*Result, error) {
	if best == nil {
		c.emit(Event{Stage: StageFailed, Message: "no attempt completed"})
		if err == nil {
			err = fmt.Errorf("no attempt completed")
		}
		return nil, err
	}

	best.History = history
	best.Plan = plan
	best.Stats = history.Stats()
	best.Attempts = history.Len()
	if fill, fillErr := c.pages.Check(ctx, best.Resume); fillErr == nil {
		best.Fill = fill
	}

	message := fmt.Sprintf("Best score %d/100 after %d attempts", best.Score.Overall, best.Attempts)
	if best.Reached {
		message = fmt.Sprintf("Reached target with %d/100 after %d attempts", best.Score.Overall, best.Attempts)
	}
	c.emit(Event{Stage: StageComplete, Attempt: best.Attempts, Message: message, Score: best.Score.Overall, Best: best.Score.Overall})

	c.logger.Info().
		Int("best", best.Score.Overall).
		Ints("progression", history.Progression()).
		Bool("reached", best.Reached).
		Msg("regeneration finished")
	return best, err
}

func (c *Controller) emit(e Event) {
	if c.progress == nil {
		return
	}
	e.Time = c.now()
	c.progress(e)
}
