// Package consolidation trims a resume that overflows onto a sparse trailing
// page. Phase 1 removes the weakest bullets one at a time until the bullet
// target is met. Phase 2 asks a Rewriter to polish the bullets still below
// the quality floor, swapping them in by ID or not at all.
package consolidation

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-ats/internal/metrics"
	"github.com/jonathan/resume-ats/internal/types"
)

// Defaults
const (
	DefaultTargetBullets = 14
	DefaultPolishFloor   = 50
	DefaultBatchSize     = 5
	maxPolishKeywords    = 8
)

// Options tunes the engine. Zero fields take the defaults.
type Options struct {
	TargetBullets int
	PolishFloor   int
	BatchSize     int
}

func (o Options) withDefaults() Options {
	if o.TargetBullets <= 0 {
		o.TargetBullets = DefaultTargetBullets
	}
	if o.PolishFloor <= 0 {
		o.PolishFloor = DefaultPolishFloor
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	return o
}

// RewriteRequest is one batch of weak bullets to polish
type RewriteRequest struct {
	Bullets  []types.Bullet
	Keywords []string
}

// Rewriter returns exactly one replacement text per request bullet, in order
type Rewriter interface {
	Rewrite(ctx context.Context, req RewriteRequest) ([]string, error)
}

// Report describes what a consolidation pass changed
type Report struct {
	Removed     []types.Bullet `json:"removed"`
	Polished    int            `json:"polished"`
	PolishErr   error          `json:"-"`
	PolishError string         `json:"polish_error,omitempty"`
}

// Engine runs the two consolidation phases
type Engine struct {
	rewriter Rewriter
	opts     Options
	logger   zerolog.Logger
}

// NewEngine creates an engine. A nil rewriter skips Phase 2.
func NewEngine(rewriter Rewriter, opts Options, logger zerolog.Logger) *Engine {
	return &Engine{
		rewriter: rewriter,
		opts:     opts.withDefaults(),
		logger:   logger,
	}
}

// Consolidate returns a trimmed and polished copy of resume. The input is
// not modified. Bullets without IDs get fresh ones on the copy.
func (e *Engine) Consolidate(ctx context.Context, resume *types.Resume, score types.ScoreRecord) (*types.Resume, Report) {
	return e.ConsolidateTo(ctx, resume, score, e.opts.TargetBullets)
}

// ConsolidateTo is Consolidate with Phase 1 trimming to target bullets
// instead of the engine's default. A target below 1 uses the default.
func (e *Engine) ConsolidateTo(ctx context.Context, resume *types.Resume, score types.ScoreRecord, target int) (*types.Resume, Report) {
	out := resume.Clone()
	if out == nil {
		return nil, Report{}
	}
	types.AssignIDs(out)
	if target < 1 {
		target = e.opts.TargetBullets
	}

	weak := metrics.NewWeakSet(score.WeakBullets...)
	report := Report{Removed: trim(out, weak, target)}

	e.logger.Debug().
		Int("removed", len(report.Removed)).
		Int("remaining", out.ExperienceBulletCount()).
		Int("target", target).
		Msg("consolidation phase 1 complete")

	if e.rewriter != nil {
		report.Polished, report.PolishErr = e.polish(ctx, out, weak, score.MissingKeywords)
		if report.PolishErr != nil {
			report.PolishError = report.PolishErr.Error()
			e.logger.Warn().Err(report.PolishErr).Msg("polish skipped, keeping original bullets")
		}
	}

	return out, report
}

// trim removes the weakest bullet until the target is met. Experiences are
// scanned oldest start date first (stable on list order), bullets in list
// order, and only a strictly lower strength replaces the current pick, so
// among equal strengths the first bullet in that scan order is removed.
func trim(r *types.Resume, weak metrics.WeakSet, target int) []types.Bullet {
	var removed []types.Bullet
	for r.ExperienceBulletCount() > target {
		victim, ok := weakestBullet(r, weak)
		if !ok {
			break
		}
		r.RemoveBullet(victim.ID)
		removed = append(removed, victim)
	}
	return removed
}

// weakestBullet returns the bullet Phase 1 removes next
func weakestBullet(r *types.Resume, weak metrics.WeakSet) (types.Bullet, bool) {
	var (
		victim types.Bullet
		lowest int
		found  bool
	)
	for _, i := range oldestFirst(r.Experience) {
		for _, b := range r.Experience[i].Bullets {
			s := metrics.Strength(b.Text, weak)
			if !found || s < lowest {
				victim, lowest, found = b, s, true
			}
		}
	}
	return victim, found
}

// oldestFirst returns experience indices ordered by start date ascending.
// Unparseable dates sort as oldest.
func oldestFirst(exps []types.Experience) []int {
	order := make([]int, len(exps))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return exps[order[a]].StartTime().Before(exps[order[b]].StartTime())
	})
	return order
}

// polish rewrites up to one batch of sub-floor bullets. The swap is
// all-or-nothing: any error or count mismatch leaves every bullet unchanged.
func (e *Engine) polish(ctx context.Context, r *types.Resume, weak metrics.WeakSet, missing []string) (int, error) {
	var batch []types.Bullet
	for _, exp := range r.Experience {
		for _, b := range exp.Bullets {
			if len(batch) == e.opts.BatchSize {
				break
			}
			if metrics.Strength(b.Text, weak) < e.opts.PolishFloor {
				batch = append(batch, b)
			}
		}
	}
	if len(batch) == 0 {
		return 0, nil
	}

	keywords := missing
	if len(keywords) > maxPolishKeywords {
		keywords = keywords[:maxPolishKeywords]
	}

	replacements, err := e.rewriter.Rewrite(ctx, RewriteRequest{Bullets: batch, Keywords: keywords})
	if err != nil {
		return 0, &RewriteError{Message: "rewriter call failed", Cause: err}
	}
	if len(replacements) != len(batch) {
		return 0, &CountMismatchError{Want: len(batch), Got: len(replacements)}
	}

	polished := 0
	for i, b := range batch {
		text := metrics.Sanitize(replacements[i])
		if text == "" {
			continue
		}
		if r.ReplaceBulletText(b.ID, text) {
			polished++
		}
	}
	return polished, nil
}
