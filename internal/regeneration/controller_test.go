package regeneration

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ats/internal/lexicon"
	"github.com/jonathan/resume-ats/internal/pagefill"
	"github.com/jonathan/resume-ats/internal/planning"
	"github.com/jonathan/resume-ats/internal/types"
)

type scriptedScorer struct {
	scores []int
	seen   []*types.Resume
}

func (s *scriptedScorer) Score(_ context.Context, r *types.Resume, _ *types.JobProfile, retry int, h types.ScoreHistory) (types.ScoreRecord, types.ScoreHistory, error) {
	n := len(s.seen)
	s.seen = append(s.seen, r.Clone())
	score := s.scores[min(n, len(s.scores)-1)]
	return types.ScoreRecord{Overall: score}, h.Append(types.ScoreAttempt{Final: score, Retry: retry}), nil
}

type stubImprover struct {
	requests []ImproveRequest
	err      error
}

func (s *stubImprover) Improve(_ context.Context, req ImproveRequest) (*types.Resume, ImproveReport, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, ImproveReport{}, s.err
	}
	out, n := planning.Distribute(req.Resume, []string{fmt.Sprintf("Improved bullet %d", len(s.requests))}, planning.HardCaps)
	return out, ImproveReport{Added: n}, nil
}

type fixedPages struct {
	report pagefill.Report
}

func (f fixedPages) Check(context.Context, *types.Resume) (pagefill.Report, error) {
	return f.report, nil
}

var underfilled = fixedPages{report: pagefill.Classify([]float64{60})}

func testResume(n int) *types.Resume {
	exp := types.Experience{Company: "Acme", Role: "Engineer", StartDate: "2021-01"}
	for i := 0; i < n; i++ {
		exp.Bullets = append(exp.Bullets, types.NewBullet(fmt.Sprintf("Wrote docs %d", i)))
	}
	return &types.Resume{
		Basics:     &types.Basics{Name: "Ada Lovelace", Email: "ada@example.com"},
		Experience: []types.Experience{exp},
		Skills:     &types.Skills{Tools: []string{"Go"}},
	}
}

var testProfile = &types.JobProfile{RoleTitle: "Backend Engineer", KeySkills: []string{"Go", "Kafka"}}

func newTestController(scorer Scorer, improver Improver, pages PageChecker, events *[]Event) *Controller {
	opts := Options{Hybrid: scorer, Pages: pages}
	if improver != nil {
		opts.Improver = improver
	}
	if events != nil {
		opts.Progress = func(e Event) { *events = append(*events, e) }
	}
	return NewController(opts, zerolog.Nop())
}

func stages(events []Event) []Stage {
	out := make([]Stage, len(events))
	for i, e := range events {
		out[i] = e.Stage
	}
	return out
}

func TestRun_StopsAtTarget(t *testing.T) {
	scorer := &scriptedScorer{scores: []int{70, 80, 93}}
	improver := &stubImprover{}
	var events []Event

	result, err := newTestController(scorer, improver, underfilled, &events).
		Run(context.Background(), testResume(2), testProfile, types.GenerationConfig{HybridScoring: true})
	require.NoError(t, err)

	assert.True(t, result.Reached)
	assert.Equal(t, 93, result.Score.Overall)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, []int{70, 80, 93}, result.History.Progression())
	assert.Equal(t, 23, result.Stats.Improvement)
	assert.Len(t, improver.requests, 2)
	assert.Equal(t, 4, result.Resume.ExperienceBulletCount(), "two improvement rounds added a bullet each")

	assert.Equal(t, []Stage{
		StageScoring, StageScored, StageImproving,
		StageScoring, StageScored, StageImproving,
		StageScoring, StageScored, StageComplete,
	}, stages(events))
	assert.Contains(t, events[len(events)-1].Message, "Reached target")
}

func TestRun_KeepsBestWhenTargetMissed(t *testing.T) {
	scorer := &scriptedScorer{scores: []int{70, 85, 80}}
	improver := &stubImprover{}

	result, err := newTestController(scorer, improver, underfilled, nil).
		Run(context.Background(), testResume(2), testProfile, types.GenerationConfig{MaxAttempts: 3, HybridScoring: true})
	require.NoError(t, err)

	assert.False(t, result.Reached)
	assert.Equal(t, 85, result.Score.Overall)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, types.BulletTexts(scorer.seen[1].Experience[0].Bullets), types.BulletTexts(result.Resume.Experience[0].Bullets))
	assert.Len(t, improver.requests, 2, "the last attempt is not improved")
}

func TestRun_StaleScoreForcesVariation(t *testing.T) {
	scorer := &scriptedScorer{scores: []int{70, 70, 75}}
	improver := &stubImprover{}
	c := newTestController(scorer, improver, underfilled, nil)
	c.perm = func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = n - 1 - i
		}
		return out
	}

	_, err := c.Run(context.Background(), testResume(2), testProfile, types.GenerationConfig{MaxAttempts: 3, HybridScoring: true})
	require.NoError(t, err)

	require.Len(t, improver.requests, 2)
	assert.False(t, improver.requests[0].ForceVariation)
	assert.Empty(t, improver.requests[0].Variations)

	n := len(lexicon.VariationStyles)
	assert.True(t, improver.requests[1].ForceVariation)
	assert.Equal(t, []string{
		lexicon.VariationStyles[n-1],
		lexicon.VariationStyles[n-2],
		lexicon.VariationStyles[n-3],
	}, improver.requests[1].Variations)
}

func TestRun_ConsolidatesSparseTrailingPage(t *testing.T) {
	scorer := &scriptedScorer{scores: []int{60, 95}}
	improver := &stubImprover{}
	pages := fixedPages{report: pagefill.Classify([]float64{100, 10})}
	var events []Event

	result, err := newTestController(scorer, improver, pages, &events).
		Run(context.Background(), testResume(20), testProfile, types.GenerationConfig{HybridScoring: true})
	require.NoError(t, err)

	assert.Empty(t, improver.requests)
	require.Len(t, scorer.seen, 2)
	assert.Equal(t, 14, scorer.seen[1].ExperienceBulletCount())
	assert.Equal(t, 14, result.Resume.ExperienceBulletCount())
	assert.Contains(t, stages(events), StageConsolidating)
}

func TestRun_StopsWhenNothingCanChange(t *testing.T) {
	scorer := &scriptedScorer{scores: []int{50}}

	result, err := newTestController(scorer, nil, underfilled, nil).
		Run(context.Background(), testResume(2), testProfile, types.GenerationConfig{HybridScoring: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Attempts)
	assert.False(t, result.Reached)
}

func TestRun_TargetPagesBoundsContent(t *testing.T) {
	tests := []struct {
		name           string
		targetPages    int
		wantBullets    int
		wantAttempts   int
		wantReached    bool
		wantMaxBullets int
	}{
		{name: "one page trims to the plan budget", targetPages: 1, wantBullets: 18, wantAttempts: 2, wantReached: true, wantMaxBullets: 18},
		{name: "two pages leave the resume alone", targetPages: 2, wantBullets: 25, wantAttempts: 1, wantReached: false, wantMaxBullets: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := &scriptedScorer{scores: []int{60, 95}}
			cfg := types.GenerationConfig{HybridScoring: true, TargetPages: tt.targetPages}

			result, err := newTestController(scorer, nil, underfilled, nil).
				Run(context.Background(), testResume(25), testProfile, cfg)
			require.NoError(t, err)

			assert.Equal(t, tt.wantBullets, result.Resume.ExperienceBulletCount())
			assert.Equal(t, tt.wantAttempts, result.Attempts)
			assert.Equal(t, tt.wantReached, result.Reached)
			assert.Equal(t, tt.targetPages, result.Plan.TargetPages)
			assert.Equal(t, tt.wantMaxBullets, result.Plan.MaxBullets)
		})
	}
}

func TestRun_ImproveRequestCarriesAdjustedPlan(t *testing.T) {
	scorer := &scriptedScorer{scores: []int{70, 95}}
	improver := &stubImprover{}

	result, err := newTestController(scorer, improver, underfilled, nil).
		Run(context.Background(), testResume(2), testProfile, types.GenerationConfig{HybridScoring: true})
	require.NoError(t, err)

	require.Len(t, improver.requests, 1)
	plan := improver.requests[0].Plan
	assert.Equal(t, 1, plan.TargetPages)
	require.Len(t, plan.Allotments, 1)
	assert.Equal(t, 11, plan.Allotments[0].Bullets, "a 60% page raises the allotment by one")
	assert.Equal(t, plan, result.Plan)
}

func TestRun_ImproverErrorContinues(t *testing.T) {
	scorer := &scriptedScorer{scores: []int{70}}
	improver := &stubImprover{err: errors.New("llm down")}

	result, err := newTestController(scorer, improver, underfilled, nil).
		Run(context.Background(), testResume(2), testProfile, types.GenerationConfig{MaxAttempts: 3, HybridScoring: true})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Attempts)
	assert.Len(t, improver.requests, 2)
	assert.True(t, improver.requests[1].ForceVariation)
}

func TestRun_RuleScoringWhenHybridDisabled(t *testing.T) {
	scorer := &scriptedScorer{scores: []int{100}}

	result, err := newTestController(scorer, nil, underfilled, nil).
		Run(context.Background(), testResume(3), testProfile, types.GenerationConfig{TargetScore: 1})
	require.NoError(t, err)

	assert.Empty(t, scorer.seen, "hybrid scorer is only used when requested")
	assert.True(t, result.Reached)
	require.Equal(t, 1, result.History.Len())
	attempt := result.History.Attempts[0]
	assert.Equal(t, attempt.Rule, attempt.Final)
	assert.NotZero(t, result.Score.Overall)
}

func TestRun_AssignsBulletIDs(t *testing.T) {
	scorer := &scriptedScorer{scores: []int{95}}
	input := testResume(2)

	result, err := newTestController(scorer, nil, underfilled, nil).
		Run(context.Background(), input, testProfile, types.GenerationConfig{HybridScoring: true})
	require.NoError(t, err)

	for _, b := range result.Resume.Experience[0].Bullets {
		assert.NotEmpty(t, b.ID)
	}
	assert.Empty(t, input.Experience[0].Bullets[0].ID, "input must not change")
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var events []Event

	result, err := newTestController(&scriptedScorer{scores: []int{50}}, nil, underfilled, &events).
		Run(ctx, testResume(2), testProfile, types.GenerationConfig{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
	assert.Equal(t, []Stage{StageFailed}, stages(events))
}

func TestRun_InvalidInput(t *testing.T) {
	c := newTestController(&scriptedScorer{scores: []int{50}}, nil, underfilled, nil)
	var configErr *ConfigError

	_, err := c.Run(context.Background(), testResume(1), testProfile, types.GenerationConfig{TargetScore: 150})
	require.ErrorAs(t, err, &configErr)

	_, err = c.Run(context.Background(), nil, testProfile, types.GenerationConfig{})
	require.ErrorAs(t, err, &configErr)
}

func TestEstimatedPages(t *testing.T) {
	report, err := EstimatedPages{}.Check(context.Background(), testResume(20))
	require.NoError(t, err)
	assert.Equal(t, pagefill.NeedsConsolidation, report.Status)

	report, err = EstimatedPages{}.Check(context.Background(), testResume(3))
	require.NoError(t, err)
	assert.Equal(t, pagefill.NeedsMoreContent, report.Status)
}
