package consolidation

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ats/internal/types"
)

type stubRewriter struct {
	replies  []string
	err      error
	requests []RewriteRequest
}

func (s *stubRewriter) Rewrite(_ context.Context, req RewriteRequest) ([]string, error) {
	s.requests = append(s.requests, req)
	return s.replies, s.err
}

func bullets(texts ...string) []types.Bullet {
	out := make([]types.Bullet, len(texts))
	for i, t := range texts {
		out[i] = types.NewBullet(t)
	}
	return out
}

// twentyBulletResume has a recent role listed first and an older role second.
func twentyBulletResume() *types.Resume {
	r := &types.Resume{
		Experience: []types.Experience{
			{
				Company:   "Acme",
				Role:      "Staff Engineer",
				StartDate: "2020-03",
				Bullets: bullets(
					"Led migration of 40 services to Kubernetes, cutting deploy time by 35%",
					"Designed a billing pipeline processing $2M in monthly transactions",
					"Reduced p99 latency by 45% by rewriting the cache layer in Go",
					"Wrote docs",
					"Implemented SSO for 300 enterprise customers across 4 regions",
					"Increased test coverage from 40% to 85% across the monorepo",
					"Worked on internal tools",
					"Optimized Postgres queries, cutting database CPU usage by 30%",
					"Spearheaded an on-call rotation covering 24 services with 5 engineers",
					"Engineered a feature flag service serving 10,000 requests per second",
					"Architected event ingestion handling 2 billion events per day",
				),
			},
			{
				Company:   "Globex",
				Role:      "Engineer",
				StartDate: "2015-01",
				Bullets: bullets(
					"Responsible for maintaining legacy code",
					"Helped with onboarding new hires",
					"Participated in sprint planning and retrospective meetings for the team",
					"Maintained 3 dashboards",
					"Maintained 12 internal dashboards used daily by finance and operations",
					"Built 6 ETL jobs moving 500 GB of sales data into the warehouse nightly",
					"Migrated 80 cron jobs to Airflow with zero missed runs over 6 months",
					"Shipped 4 releases of the mobile SDK adopted by 2 partner teams",
					"Automated 15 manual reports, saving analysts 10 hours every week",
				),
			},
		},
	}
	types.AssignIDs(r)
	return r
}

func TestConsolidate_RemovesWeakestToTarget(t *testing.T) {
	input := twentyBulletResume()
	score := types.ScoreRecord{WeakBullets: []string{"Responsible for maintaining legacy code"}}
	rewriter := &stubRewriter{}

	out, report := NewEngine(rewriter, Options{}, zerolog.Nop()).Consolidate(context.Background(), input, score)

	assert.Equal(t, 14, out.ExperienceBulletCount())
	assert.Equal(t, []string{
		"Responsible for maintaining legacy code",
		"Helped with onboarding new hires",
		"Wrote docs",
		"Worked on internal tools",
		"Maintained 3 dashboards",
		"Participated in sprint planning and retrospective meetings for the team",
	}, types.BulletTexts(report.Removed))

	// every survivor scores at least 50, so nothing needs polishing
	assert.Empty(t, rewriter.requests)
	assert.Zero(t, report.Polished)
	assert.NoError(t, report.PolishErr)

	assert.Equal(t, 20, input.ExperienceBulletCount(), "input must not be modified")
}

func TestConsolidateTo_ExplicitTarget(t *testing.T) {
	engine := NewEngine(nil, Options{}, zerolog.Nop())
	score := types.ScoreRecord{WeakBullets: []string{"Responsible for maintaining legacy code"}}

	out, report := engine.ConsolidateTo(context.Background(), twentyBulletResume(), score, 17)
	assert.Equal(t, 17, out.ExperienceBulletCount())
	assert.Equal(t, []string{
		"Responsible for maintaining legacy code",
		"Helped with onboarding new hires",
		"Wrote docs",
	}, types.BulletTexts(report.Removed))

	out, _ = engine.ConsolidateTo(context.Background(), twentyBulletResume(), score, 0)
	assert.Equal(t, DefaultTargetBullets, out.ExperienceBulletCount(), "a zero target falls back to the default")
}

func TestConsolidate_UnderTargetIsNoop(t *testing.T) {
	r := &types.Resume{Experience: []types.Experience{{
		Company: "Acme", Role: "Engineer",
		Bullets: bullets("Led 3 launches with 20% revenue growth each quarter for the team"),
	}}}

	out, report := NewEngine(nil, Options{}, zerolog.Nop()).Consolidate(context.Background(), r, types.ScoreRecord{})
	assert.Equal(t, 1, out.ExperienceBulletCount())
	assert.Empty(t, report.Removed)
}

func TestConsolidate_TieBreakOldestRoleFirst(t *testing.T) {
	r := &types.Resume{
		Experience: []types.Experience{
			{Company: "New", Role: "Engineer", StartDate: "2022-01", Bullets: bullets(
				"Wrote docs",
				"Led 3 launches with 20% revenue growth each quarter for the team",
			)},
			{Company: "Old", Role: "Engineer", StartDate: "2016-05", Bullets: bullets(
				"Led 3 launches with 20% revenue growth each quarter for the team",
				"Wrote docs",
				"Wrote docs",
			)},
		},
	}
	types.AssignIDs(r)

	out, report := NewEngine(nil, Options{TargetBullets: 4}, zerolog.Nop()).Consolidate(context.Background(), r, types.ScoreRecord{})

	require.Len(t, report.Removed, 1)
	assert.Equal(t, types.BulletID("b4"), report.Removed[0].ID, "first equal-strength bullet of the oldest role")
	assert.Equal(t, []string{"Wrote docs", "Led 3 launches with 20% revenue growth each quarter for the team"},
		types.BulletTexts(out.Experience[0].Bullets))
	assert.Equal(t, []types.BulletID{"b3", "b5"}, []types.BulletID{out.Experience[1].Bullets[0].ID, out.Experience[1].Bullets[1].ID})
}

func TestConsolidate_UndatedRolesAreOldest(t *testing.T) {
	r := &types.Resume{
		Experience: []types.Experience{
			{Company: "Dated", Role: "Engineer", StartDate: "2019-01", Bullets: bullets("Wrote docs")},
			{Company: "Undated", Role: "Engineer", Bullets: bullets("Wrote docs")},
		},
	}
	types.AssignIDs(r)

	out, _ := NewEngine(nil, Options{TargetBullets: 1}, zerolog.Nop()).Consolidate(context.Background(), r, types.ScoreRecord{})
	assert.Len(t, out.Experience[0].Bullets, 1)
	assert.Empty(t, out.Experience[1].Bullets)
}

func TestConsolidate_TerminatesWhenTargetExceedsNothing(t *testing.T) {
	r := twentyBulletResume()
	out, report := NewEngine(nil, Options{TargetBullets: 1}, zerolog.Nop()).Consolidate(context.Background(), r, types.ScoreRecord{})
	assert.Equal(t, 1, out.ExperienceBulletCount())
	assert.Len(t, report.Removed, 19)
}

func polishResume() *types.Resume {
	r := &types.Resume{Experience: []types.Experience{{
		Company: "Acme", Role: "Engineer", StartDate: "2020-01",
		Bullets: bullets(
			"Wrote docs",
			"Led 3 launches with 20% revenue growth each quarter for the team",
			"Fixed bugs",
		),
	}}}
	types.AssignIDs(r)
	return r
}

func TestConsolidate_PolishSwapsByID(t *testing.T) {
	rewriter := &stubRewriter{replies: []string{
		"**Authored** 12 runbooks that cut onboarding time by 40%",
		"Resolved 150 production defects, reducing incident volume by 25%",
	}}
	score := types.ScoreRecord{MissingKeywords: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}}

	out, report := NewEngine(rewriter, Options{}, zerolog.Nop()).Consolidate(context.Background(), polishResume(), score)

	require.NoError(t, report.PolishErr)
	assert.Equal(t, 2, report.Polished)
	require.Len(t, rewriter.requests, 1)
	assert.Equal(t, []string{"Wrote docs", "Fixed bugs"}, types.BulletTexts(rewriter.requests[0].Bullets))
	assert.Len(t, rewriter.requests[0].Keywords, 8)

	got := out.Experience[0].Bullets
	assert.Equal(t, types.Bullet{ID: "b1", Text: "Authored 12 runbooks that cut onboarding time by 40%"}, got[0])
	assert.Equal(t, "Led 3 launches with 20% revenue growth each quarter for the team", got[1].Text)
	assert.Equal(t, types.Bullet{ID: "b3", Text: "Resolved 150 production defects, reducing incident volume by 25%"}, got[2])
}

func TestConsolidate_PolishCountMismatchKeepsOriginals(t *testing.T) {
	rewriter := &stubRewriter{replies: []string{"Only one replacement with 10% impact"}}

	out, report := NewEngine(rewriter, Options{}, zerolog.Nop()).Consolidate(context.Background(), polishResume(), types.ScoreRecord{})

	var mismatch *CountMismatchError
	require.True(t, errors.As(report.PolishErr, &mismatch))
	assert.Equal(t, 2, mismatch.Want)
	assert.Equal(t, 1, mismatch.Got)
	assert.NotEmpty(t, report.PolishError)
	assert.Zero(t, report.Polished)
	assert.Equal(t, types.BulletTexts(polishResume().Experience[0].Bullets), types.BulletTexts(out.Experience[0].Bullets))
}

func TestConsolidate_PolishErrorKeepsOriginals(t *testing.T) {
	rewriter := &stubRewriter{err: errors.New("timeout")}

	out, report := NewEngine(rewriter, Options{}, zerolog.Nop()).Consolidate(context.Background(), polishResume(), types.ScoreRecord{})

	var rewriteErr *RewriteError
	require.True(t, errors.As(report.PolishErr, &rewriteErr))
	assert.Equal(t, 3, out.ExperienceBulletCount())
	assert.Equal(t, types.BulletTexts(polishResume().Experience[0].Bullets), types.BulletTexts(out.Experience[0].Bullets))
}

func TestConsolidate_PolishBatchIsCapped(t *testing.T) {
	r := &types.Resume{Experience: []types.Experience{{
		Company: "Acme", Role: "Engineer",
		Bullets: bullets("a1", "a2", "a3", "a4", "a5", "a6", "a7"),
	}}}
	rewriter := &stubRewriter{err: errors.New("skip")}

	NewEngine(rewriter, Options{TargetBullets: 20}, zerolog.Nop()).Consolidate(context.Background(), r, types.ScoreRecord{})

	require.Len(t, rewriter.requests, 1)
	assert.Equal(t, []string{"a1", "a2", "a3", "a4", "a5"}, types.BulletTexts(rewriter.requests[0].Bullets))
}

func TestConsolidate_DuplicateTextRemovedOnce(t *testing.T) {
	r := &types.Resume{Experience: []types.Experience{{
		Company: "Acme", Role: "Engineer",
		Bullets: bullets("Wrote docs", "Wrote docs", "Led 3 launches with 20% revenue growth each quarter for the team"),
	}}}

	out, report := NewEngine(nil, Options{TargetBullets: 2}, zerolog.Nop()).Consolidate(context.Background(), r, types.ScoreRecord{})
	require.Len(t, report.Removed, 1)
	assert.Equal(t, types.BulletID("b1"), report.Removed[0].ID)
	assert.Equal(t, []string{"Wrote docs", "Led 3 launches with 20% revenue growth each quarter for the team"},
		types.BulletTexts(out.Experience[0].Bullets))
}

func TestConsolidate_NilResume(t *testing.T) {
	out, report := NewEngine(nil, Options{}, zerolog.Nop()).Consolidate(context.Background(), nil, types.ScoreRecord{})
	assert.Nil(t, out)
	assert.Empty(t, report.Removed)
}
