package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ats/internal/db"
	"github.com/jonathan/resume-ats/internal/parsing"
	"github.com/jonathan/resume-ats/internal/regeneration"
	"github.com/jonathan/resume-ats/internal/types"
)

type fakeRecorder struct {
	mu      sync.Mutex
	runs    []db.RunInput
	history types.ScoreHistory
	err     error
	id      uuid.UUID
}

func (f *fakeRecorder) SaveRun(_ context.Context, run db.RunInput, history types.ScoreHistory, _ types.ScoreRecord) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return uuid.Nil, f.err
	}
	f.runs = append(f.runs, run)
	f.history = history
	return f.id, nil
}

func testResume() *types.Resume {
	exp := types.Experience{Company: "Acme", Role: "Engineer", StartDate: "2021-01"}
	for i := 0; i < 4; i++ {
		exp.Bullets = append(exp.Bullets, types.NewBullet(fmt.Sprintf("Built Go services handling %d0K requests per second", i+1)))
	}
	return &types.Resume{
		Basics:     &types.Basics{Name: "Ada Lovelace", Email: "ada@example.com"},
		Experience: []types.Experience{exp},
		Skills:     &types.Skills{LanguagesFrameworks: []string{"Go"}},
	}
}

func newTestRunner(store Store, recorder Recorder) *Runner {
	cfg := RunnerConfig{
		Store:    store,
		Analyzer: parsing.NewAnalyzer(nil, zerolog.Nop()),
		Controller: func(progress regeneration.ProgressFunc) *regeneration.Controller {
			return regeneration.NewController(regeneration.Options{Progress: progress}, zerolog.Nop())
		},
	}
	if recorder != nil {
		cfg.Recorder = recorder
	}
	return NewRunner(cfg, zerolog.Nop())
}

func TestRequest_Validate(t *testing.T) {
	profile := &types.JobProfile{RoleTitle: "Engineer"}
	tests := []struct {
		name  string
		req   Request
		field string
	}{
		{"profile", Request{Resume: testResume(), Profile: profile}, ""},
		{"job text", Request{Resume: testResume(), JobText: "We need Go"}, ""},
		{"job url", Request{Resume: testResume(), JobURL: "https://example.com/job"}, ""},
		{"missing resume", Request{Profile: profile}, "resume"},
		{"no source", Request{Resume: testResume()}, "profile"},
		{"blank text", Request{Resume: testResume(), JobText: "  "}, "profile"},
		{"two sources", Request{Resume: testResume(), Profile: profile, JobText: "Go"}, "profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, tt.field, reqErr.Field)
		})
	}
}

func TestRunner_ProfileRequest(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	recorder := &fakeRecorder{id: uuid.New()}
	runner := newTestRunner(store, recorder)
	defer runner.Close()

	job, err := runner.Submit(ctx, Request{
		Resume:  testResume(),
		Profile: &types.JobProfile{RoleTitle: "Backend Engineer", Company: "Initech", KeySkills: []string{"Go"}},
		Config:  types.GenerationConfig{TargetScore: 1, MaxAttempts: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, job.Status)

	runner.Wait()

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, got.Status)
	assert.Empty(t, got.Error)
	require.NotNil(t, got.Result)
	assert.True(t, got.Result.Reached)
	assert.Equal(t, 1, got.Result.Attempts)

	require.NotEmpty(t, got.Events)
	assert.Equal(t, regeneration.StageScoring, got.Events[0].Stage)
	assert.Equal(t, regeneration.StageComplete, got.Events[len(got.Events)-1].Stage)

	require.NotNil(t, got.RunID)
	assert.Equal(t, recorder.id, *got.RunID)
	require.Len(t, recorder.runs, 1)
	assert.Equal(t, "Initech", recorder.runs[0].Company)
	assert.Equal(t, db.RunStatusCompleted, recorder.runs[0].Status)
	assert.Equal(t, 1, recorder.runs[0].TargetScore)
	assert.Equal(t, 1, recorder.history.Len())
}

func TestRunner_JobTextUsesAnalyzer(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	runner := newTestRunner(store, nil)
	defer runner.Close()

	job, err := runner.Submit(ctx, Request{
		Resume:  testResume(),
		JobText: "Senior Backend Engineer. 5+ years of experience with Go and Kubernetes.",
		Config:  types.GenerationConfig{TargetScore: 1},
	})
	require.NoError(t, err)
	runner.Wait()

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, got.Status)
	assert.Nil(t, got.RunID, "no recorder configured")
}

func TestRunner_JobURLWithoutFetcherFails(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	runner := newTestRunner(store, nil)
	defer runner.Close()

	job, err := runner.Submit(ctx, Request{Resume: testResume(), JobURL: "https://example.com/jobs/1"})
	require.NoError(t, err)
	runner.Wait()

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Contains(t, got.Error, "job_url")
	assert.Nil(t, got.Result)
}

func TestRunner_InvalidConfigFails(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	runner := newTestRunner(store, nil)
	defer runner.Close()

	job, err := runner.Submit(ctx, Request{
		Resume:  testResume(),
		Profile: &types.JobProfile{RoleTitle: "Engineer"},
		Config:  types.GenerationConfig{TargetScore: 150},
	})
	require.NoError(t, err)
	runner.Wait()

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Contains(t, got.Error, "validation")
}

func TestRunner_RecorderErrorStillSucceeds(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	runner := newTestRunner(store, &fakeRecorder{err: errors.New("connection refused")})
	defer runner.Close()

	job, err := runner.Submit(ctx, Request{
		Resume:  testResume(),
		Profile: &types.JobProfile{RoleTitle: "Engineer"},
		Config:  types.GenerationConfig{TargetScore: 1},
	})
	require.NoError(t, err)
	runner.Wait()

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, got.Status)
	assert.Nil(t, got.RunID)
}

func TestRunner_SubmitRejectsInvalidRequest(t *testing.T) {
	runner := newTestRunner(NewMemoryStore(), nil)
	defer runner.Close()

	_, err := runner.Submit(context.Background(), Request{})
	var reqErr *RequestError
	assert.ErrorAs(t, err, &reqErr)
}
