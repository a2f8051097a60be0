package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/resume-ats/internal/db"
	"github.com/jonathan/resume-ats/internal/fetch"
	"github.com/jonathan/resume-ats/internal/parsing"
	"github.com/jonathan/resume-ats/internal/regeneration"
	"github.com/jonathan/resume-ats/internal/types"
)

// Request is one tailoring request. Exactly one of Profile, JobText and
// JobURL names the target job.
type Request struct {
	Resume  *types.Resume          `json:"resume"`
	Profile *types.JobProfile      `json:"profile,omitempty"`
	JobText string                 `json:"job_text,omitempty"`
	JobURL  string                 `json:"job_url,omitempty"`
	// Config is checked after defaults are applied, when the run starts.
	Config types.GenerationConfig `json:"config" validate:"-"`
}

// Validate checks that the request names a resume and exactly one job source
func (r Request) Validate() error {
	if r.Resume == nil {
		return &RequestError{Field: "resume", Message: "resume is required"}
	}
	sources := 0
	for _, set := range []bool{r.Profile != nil, strings.TrimSpace(r.JobText) != "", r.JobURL != ""} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return &RequestError{Field: "profile", Message: "provide exactly one of profile, job_text or job_url"}
	}
	return nil
}

// RequestError reports an unusable tailoring request
type RequestError struct {
	Field   string
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
}

// Recorder persists finished runs
type Recorder interface {
	SaveRun(ctx context.Context, run db.RunInput, history types.ScoreHistory, best types.ScoreRecord) (uuid.UUID, error)
}

// ControllerFactory builds a controller that reports to progress
type ControllerFactory func(progress regeneration.ProgressFunc) *regeneration.Controller

// RunnerConfig wires the runner. Fetcher and Recorder are optional.
type RunnerConfig struct {
	Store      Store
	Analyzer   *parsing.Analyzer
	Fetcher    *fetch.CachedFetcher
	Controller ControllerFactory
	Recorder   Recorder
	// Timeout bounds one job; zero means no limit beyond the runner's lifetime
	Timeout time.Duration
}

// Runner executes tailoring jobs in background goroutines
type Runner struct {
	cfg    RunnerConfig
	logger zerolog.Logger
	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	now    func() time.Time
}

// NewRunner creates a runner. Close cancels running jobs and waits for them.
func NewRunner(cfg RunnerConfig, logger zerolog.Logger) *Runner {
	base, cancel := context.WithCancel(context.Background())
	return &Runner{cfg: cfg, logger: logger, base: base, cancel: cancel, now: time.Now}
}

// Submit validates req, stores a queued job and starts it
func (r *Runner) Submit(ctx context.Context, req Request) (*Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.now()
	job := &Job{
		ID:        uuid.New(),
		Status:    StatusQueued,
		Events:    []regeneration.Event{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.cfg.Store.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(job.ID, req)
	}()
	return job, nil
}

// Wait blocks until every submitted job has finished
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Close cancels in-flight jobs and waits for them to record their outcome
func (r *Runner) Close() {
	r.cancel()
	r.wg.Wait()
}

func (r *Runner) run(id uuid.UUID, req Request) {
	ctx := r.base
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}
	logger := r.logger.With().Str("job_id", id.String()).Logger()

	r.update(ctx, id, func(j *Job) { j.Status = StatusRunning })

	profile, err := r.resolveProfile(ctx, req)
	if err != nil {
		r.fail(id, logger, err)
		return
	}

	controller := r.cfg.Controller(func(e regeneration.Event) {
		r.update(ctx, id, func(j *Job) { j.Events = append(j.Events, e) })
	})

	result, err := controller.Run(ctx, req.Resume, profile, req.Config)
	if err != nil && result == nil {
		r.fail(id, logger, err)
		return
	}
	if err != nil {
		logger.Warn().Err(err).Msg("regeneration interrupted, keeping best result")
	}

	runID := r.record(logger, req, profile, result)

	// final writes use a fresh context so a cancelled run still reports
	final := context.WithoutCancel(ctx)
	r.update(final, id, func(j *Job) {
		j.Status = StatusSucceeded
		j.Result = result
		j.RunID = runID
		if err != nil {
			j.Error = err.Error()
		}
	})
	logger.Info().Int("score", result.Score.Overall).Bool("reached", result.Reached).Msg("job finished")
}

func (r *Runner) resolveProfile(ctx context.Context, req Request) (*types.JobProfile, error) {
	if req.Profile != nil {
		return req.Profile, nil
	}

	text := req.JobText
	if req.JobURL != "" {
		if r.cfg.Fetcher == nil {
			return nil, &RequestError{Field: "job_url", Message: "fetching job URLs is not enabled"}
		}
		fetched, err := r.cfg.Fetcher.Fetch(ctx, req.JobURL)
		if err != nil {
			return nil, err
		}
		text = fetched.Text
	}
	if r.cfg.Analyzer == nil {
		return nil, errors.New("job analysis is not configured")
	}
	return r.cfg.Analyzer.Analyze(ctx, text)
}

// record persists the run when a recorder is configured. Failures are
// logged; the job still succeeds.
func (r *Runner) record(logger zerolog.Logger, req Request, profile *types.JobProfile, result *regeneration.Result) *uuid.UUID {
	if r.cfg.Recorder == nil {
		return nil
	}
	cfg := req.Config.WithDefaults()
	status := db.RunStatusCompleted
	if !result.Reached {
		status = db.RunStatusBelowTarget
	}
	run := db.RunInput{
		Company:     profile.Company,
		RoleTitle:   profile.RoleTitle,
		JobURL:      req.JobURL,
		Status:      status,
		TargetScore: cfg.TargetScore,
		BestScore:   result.Score.Overall,
	}

	id, err := r.cfg.Recorder.SaveRun(context.WithoutCancel(r.base), run, result.History, result.Score)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to record run")
		return nil
	}
	return &id
}

func (r *Runner) fail(id uuid.UUID, logger zerolog.Logger, err error) {
	logger.Error().Err(err).Msg("job failed")
	r.update(context.WithoutCancel(r.base), id, func(j *Job) {
		j.Status = StatusFailed
		j.Error = err.Error()
	})
}

func (r *Runner) update(ctx context.Context, id uuid.UUID, fn func(*Job)) {
	if err := r.cfg.Store.Update(ctx, id, fn); err != nil {
		r.logger.Warn().Err(err).Str("job_id", id.String()).Msg("failed to update job")
	}
}
