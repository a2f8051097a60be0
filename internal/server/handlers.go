package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-ats/internal/consolidation"
	"github.com/jonathan/resume-ats/internal/db"
	"github.com/jonathan/resume-ats/internal/jobs"
	"github.com/jonathan/resume-ats/internal/pagefill"
	"github.com/jonathan/resume-ats/internal/planning"
	"github.com/jonathan/resume-ats/internal/types"
)

type scoreRequest struct {
	Resume  *types.Resume      `json:"resume" validate:"required"`
	Profile *types.JobProfile  `json:"profile" validate:"required"`
	Hybrid  bool               `json:"hybrid"`
	Retry   int                `json:"retry" validate:"gte=0"`
	History types.ScoreHistory `json:"history"`
}

type scoreResponse struct {
	Score   types.ScoreRecord  `json:"score"`
	History types.ScoreHistory `json:"history"`
}

type planRequest struct {
	Resume      *types.Resume `json:"resume" validate:"required"`
	TargetPages int           `json:"target_pages" validate:"gte=0,lte=2"`
}

type consolidateRequest struct {
	Resume *types.Resume     `json:"resume" validate:"required"`
	Score  types.ScoreRecord `json:"score"`
}

type consolidateResponse struct {
	Resume *types.Resume        `json:"resume"`
	Report consolidation.Report `json:"report"`
}

type pageFillRequest struct {
	PageFills []float64 `json:"page_fills" validate:"required,dive,gte=0,lte=100"`
}

type tailorResponse struct {
	JobID  uuid.UUID   `json:"job_id"`
	Status jobs.Status `json:"status"`
	Stream string      `json:"stream"`
}

type runResponse struct {
	Run      *db.Run           `json:"run"`
	Attempts []db.ScoreAttempt `json:"attempts"`
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"jobs":      s.deps.JobBackend,
		"hybrid":    s.deps.Hybrid != nil,
		"history":   s.deps.Runs != nil,
		"auth":      s.jwtService != nil,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleScore handles POST /score
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}

	if req.Hybrid {
		if s.deps.Hybrid == nil {
			s.fail(w, &ErrUnavailable{Feature: "hybrid scoring"})
			return
		}
		record, history, err := s.deps.Hybrid.Score(r.Context(), req.Resume, req.Profile, req.Retry, req.History)
		if err != nil {
			s.fail(w, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, scoreResponse{Score: record, History: history})
		return
	}

	start := time.Now()
	record := s.rule.Score(req.Resume, req.Profile)
	history := req.History.Append(types.ScoreAttempt{
		Final:   record.Overall,
		Rule:    record.Overall,
		Retry:   req.Retry,
		Elapsed: time.Since(start),
	})
	s.jsonResponse(w, http.StatusOK, scoreResponse{Score: record, History: history})
}

// handlePlan handles POST /plan
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, planning.Plan(req.Resume, planning.Options{TargetPages: req.TargetPages}))
}

// handleConsolidate handles POST /consolidate
func (s *Server) handleConsolidate(w http.ResponseWriter, r *http.Request) {
	var req consolidateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	out, report := s.deps.Consolidator.Consolidate(r.Context(), req.Resume, req.Score)
	s.jsonResponse(w, http.StatusOK, consolidateResponse{Resume: out, Report: report})
}

// handlePageFill handles POST /pagefill
func (s *Server) handlePageFill(w http.ResponseWriter, r *http.Request) {
	var req pageFillRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, pagefill.Classify(req.PageFills))
}

// handleTailor handles POST /tailor. The run continues in the background.
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	var req jobs.Request
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if err := req.Config.WithDefaults().Validate(); err != nil {
		s.fail(w, err)
		return
	}

	job, err := s.deps.Runner.Submit(r.Context(), req)
	if err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Location", "/jobs/"+job.ID.String())
	s.jsonResponse(w, http.StatusAccepted, tailorResponse{
		JobID:  job.ID,
		Status: job.Status,
		Stream: "/jobs/" + job.ID.String() + "/stream",
	})
}

// handleGetJob handles GET /jobs/{id}
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "job")
	if err != nil {
		s.fail(w, err)
		return
	}
	job, err := s.deps.Jobs.Get(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleJobStream handles GET /jobs/{id}/stream. Progress events are sent as
// they are recorded; the stream ends with a complete event once the job is
// terminal.
func (s *Server) handleJobStream(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "job")
	if err != nil {
		s.fail(w, err)
		return
	}
	ctx := r.Context()
	job, err := s.deps.Jobs.Get(ctx, id)
	if err != nil {
		s.fail(w, err)
		return
	}

	// streams outlive the server write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	stream, err := openEventStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	ticker := time.NewTicker(s.cfg.StreamInterval)
	defer ticker.Stop()

	sent := resumeIndex(r)
	for {
		for ; sent < len(job.Events); sent++ {
			if err := stream.progress(sent, job.Events[sent]); err != nil {
				s.logger.Debug().Err(err).Str("job_id", id.String()).Msg("stream client went away")
				return
			}
		}

		if job.Status.Terminal() {
			if job.Status == jobs.StatusFailed {
				stream.failed(job.Error)
			}
			stream.complete(id, job.Status)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		job, err = s.deps.Jobs.Get(ctx, id)
		if err != nil {
			stream.failed(err.Error())
			return
		}
	}
}

// handleListRuns handles GET /runs
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.deps.Runs == nil {
		s.fail(w, &ErrUnavailable{Feature: "run history"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.fail(w, &ErrValidation{Field: "limit", Message: "must be a non-negative integer"})
			return
		}
		limit = n
	}

	runs, err := s.deps.Runs.ListRuns(r.Context(), limit)
	if err != nil {
		s.fail(w, err)
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

// handleGetRun handles GET /runs/{id}
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.deps.Runs == nil {
		s.fail(w, &ErrUnavailable{Feature: "run history"})
		return
	}
	id, err := pathID(r, "run")
	if err != nil {
		s.fail(w, err)
		return
	}

	run, err := s.deps.Runs.GetRun(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	if run == nil {
		s.fail(w, &ErrNotFound{Resource: "run", ID: id.String()})
		return
	}

	attempts, err := s.deps.Runs.ListScoreAttempts(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, runResponse{Run: run, Attempts: attempts})
}

func pathID(r *http.Request, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "invalid " + resource + " ID"}
	}
	return id, nil
}
