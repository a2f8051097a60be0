package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-ats/internal/types"
)

const insertAttempt = `INSERT INTO score_attempts
	(run_id, attempt, final_score, ai_score, rule_score, retry, elapsed_ms, fell_back)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (run_id, attempt) DO UPDATE SET
		final_score = EXCLUDED.final_score,
		ai_score = EXCLUDED.ai_score,
		rule_score = EXCLUDED.rule_score,
		retry = EXCLUDED.retry,
		elapsed_ms = EXCLUDED.elapsed_ms,
		fell_back = EXCLUDED.fell_back`

// attemptBatch queues one insert per attempt, numbered from 1
func attemptBatch(runID uuid.UUID, history types.ScoreHistory) *pgx.Batch {
	batch := &pgx.Batch{}
	for i, a := range history.Attempts {
		batch.Queue(insertAttempt,
			runID, i+1, a.Final, a.AI, a.Rule, a.Retry, a.Elapsed.Milliseconds(), a.FellBack)
	}
	return batch
}

type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

func sendAttempts(ctx context.Context, conn batchSender, runID uuid.UUID, history types.ScoreHistory) error {
	if history.Len() == 0 {
		return nil
	}
	results := conn.SendBatch(ctx, attemptBatch(runID, history))
	for i := 0; i < history.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("failed to save score attempt %d: %w", i+1, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to save score attempts: %w", err)
	}
	return nil
}

// SaveHistory stores every attempt of history under runID, replacing
// attempts already stored with the same number
func (db *DB) SaveHistory(ctx context.Context, runID uuid.UUID, history types.ScoreHistory) error {
	return sendAttempts(ctx, db.pool, runID, history)
}

// ListScoreAttempts retrieves a run's attempts in order
func (db *DB) ListScoreAttempts(ctx context.Context, runID uuid.UUID) ([]ScoreAttempt, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, attempt, final_score, ai_score, rule_score, retry, elapsed_ms, fell_back, created_at
		 FROM score_attempts WHERE run_id = $1 ORDER BY attempt`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list score attempts: %w", err)
	}
	defer rows.Close()

	var attempts []ScoreAttempt
	for rows.Next() {
		var a ScoreAttempt
		if err := rows.Scan(&a.ID, &a.RunID, &a.Attempt, &a.FinalScore, &a.AIScore, &a.RuleScore,
			&a.Retry, &a.ElapsedMs, &a.FellBack, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// History rebuilds a score history from stored attempts
func History(attempts []ScoreAttempt) types.ScoreHistory {
	var h types.ScoreHistory
	for _, a := range attempts {
		h = h.Append(types.ScoreAttempt{
			Final:    a.FinalScore,
			AI:       a.AIScore,
			Rule:     a.RuleScore,
			Retry:    a.Retry,
			Elapsed:  time.Duration(a.ElapsedMs) * time.Millisecond,
			FellBack: a.FellBack,
		})
	}
	return h
}
