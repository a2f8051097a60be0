package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultJobTTL is how long finished and unfinished jobs stay in Redis
const DefaultJobTTL = 24 * time.Hour

// maxUpdateRetries bounds optimistic retries when updates race
const maxUpdateRetries = 5

// RedisStore keeps jobs as JSON values in Redis so any server instance can
// report on them
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a store on client. Zero ttl uses DefaultJobTTL.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultJobTTL
	}
	return &RedisStore{client: client, prefix: "job:", ttl: ttl}
}

func (s *RedisStore) key(id uuid.UUID) string {
	return s.prefix + id.String()
}

// Create stores a new job
func (s *RedisStore) Create(ctx context.Context, job *Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	if err := s.client.Set(ctx, s.key(job.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get loads a job
func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*Job, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return decodeJob(raw)
}

// Update applies fn inside a WATCH transaction, retrying when another
// writer changed the job first
func (s *RedisStore) Update(ctx context.Context, id uuid.UUID, fn func(*Job)) error {
	key := s.key(id)

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return &NotFoundError{ID: id}
		}
		if err != nil {
			return err
		}
		job, err := decodeJob(raw)
		if err != nil {
			return err
		}
		fn(job)
		job.UpdatedAt = time.Now()

		updated, err := json.Marshal(job)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, s.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update job %s: too many concurrent writers", id)
}
