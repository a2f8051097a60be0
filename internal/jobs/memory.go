package jobs

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps jobs in process memory. Jobs are stored as JSON so
// readers never share slices with the writer.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID][]byte
	now  func() time.Time
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[uuid.UUID][]byte), now: time.Now}
}

// Create stores a new job
func (s *MemoryStore) Create(_ context.Context, job *Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = raw
	return nil
}

// Get returns a copy of the job
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Job, error) {
	s.mu.RLock()
	raw, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return decodeJob(raw)
}

// Update applies fn under the store lock
func (s *MemoryStore) Update(_ context.Context, id uuid.UUID, fn func(*Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.jobs[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	job, err := decodeJob(raw)
	if err != nil {
		return err
	}
	fn(job)
	job.UpdatedAt = s.now()

	if raw, err = json.Marshal(job); err != nil {
		return err
	}
	s.jobs[id] = raw
	return nil
}

func decodeJob(raw []byte) (*Job, error) {
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, err
	}
	return &job, nil
}
