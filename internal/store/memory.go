package store

import (
	"context"
	"sync"
	"time"

	"github.com/i474232898/weather-map/internal/jobs"
)

// MemoryStore is a concurrency-safe in-memory implementation of jobs.Store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: job ID, value: record
	data map[string]*jobs.Job

	// retention configuration
	maxJobs int           // max number of retained jobs (0 = unlimited)
	maxAge  time.Duration // max age of terminal jobs (0 = unlimited)
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxJobs is <= 0, it is treated as unlimited.
func NewMemoryStore(maxJobs int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:    make(map[string]*jobs.Job),
		maxJobs: maxJobs,
		maxAge:  maxAge,
	}
}

// Create stores a fresh record. The job keeps whatever status the caller set
// (the submission path always passes pending).
func (s *MemoryStore) Create(ctx context.Context, job *jobs.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	s.data[job.ID] = cloneJob(job)

	// Enforce retention by count, oldest terminal records first.
	if s.maxJobs > 0 && len(s.data) > s.maxJobs {
		s.evictOldestTerminal(len(s.data) - s.maxJobs)
	}
	return nil
}

// Get returns a copy of the record for the given ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*jobs.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.data[id]
	if !ok {
		return nil, jobs.ErrNotFound
	}
	return cloneJob(job), nil
}

// MarkRunning transitions a pending job to running.
func (s *MemoryStore) MarkRunning(ctx context.Context, id string) error {
	return s.update(id, func(job *jobs.Job) {
		job.Status = jobs.StatusRunning
	})
}

// MarkCompleted writes the result mapping and completes the job.
func (s *MemoryStore) MarkCompleted(ctx context.Context, id string, result map[string]float64) error {
	return s.update(id, func(job *jobs.Job) {
		now := time.Now().UTC()
		job.Status = jobs.StatusCompleted
		job.Result = result
		job.Error = ""
		job.CompletedAt = &now
	})
}

// MarkFailed records the failure message and fails the job.
func (s *MemoryStore) MarkFailed(ctx context.Context, id string, message string) error {
	return s.update(id, func(job *jobs.Job) {
		now := time.Now().UTC()
		job.Status = jobs.StatusFailed
		job.Error = message
		job.CompletedAt = &now
	})
}

// SweepExpired removes terminal jobs older than the configured max age and
// returns how many were removed. The janitor calls this periodically.
func (s *MemoryStore) SweepExpired() int {
	if s.maxAge <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-s.maxAge)
	removed := 0
	for id, job := range s.data {
		if !job.Status.Terminal() || job.CompletedAt == nil {
			continue
		}
		if job.CompletedAt.Before(cutoff) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) update(id string, mutate func(*jobs.Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.data[id]
	if !ok {
		return jobs.ErrNotFound
	}
	if job.Status.Terminal() {
		return jobs.ErrTerminal
	}
	mutate(job)
	return nil
}

func (s *MemoryStore) evictOldestTerminal(n int) {
	for ; n > 0; n-- {
		var oldestID string
		var oldestAt time.Time
		for id, job := range s.data {
			if !job.Status.Terminal() {
				continue
			}
			if oldestID == "" || job.CreatedAt.Before(oldestAt) {
				oldestID = id
				oldestAt = job.CreatedAt
			}
		}
		if oldestID == "" {
			return
		}
		delete(s.data, oldestID)
	}
}

// cloneJob copies a record so callers never share the stored map.
func cloneJob(job *jobs.Job) *jobs.Job {
	out := *job
	if job.Result != nil {
		out.Result = make(map[string]float64, len(job.Result))
		for k, v := range job.Result {
			out.Result[k] = v
		}
	}
	if job.CompletedAt != nil {
		at := *job.CompletedAt
		out.CompletedAt = &at
	}
	return &out
}
