package jobs

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no job exists for a given ID.
	ErrNotFound = errors.New("no job for id")

	// ErrTerminal is returned on a write to a completed or failed job.
	ErrTerminal = errors.New("job already in terminal state")
)

// Store is the contract the in-memory store (and the Redis-backed store) must
// satisfy. Reads are safe to run concurrently; writes to a single job come
// from exactly one worker.
type Store interface {
	Create(ctx context.Context, job *Job) error
	Get(ctx context.Context, id string) (*Job, error)
	MarkRunning(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id string, result map[string]float64) error
	MarkFailed(ctx context.Context, id string, message string) error
}
