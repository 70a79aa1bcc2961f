package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/i474232898/weather-map/internal/jobs"
)

const jobKeyPrefix = "job:"

// RedisStore persists job records as JSON blobs in Redis with a TTL.
// Retention is delegated to Redis expiry, so the janitor skips this store.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a RedisStore on an already-configured client.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, job *jobs.Job) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, jobKey(job.ID), payload, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*jobs.Job, error) {
	data, err := s.rdb.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, jobs.ErrNotFound
		}
		return nil, err
	}
	var job jobs.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *RedisStore) MarkRunning(ctx context.Context, id string) error {
	return s.update(ctx, id, func(job *jobs.Job) {
		job.Status = jobs.StatusRunning
	})
}

func (s *RedisStore) MarkCompleted(ctx context.Context, id string, result map[string]float64) error {
	return s.update(ctx, id, func(job *jobs.Job) {
		now := time.Now().UTC()
		job.Status = jobs.StatusCompleted
		job.Result = result
		job.Error = ""
		job.CompletedAt = &now
	})
}

func (s *RedisStore) MarkFailed(ctx context.Context, id string, message string) error {
	return s.update(ctx, id, func(job *jobs.Job) {
		now := time.Now().UTC()
		job.Status = jobs.StatusFailed
		job.Error = message
		job.CompletedAt = &now
	})
}

// update applies a read-modify-write inside a transactional pipeline. Only
// the owning worker writes to a job, so the txn guards against restarts
// rather than writer races.
func (s *RedisStore) update(ctx context.Context, id string, mutate func(*jobs.Job)) error {
	key := jobKey(id)
	for {
		job, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if job.Status.Terminal() {
			return jobs.ErrTerminal
		}
		mutate(job)

		payload, err := json.Marshal(job)
		if err != nil {
			return err
		}

		tx := s.rdb.TxPipeline()
		tx.Set(ctx, key, payload, s.ttl)
		_, err = tx.Exec(ctx)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
}

func jobKey(id string) string {
	return jobKeyPrefix + id
}
