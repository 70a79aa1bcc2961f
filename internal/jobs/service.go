package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-map/internal/timezone"
)

var validate = validator.New()

// InvalidRequestError rejects a submission before any job is created.
// Messages holds one entry per failed field.
type InvalidRequestError struct {
	Messages []string
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + strings.Join(e.Messages, "; ")
}

// Service owns the submission and status operations. Both are stateless and
// safe to call concurrently; all state lives in the store.
type Service struct {
	store  Store
	worker *Worker
}

// NewService creates a Service that dispatches accepted jobs to the worker.
func NewService(store Store, worker *Worker) *Service {
	return &Service{
		store:  store,
		worker: worker,
	}
}

// Submit validates the request, creates a pending record, and fires the
// worker without waiting for the fetch. Every call creates a new job; there
// is no dedup at this layer. Returns the new job ID.
func (s *Service) Submit(ctx context.Context, req Request) (string, error) {
	if err := validateRequest(&req); err != nil {
		return "", err
	}

	job := &Job{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		Request:   req,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Create(ctx, job); err != nil {
		return "", fmt.Errorf("create job: %w", err)
	}

	log.Info().
		Str("job_id", job.ID).
		Float64("lat", req.Latitude).
		Float64("lon", req.Longitude).
		Str("date", req.Date).
		Msg("job submitted")

	// Fire and forget. The worker outlives this request and always resolves
	// the persisted state itself.
	go s.worker.Run(job.ID)

	return job.ID, nil
}

// Status returns the current record for a job ID. Pure read; ErrNotFound for
// unknown IDs.
func (s *Service) Status(ctx context.Context, jobID string) (*Job, error) {
	return s.store.Get(ctx, jobID)
}

// validateRequest checks field ranges, parses the date, and resolves the
// timezone, deriving one from the longitude band when absent. The request is
// normalized in place.
func validateRequest(req *Request) error {
	var messages []string

	if err := validate.Struct(req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				messages = append(messages, fmt.Sprintf("%s failed %s validation", strings.ToLower(fe.Field()), fe.Tag()))
			}
		} else {
			messages = append(messages, err.Error())
		}
	}

	if req.Date != "" {
		if _, err := req.Day(); err != nil {
			messages = append(messages, fmt.Sprintf("date %q is not a valid calendar date", req.Date))
		}
	}

	if req.Timezone == "" {
		req.Timezone = timezone.FromLongitude(req.Longitude)
	} else if _, err := time.LoadLocation(req.Timezone); err != nil {
		messages = append(messages, fmt.Sprintf("timezone %q is not a resolvable zone", req.Timezone))
	}

	if len(messages) > 0 {
		return &InvalidRequestError{Messages: messages}
	}
	return nil
}
