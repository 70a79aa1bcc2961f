// Package poller drives the submit→poll→resolve sequence for one in-flight
// search, the calling side of the job API.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-map/internal/jobs"
	"github.com/i474232898/weather-map/internal/weather"
)

// ErrPollingAborted is reported when the attempt or duration guard stops a
// poll loop before the job reached a terminal state.
var ErrPollingAborted = errors.New("polling aborted")

// JobAPI is the submission/status channel the poller talks to. Satisfied by
// jobs.Service in-process and by Client over HTTP.
type JobAPI interface {
	Submit(ctx context.Context, req jobs.Request) (string, error)
	Status(ctx context.Context, jobID string) (*jobs.Job, error)
}

// Source tells the display where a result came from.
type Source string

const (
	SourceProvider Source = "provider"
	SourceEstimate Source = "estimate"
)

// Result is one display update for a search.
type Result struct {
	SearchID      string
	JobID         string
	Source        Source
	Temperature   weather.Datum
	Precipitation weather.Datum
	Raw           map[string]float64
}

// Options tune the poll loop. Zero values fall back to the defaults the UI
// shipped with: a fixed 3s interval, capped at 100 attempts or 10 minutes.
type Options struct {
	Interval    time.Duration
	MaxAttempts int
	MaxDuration time.Duration
}

func (o *Options) fill() {
	if o.Interval <= 0 {
		o.Interval = 3 * time.Second
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 100
	}
	if o.MaxDuration <= 0 {
		o.MaxDuration = 10 * time.Minute
	}
}

// Poller runs at most one polling loop at a time. Starting a new search
// cancels the previous loop before submitting, and every delivery is checked
// against the active search ID so a late result from a cancelled loop can
// never reach the display.
type Poller struct {
	api      JobAPI
	onResult func(Result)
	opts     Options

	mu       sync.Mutex
	activeID string
	cancel   context.CancelFunc
}

// New creates a Poller. onResult receives exactly one Result per search that
// was not superseded; it must not call Search from within.
func New(api JobAPI, opts Options, onResult func(Result)) *Poller {
	opts.fill()
	return &Poller{
		api:      api,
		onResult: onResult,
		opts:     opts,
	}
}

// Search cancels any in-flight search, submits the request, and starts the
// poll loop for it. Returns the search ID, or the validation error verbatim —
// validation failures are the one error the caller sees directly; everything
// past submission resolves to a displayed result or a fallback estimate.
func (p *Poller) Search(ctx context.Context, req jobs.Request) (string, error) {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	searchID := uuid.NewString()
	loopCtx, cancel := context.WithCancel(ctx)
	p.activeID = searchID
	p.cancel = cancel
	p.mu.Unlock()

	jobID, err := p.api.Submit(loopCtx, req)
	if err != nil {
		var invalid *jobs.InvalidRequestError
		if errors.As(err, &invalid) {
			return "", err
		}
		// Submission channel unreachable: no job exists, fall back now.
		log.Warn().Err(err).Str("search_id", searchID).Msg("submit failed, using estimate")
		p.deliverEstimate(searchID, "", req)
		return searchID, nil
	}

	go p.loop(loopCtx, searchID, jobID, req)
	return searchID, nil
}

// Stop cancels the current search, if any.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.activeID = ""
}

// loop polls at a fixed interval until a terminal state or a guard trips.
// Ticks never overlap: each status call completes before the next tick is
// consumed.
func (p *Poller) loop(ctx context.Context, searchID, jobID string, req jobs.Request) {
	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	started := time.Now()
	attempts := 0

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		attempts++
		job, err := p.api.Status(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Str("job_id", jobID).Msg("status check failed, using estimate")
			p.deliverEstimate(searchID, jobID, req)
			return
		}

		switch {
		case job.Status == jobs.StatusCompleted:
			p.deliver(Result{
				SearchID:      searchID,
				JobID:         jobID,
				Source:        SourceProvider,
				Temperature:   weather.TemperatureDatum(job.Result[jobs.VarTemperature2M]),
				Precipitation: weather.PrecipitationDatum(job.Result[jobs.VarSpecificHumidity]),
				Raw:           job.Result,
			})
			return
		case job.Status == jobs.StatusFailed:
			log.Warn().Str("job_id", jobID).Str("error", job.Error).Msg("job failed, using estimate")
			p.deliverEstimate(searchID, jobID, req)
			return
		}

		if attempts >= p.opts.MaxAttempts || time.Since(started) >= p.opts.MaxDuration {
			log.Warn().
				Str("job_id", jobID).
				Int("attempts", attempts).
				Err(ErrPollingAborted).
				Msg("poll guard tripped, using estimate")
			p.deliverEstimate(searchID, jobID, req)
			return
		}
	}
}

func (p *Poller) deliverEstimate(searchID, jobID string, req jobs.Request) {
	est := weather.EstimateForLocation(req.Latitude, req.Longitude)
	temp, precip := est.Data()
	p.deliver(Result{
		SearchID:      searchID,
		JobID:         jobID,
		Source:        SourceEstimate,
		Temperature:   temp,
		Precipitation: precip,
	})
}

// deliver hands the result to the display unless the search has been
// superseded. The mutex serializes against Search, so once a new search holds
// the active ID nothing tagged with the old one gets through.
func (p *Poller) deliver(res Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if res.SearchID != p.activeID {
		log.Debug().Str("search_id", res.SearchID).Msg("discarding stale poll result")
		return
	}
	if p.onResult != nil {
		p.onResult(res)
	}
}
