package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-map/internal/weather"
)

// Worker executes the external data fetch for one job at a time. Each job is
// owned by exactly one Run call; the run always writes a terminal state
// before returning, whatever happens.
type Worker struct {
	store     Store
	providers []weather.HistoricalProvider

	yearsBack    int
	maxChunks    int
	fetchTimeout time.Duration
}

// NewWorker wires the worker onto the store and the provider chain. Providers
// are tried in order per chunk; the first success wins.
func NewWorker(store Store, providers []weather.HistoricalProvider, yearsBack, maxChunks int, fetchTimeout time.Duration) *Worker {
	return &Worker{
		store:        store,
		providers:    providers,
		yearsBack:    yearsBack,
		maxChunks:    maxChunks,
		fetchTimeout: fetchTimeout,
	}
}

// Run loads the job, fetches the requested date across the configured past
// years in bounded chunks, and writes the averaged result. Detached from the
// submitting request: it owns its own deadline.
func (w *Worker) Run(jobID string) {
	ctx, cancel := context.WithTimeout(context.Background(), w.fetchTimeout)
	defer cancel()

	job, err := w.store.Get(ctx, jobID)
	if err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("worker could not load job")
		return
	}

	if err := w.store.MarkRunning(ctx, jobID); err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("worker could not mark job running")
		return
	}

	result, err := w.fetch(ctx, job.Request)
	if err != nil {
		w.fail(jobID, err)
		return
	}

	if err := w.store.MarkCompleted(context.Background(), jobID, result); err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("worker could not persist result")
		return
	}

	log.Info().
		Str("job_id", jobID).
		Float64("T2M", result[VarTemperature2M]).
		Float64("QV2M", result[VarSpecificHumidity]).
		Float64("PS", result[VarSurfacePressure]).
		Float64("U2M", result[VarEastwardWind2M]).
		Float64("V2M", result[VarNorthwardWind2M]).
		Msg("job completed")
}

// fetch walks the same calendar date back through past years, one chunk per
// year, and averages the per-variable samples. The chunk counter is capped so
// a misconfigured span can never loop unbounded.
func (w *Worker) fetch(ctx context.Context, req Request) (map[string]float64, error) {
	day, err := req.Day()
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	if w.yearsBack > w.maxChunks {
		return nil, fmt.Errorf("configured span of %d years exceeds the %d-chunk cap", w.yearsBack, w.maxChunks)
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	fetched := 0

	for chunk := 0; chunk < w.yearsBack; chunk++ {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("fetch deadline exceeded after %d of %d chunks", chunk, w.yearsBack)
		}

		sample, err := w.fetchChunk(ctx, req, day.AddDate(-chunk, 0, 0))
		if err != nil {
			log.Warn().Err(err).Str("date", req.Date).Int("chunk", chunk).Msg("chunk fetch failed")
			continue
		}

		for name, v := range sample {
			sums[name] += v
			counts[name]++
		}
		fetched++
	}

	if fetched == 0 {
		return nil, fmt.Errorf("no provider returned data for %s across %d years", req.Date, w.yearsBack)
	}

	result := make(map[string]float64, len(sums))
	for name, sum := range sums {
		result[name] = sum / float64(counts[name])
	}
	return result, nil
}

// fetchChunk tries each provider in order for one calendar date.
func (w *Worker) fetchChunk(ctx context.Context, req Request, day time.Time) (weather.Variables, error) {
	var lastErr error
	for _, p := range w.providers {
		vars, err := p.FetchDay(ctx, req.Latitude, req.Longitude, day)
		if err != nil {
			log.Warn().Err(err).Str("provider", p.Name()).Str("day", day.Format("2006-01-02")).Msg("provider fetch failed")
			lastErr = err
			continue
		}
		return vars, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no providers configured")
	}
	return nil, lastErr
}

// fail records the failure message. Uses a fresh context so a blown fetch
// deadline cannot also block the terminal write.
func (w *Worker) fail(jobID string, cause error) {
	log.Warn().Err(cause).Str("job_id", jobID).Msg("job failed")
	if err := w.store.MarkFailed(context.Background(), jobID, cause.Error()); err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("worker could not persist failure")
	}
}
