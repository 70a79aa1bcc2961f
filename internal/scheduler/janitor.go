package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

// Sweeper is what the janitor needs from a store. The Redis store expires
// records itself and does not register here.
type Sweeper interface {
	SweepExpired() int
}

// Janitor periodically removes expired terminal jobs from the store.
type Janitor struct {
	scheduler *gocron.Scheduler
	store     Sweeper
	interval  time.Duration
}

// New creates a Janitor.
func New(store Sweeper, interval time.Duration) *Janitor {
	return &Janitor{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     store,
		interval:  interval,
	}
}

// Start schedules the periodic sweep and starts the underlying scheduler.
// The interval is taken as-is, so sub-minute values run at full resolution.
func (j *Janitor) Start() error {
	interval := j.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := j.scheduler.Every(interval).Do(func() {
		if removed := j.store.SweepExpired(); removed > 0 {
			log.Info().Int("removed", removed).Msg("janitor: swept expired jobs")
		}
	})
	if err != nil {
		return err
	}

	j.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future sweeps.
func (j *Janitor) Stop() {
	if j.scheduler != nil {
		j.scheduler.Stop()
	}
}
