package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	sweeps atomic.Int64
}

func (c *countingSweeper) SweepExpired() int {
	c.sweeps.Add(1)
	return 0
}

// A sub-minute interval must be honoured as configured, not widened.
func TestJanitorHonoursSubMinuteInterval(t *testing.T) {
	sweeper := &countingSweeper{}
	j := New(sweeper, 20*time.Millisecond)

	require.NoError(t, j.Start())
	defer j.Stop()

	deadline := time.After(2 * time.Second)
	for sweeper.sweeps.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 2 sweeps, got %d", sweeper.sweeps.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}
}
