package resolve

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/fwojciec/sitefind"
)

var _ sitefind.Pacer = Jitter{}

// Jitter sleeps for a random duration in [Min, Max] so requests do not
// follow a fixed cadence.
type Jitter struct {
	Min time.Duration
	Max time.Duration
}

// NewJitter returns the pacing window [delay, delay+2s].
func NewJitter(delay time.Duration) Jitter {
	delay = max(delay, 0)
	return Jitter{Min: delay, Max: delay + 2*time.Second}
}

// Duration returns a random duration within the window.
func (j Jitter) Duration() time.Duration {
	lo, hi := max(j.Min, 0), max(j.Max, 0)
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo+1)
}

// Wait blocks for Duration or until ctx is canceled.
func (j Jitter) Wait(ctx context.Context) error {
	d := j.Duration()
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
