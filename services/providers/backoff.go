package providers

import (
	"context"
	"time"
)

// Backoff decides how long to wait before the next attempt.
// retry is the zero-based index of the retry about to be made.
type Backoff interface {
	Delay(retry int) time.Duration
}

// FixedBackoff waits the same duration before every retry
type FixedBackoff time.Duration

// Delay implements Backoff
func (b FixedBackoff) Delay(int) time.Duration {
	return time.Duration(b)
}

// Sleeper blocks for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// sleepContext is the default Sleeper
func sleepContext(ctx context.Context, d time.Duration) error {
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
