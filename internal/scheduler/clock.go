package scheduler

import (
	"context"
	"sync"
	"time"
)

// Clock supplies the current wall-clock instant
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time in the local zone
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock is a settable clock for tests and replays
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock frozen at t
func NewManualClock(t time.Time) *ManualClock {
	return &ManualClock{now: t}
}

// Now returns the clock's current instant
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// RunTicker calls fn every d until ctx is cancelled. The underlying
// ticker is released before RunTicker returns.
func RunTicker(ctx context.Context, d time.Duration, fn func(time.Time)) error {
	ticker := time.NewTicker(d)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-ticker.C:
			fn(t)
		}
	}
}
