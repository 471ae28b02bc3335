package geocode

import (
	"context"
	"sync"
	"time"
)

// DefaultMinInterval is the minimum spacing between external geocoding calls.
const DefaultMinInterval = 100 * time.Millisecond

// Limiter enforces a minimum wall-clock interval between successive calls.
// One Limiter is shared by every caller in a process.
type Limiter struct {
	interval time.Duration
	mu       sync.Mutex
	last     time.Time
}

// NewLimiter returns a limiter spacing calls at least interval apart.
// A non-positive interval disables spacing.
func NewLimiter(interval time.Duration) *Limiter {
	if interval < 0 {
		interval = 0
	}
	return &Limiter{interval: interval}
}

// Wait blocks until the interval since the last marked call has elapsed.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.interval <= 0 {
		return nil
	}
	l.mu.Lock()
	lastCall := l.last
	l.mu.Unlock()
	if lastCall.IsZero() {
		return nil
	}
	elapsed := time.Since(lastCall)
	if elapsed >= l.interval {
		return nil
	}
	return SleepWithContext(ctx, l.interval-elapsed)
}

// Mark records that a call just happened.
func (l *Limiter) Mark() {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.last = time.Now()
	l.mu.Unlock()
}

// SleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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
