package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle bounds how often a repeated job may start. It wraps a token
// bucket with a burst of one so a quiet period earns a single immediate run.
type Throttle struct {
	inner *rate.Limiter
}

// NewThrottle allows perSecond runs per second. Zero or negative means
// unlimited.
func NewThrottle(perSecond float64) *Throttle {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &Throttle{inner: rate.NewLimiter(limit, 1)}
}

// Ready reports whether a run may start now, consuming the token if so.
func (t *Throttle) Ready() bool {
	return t.inner.Allow()
}

// Wait blocks until a run may start or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	return t.inner.Wait(ctx)
}

// Delay returns how long a caller would wait for the next run without
// consuming anything.
func (t *Throttle) Delay() time.Duration {
	r := t.inner.Reserve()
	defer r.Cancel()
	return r.Delay()
}
