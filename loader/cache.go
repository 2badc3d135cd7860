package loader

import (
	"context"
	"time"
)

// Cached is a loaded value together with the time it was loaded. Callers
// keep it themselves and decide when it has gone stale.
type Cached[T any] struct {
	Data       T
	CapturedAt time.Time
}

// NewCached wraps data loaded at now.
func NewCached[T any](data T, now time.Time) Cached[T] {
	return Cached[T]{Data: data, CapturedAt: now}
}

// Fresh reports whether the value is younger than ttl at now. A zero value
// is never fresh.
func (c Cached[T]) Fresh(now time.Time, ttl time.Duration) bool {
	if c.CapturedAt.IsZero() {
		return false
	}
	return now.Sub(c.CapturedAt) < ttl
}

// Poll calls fn immediately and then once per interval until ctx is done.
func Poll(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	if interval <= 0 {
		interval = DefaultTTL
	}

	fn(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			fn(ctx)
		}
	}
}
