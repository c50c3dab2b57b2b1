// Package clock holds context-aware waiting helpers.
package clock

import (
	"context"
	"time"
)

// SleepWithContext waits for d or returns ctx.Err() once ctx is done.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Every calls fn once per interval, the first call one interval after start.
// It returns ctx.Err() when ctx is done, or the first error fn returns.
func Every(ctx context.Context, interval time.Duration, fn func(context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := fn(ctx); err != nil {
			return err
		}
	}
}
