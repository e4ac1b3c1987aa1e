package service

import (
	"context"
	"time"
)

// FirstOf runs fn with a bounded deadline and returns its result, or the
// fallback value if fn has not finished in time. The call is cancelled via
// context when the timer wins; a late result is discarded. Used for
// best-effort probes where a deterministic default beats waiting.
func FirstOf[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error), fallback T) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}

	done := make(chan outcome, 1)
	go func() {
		value, err := fn(ctx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-ctx.Done():
		return fallback, nil
	}
}
