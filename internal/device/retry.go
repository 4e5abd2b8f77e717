package device

import (
	"context"
	"time"
)

// Retry runs fn once and then up to retries more times while it fails with a
// network error, sleeping delay*attempt before attempt n. HTTP and action
// failures are returned immediately.
func Retry(ctx context.Context, retries int, delay time.Duration, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	for attempt := 1; attempt <= retries && err != nil && IsNetworkError(err); attempt++ {
		t := time.NewTimer(delay * time.Duration(attempt))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		err = fn(ctx)
	}
	return err
}
