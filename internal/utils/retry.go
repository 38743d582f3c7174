package utils

import (
	"context"
	"math/rand"
	"time"
)

// Retry runs fn up to attempts times, sleeping baseDelay, 2*baseDelay, ...
// between attempts with up to 25% jitter. It stops early when the context
// is cancelled and returns the last error.
func Retry(ctx context.Context, attempts int, baseDelay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}

		delay := time.Duration(i+1) * baseDelay
		jitter := time.Duration(rand.Int63n(int64(delay)/4 + 1))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay + jitter):
		}
	}
	return err
}
