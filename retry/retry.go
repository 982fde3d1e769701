/*
Package retry provides exponential backoff for persistence writes. No
package in this repository calls Do; schedule writes in the api handlers
are made once and a storage error is returned to the caller.
*/
package retry

import (
	"context"
	"time"
)

// Config controls backoff timing. Zero value uses Default.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Default matches the spec's "retried with exponential backoff, ≤5 attempts".
var Default = Config{
	MaxAttempts: 5,
	BaseDelay:   50 * time.Millisecond,
	MaxDelay:    2 * time.Second,
}

// Do calls fn until it succeeds, ctx is cancelled, or MaxAttempts is reached.
// The delay doubles each attempt, capped at MaxDelay.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg = Default
	}
	delay := cfg.BaseDelay
	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == cfg.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return err
}
