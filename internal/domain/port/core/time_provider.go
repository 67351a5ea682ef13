package core

import (
	"context"
	"time"
)

// TimeProvider abstracts time operations for the domain. The daily-quota
// reset logic depends on the current calendar date, so the clock must be
// injectable for tests.
type TimeProvider interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc)
}
