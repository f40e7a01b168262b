package ratelimit

import (
	"context"
	"time"
)

// Policy caps a caller at Requests per Window. A non-positive Requests disables the limit.
type Policy struct {
	Requests int
	Window   time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, policy Policy) (bool, error)
	Remaining(ctx context.Context, key string, policy Policy) (int64, error)
}
