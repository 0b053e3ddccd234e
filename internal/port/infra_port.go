package port

import (
	"context"
	"time"
)

type ThrottleDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type RateLimiter interface {
	// Allow consumes one request from the budget of (class, bucket).
	Allow(ctx context.Context, class, bucket string) (ThrottleDecision, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}
