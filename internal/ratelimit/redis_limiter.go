// Package ratelimit counts requests per caller bucket in fixed windows kept
// in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/nikolayk812/littlelemon/internal/port"
	"github.com/redis/go-redis/v9"
)

// Request classes with separate budgets.
const (
	ClassUser = "user"
	ClassAnon = "anon"
)

type Limiter struct {
	client  redis.Cmdable
	budgets map[string]int
	window  time.Duration
}

var _ port.RateLimiter = (*Limiter)(nil)

// NewLimiter allows budgets[class] requests per bucket in every window.
func NewLimiter(client redis.Cmdable, budgets map[string]int, window time.Duration) (*Limiter, error) {
	if client == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %s", window)
	}
	for class, limit := range budgets {
		if limit < 1 {
			return nil, fmt.Errorf("budget of class %q must be positive, got %d", class, limit)
		}
	}

	return &Limiter{client: client, budgets: budgets, window: window}, nil
}

func (l *Limiter) Allow(ctx context.Context, class, bucket string) (port.ThrottleDecision, error) {
	limit, ok := l.budgets[class]
	if !ok {
		return port.ThrottleDecision{}, fmt.Errorf("unknown throttle class %q", class)
	}
	if bucket == "" {
		return port.ThrottleDecision{}, fmt.Errorf("bucket is empty")
	}

	key := Key(class, bucket)

	var (
		incr *redis.IntCmd
		pttl *redis.DurationCmd
	)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return port.ThrottleDecision{}, fmt.Errorf("client.TxPipelined: %w", err)
	}

	count := incr.Val()
	ttl := pttl.Val()

	// the first hit of a window starts its clock
	if ttl < 0 {
		if err := l.client.PExpire(ctx, key, l.window).Err(); err != nil {
			return port.ThrottleDecision{}, fmt.Errorf("client.PExpire: %w", err)
		}
		ttl = l.window
	}

	decision := port.ThrottleDecision{
		Allowed:   count <= int64(limit),
		Remaining: max(limit-int(count), 0),
	}
	if !decision.Allowed {
		decision.RetryAfter = ttl
	}

	return decision, nil
}

func Key(class, bucket string) string {
	return fmt.Sprintf("throttle:%s:%s", class, bucket)
}
