// Package service holds the use cases of the restaurant and books API.
// Every operation takes the caller, checks it against authz and talks to
// the store through the port interfaces.
package service

import (
	"context"
	"fmt"

	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/nikolayk812/littlelemon/internal/port"
	"github.com/rs/zerolog"
)

// Routing keys of published domain events.
const (
	EventOrderPlaced  = "order.placed"
	EventOrderUpdated = "order.updated"
)

type Paging struct {
	DefaultSize int
	MaxSize     int
}

func (p Paging) normalize(q domain.ListQuery) (domain.ListQuery, error) {
	q, err := q.Normalize(p.DefaultSize, p.MaxSize)
	if err != nil {
		return q, fmt.Errorf("list query: %w", err)
	}
	return q, nil
}

// publish sends an event after the fact. Failures are logged, never returned.
func publish(ctx context.Context, log zerolog.Logger, events port.EventPublisher, key string, payload any) {
	if err := events.Publish(ctx, key, payload); err != nil {
		log.Warn().Err(err).Str("routing_key", key).Msg("publish event failed")
		return
	}
	log.Debug().Str("routing_key", key).Msg("event published")
}
