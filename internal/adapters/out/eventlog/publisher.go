// Package eventlog publishes domain events to the structured log. It is the
// publisher used when no broker is configured.
package eventlog

import (
	"context"
	"log/slog"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
)

// Publisher implements ports.EventPublisher by writing one log record per event.
type Publisher struct {
	logger *slog.Logger
}

func NewPublisher(logger *slog.Logger) *Publisher {
	return &Publisher{logger: logger.With("component", "event_log")}
}

func (p *Publisher) Publish(ctx context.Context, events ...kernel.DomainEvent) {
	for _, event := range events {
		attrs := []any{
			"event", event.EventName(),
			"aggregateId", event.AggregateID().String(),
		}
		if changed, ok := event.(order.StatusChanged); ok {
			attrs = append(attrs,
				"from", changed.From.String(),
				"to", changed.To.String(),
				"actorId", changed.ActorID,
				"version", changed.Version,
			)
		}
		p.logger.InfoContext(ctx, "Domain event", attrs...)
	}
}
