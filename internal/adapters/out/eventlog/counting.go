package eventlog

import (
	"context"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
)

// StatusCounter is fed one observation per committed status change.
type StatusCounter interface {
	ObserveStatusChange(status string)
}

// CountingPublisher counts status changes and forwards every event to next.
type CountingPublisher struct {
	next    ports.EventPublisher
	counter StatusCounter
}

func NewCountingPublisher(next ports.EventPublisher, counter StatusCounter) *CountingPublisher {
	return &CountingPublisher{next: next, counter: counter}
}

func (p *CountingPublisher) Publish(ctx context.Context, events ...kernel.DomainEvent) {
	for _, event := range events {
		if changed, ok := event.(order.StatusChanged); ok {
			p.counter.ObserveStatusChange(changed.To.String())
		}
	}
	p.next.Publish(ctx, events...)
}
