package order

import (
	"time"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
)

// StatusChangedEventName is the name of StatusChanged on the wire.
const StatusChangedEventName = "order.status-changed"

// StatusChanged is raised for every history entry appended to an order.
type StatusChanged struct {
	OrderID kernel.UUID `json:"orderId"`
	From    Status      `json:"from"`
	To      Status      `json:"to"`
	Intent  Intent      `json:"intent,omitempty"`
	ActorID string      `json:"actorId"`
	At      time.Time   `json:"at"`
	Version int64       `json:"version"`
}

func (e StatusChanged) EventName() string {
	return StatusChangedEventName
}

func (e StatusChanged) AggregateID() kernel.UUID {
	return e.OrderID
}
