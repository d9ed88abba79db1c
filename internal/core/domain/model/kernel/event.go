package kernel

// DomainEvent is something that happened to an aggregate and is published
// after the unit of work that produced it has committed.
type DomainEvent interface {
	// EventName is the stable name consumers route on, e.g. "order.status-changed".
	EventName() string
	// AggregateID is used as the partition key by message brokers.
	AggregateID() UUID
}
