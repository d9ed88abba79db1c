package ports

import (
	"context"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
)

// AccessPolicy decides whether an actor role may issue an intent while the
// order is in a given status.
type AccessPolicy interface {
	IsPermitted(role order.Role, status order.Status, intent order.Intent) bool
}

// PaymentCollaborator moves money back to the buyer. Callers bound every
// call with a context deadline and hold a settlement claim on the refund
// case while calling. Implementations must treat orderID as an idempotency
// key: a repeated call for an order already refunded must not pay again.
// A call that timed out for the caller may still have been executed.
type PaymentCollaborator interface {
	Refund(ctx context.Context, orderID kernel.UUID, amount kernel.Money) error
}

// Attachment is a piece of refund evidence uploaded by the buyer.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// EvidenceStore keeps refund attachments and hands back opaque references.
// Load of an unknown reference yields errs.ObjectNotFoundError.
type EvidenceStore interface {
	Store(ctx context.Context, attachments []Attachment) ([]string, error)
	Load(ctx context.Context, reference string) (Attachment, error)
}

// CourierInfo is what the directory knows about a courier.
type CourierInfo struct {
	ID   kernel.UUID
	Name string
}

// CourierDirectory looks up couriers. Unknown ids yield errs.ObjectNotFoundError.
type CourierDirectory interface {
	Lookup(ctx context.Context, courierID kernel.UUID) (CourierInfo, error)
}

// EventPublisher hands committed domain events to other systems. It is
// called after commit and is best effort: implementations log their own
// failures and never undo the operation.
type EventPublisher interface {
	Publish(ctx context.Context, events ...kernel.DomainEvent)
}
