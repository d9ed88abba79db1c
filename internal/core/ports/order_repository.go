// Package ports defines the contracts between the application core and its
// adapters: repositories bound to a unit of work, and the external
// collaborators the order lifecycle talks to.
package ports

import (
	"context"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Every write is a compare-and-swap on the order version.
type OrderRepository interface {
	// Add persists a newly placed order. The order's id must be unused.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its items and full history.
	// Returns errs.ObjectNotFoundError if the id is unknown.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// CompareAndSwap stores aggregate only if the stored version still equals
	// expectedVersion. A mismatch is reported as errs.ConflictError wrapping
	// errs.ErrVersionConflict; nothing is written in that case.
	CompareAndSwap(ctx context.Context, expectedVersion int64, aggregate *order.Order) error

	// ListBySeller returns the seller's orders, newest first. When statuses
	// is not empty only orders in one of them are returned.
	ListBySeller(ctx context.Context, sellerID string, statuses ...order.Status) ([]*order.Order, error)

	// ListByBuyer returns the buyer's orders, newest first.
	ListByBuyer(ctx context.Context, buyerID string) ([]*order.Order, error)
}
