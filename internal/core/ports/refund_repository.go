package ports

import (
	"context"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/refund"
)

// RefundRepository persists refund cases.
type RefundRepository interface {
	// Add stores a new case. A second Requested case for the same order is
	// rejected with errs.ConflictError wrapping errs.ErrOpenRefundExists.
	Add(ctx context.Context, c *refund.RefundCase) error

	// FindOpen returns the Requested case of the order or errs.ObjectNotFoundError.
	FindOpen(ctx context.Context, orderID kernel.UUID) (*refund.RefundCase, error)

	// FindLatestByOrder returns the most recently requested case of the order
	// in any state, or errs.ObjectNotFoundError.
	FindLatestByOrder(ctx context.Context, orderID kernel.UUID) (*refund.RefundCase, error)

	// ListApproved returns up to limit cases waiting for payout, oldest first.
	ListApproved(ctx context.Context, limit int) ([]*refund.RefundCase, error)

	// CompareAndSwap stores c if the stored version equals expectedVersion.
	CompareAndSwap(ctx context.Context, expectedVersion int64, c *refund.RefundCase) error
}
