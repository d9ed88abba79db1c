package ports

import (
	"context"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
)

// LogisticsRepository persists logistics entries, one per order.
type LogisticsRepository interface {
	Add(ctx context.Context, e *logistics.Entry) error

	// GetByOrder returns the entry tracking orderID or errs.ObjectNotFoundError.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*logistics.Entry, error)

	// CompareAndSwap stores e if the stored version equals expectedVersion.
	CompareAndSwap(ctx context.Context, expectedVersion int64, e *logistics.Entry) error
}
