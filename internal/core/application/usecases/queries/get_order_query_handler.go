package queries

import (
	"context"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
)

// GetOrderQueryHandler serves both the order view and the history view:
// the snapshot carries the append-only history, oldest entry first.
type GetOrderQueryHandler struct {
	readers ReaderFactory
}

func NewGetOrderQueryHandler(readers ReaderFactory) GetOrderQueryHandler {
	return GetOrderQueryHandler{readers: readers}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (order.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	o, err := h.readers.Create().OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return order.Snapshot{}, err
	}
	return o.Snapshot(), nil
}
