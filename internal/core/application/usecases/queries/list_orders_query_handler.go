package queries

import (
	"context"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
)

type ListOrdersQueryHandler struct {
	readers ReaderFactory
}

func NewListOrdersQueryHandler(readers ReaderFactory) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{readers: readers}
}

// Handle returns snapshots newest first.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]order.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	repo := h.readers.Create().OrderRepository()
	var (
		orders []*order.Order
		err    error
	)
	if query.SellerID() != "" {
		orders, err = repo.ListBySeller(ctx, query.SellerID(), query.Statuses()...)
	} else {
		orders, err = repo.ListByBuyer(ctx, query.BuyerID())
	}
	if err != nil {
		return nil, err
	}

	snapshots := make([]order.Snapshot, 0, len(orders))
	for _, o := range orders {
		snapshots = append(snapshots, o.Snapshot())
	}
	return snapshots, nil
}
