package queries

import (
	"context"
	"errors"

	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

type GetRefundStatusQueryHandler struct {
	readers ReaderFactory
}

func NewGetRefundStatusQueryHandler(readers ReaderFactory) GetRefundStatusQueryHandler {
	return GetRefundStatusQueryHandler{readers: readers}
}

// Handle fails with NotFoundError only when the order itself is unknown.
func (h GetRefundStatusQueryHandler) Handle(
	ctx context.Context,
	query GetRefundStatusQuery,
) (GetRefundStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetRefundStatusQueryResponse{}, err
	}

	reader := h.readers.Create()
	o, err := reader.OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return GetRefundStatusQueryResponse{}, err
	}

	response := GetRefundStatusQueryResponse{OrderID: o.ID(), OrderStatus: o.Status()}
	c, err := reader.RefundRepository().FindLatestByOrder(ctx, o.ID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return response, nil
	case err != nil:
		return GetRefundStatusQueryResponse{}, err
	}

	snapshot := c.Snapshot()
	response.Found = true
	response.Case = &snapshot
	return response, nil
}
