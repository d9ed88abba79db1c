package queries

import (
	"errors"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/refund"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/guard"
)

var ErrGetRefundStatusQueryIsNotConstructed = errors.New(
	"GetRefundStatusQuery must be created via NewGetRefundStatusQuery constructor",
)

// GetRefundStatusQuery returns the most recent refund case of an order.
type GetRefundStatusQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetRefundStatusQuery(orderID kernel.UUID) (GetRefundStatusQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetRefundStatusQuery{}, err
	}
	return GetRefundStatusQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetRefundStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetRefundStatusQueryIsNotConstructed)
}

func (q GetRefundStatusQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetRefundStatusQueryResponse has Found=false and a nil Case when the
// order never had a refund request.
type GetRefundStatusQueryResponse struct {
	OrderID     kernel.UUID
	OrderStatus order.Status
	Found       bool
	Case        *refund.Snapshot
}
