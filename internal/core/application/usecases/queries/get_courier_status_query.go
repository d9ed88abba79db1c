package queries

import (
	"errors"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/guard"
)

const (
	// NotAssignedCourierName is shown while no courier is attached.
	NotAssignedCourierName = "Not Assigned"
	// UnknownCourierName is shown when the directory cannot name the courier.
	UnknownCourierName = "Unknown"
)

var ErrGetCourierStatusQueryIsNotConstructed = errors.New(
	"GetCourierStatusQuery must be created via NewGetCourierStatusQuery constructor",
)

// GetCourierStatusQuery asks for the unified delivery view of an order.
type GetCourierStatusQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCourierStatusQuery(orderID kernel.UUID) (GetCourierStatusQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetCourierStatusQuery{}, err
	}
	return GetCourierStatusQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCourierStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierStatusQueryIsNotConstructed)
}

func (q GetCourierStatusQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetCourierStatusQueryResponse is the unified delivery view. Found is false
// when the order is not tracked yet; Status is then Processing.
type GetCourierStatusQueryResponse struct {
	OrderID     kernel.UUID
	Found       bool
	Status      logistics.Status
	CourierID   *kernel.UUID
	CourierName string
}
