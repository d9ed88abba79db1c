package commands

import (
	"errors"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/guard"
)

var ErrUpdateCourierStatusCommandIsNotConstructed = errors.New(
	"UpdateCourierStatusCommand must be created via NewUpdateCourierStatusCommand constructor",
)

// UpdateCourierStatusCommand reports courier progress on an order.
type UpdateCourierStatusCommand struct {
	orderID kernel.UUID
	status  logistics.Status
	actorID string
	role    order.Role

	guard guard.ConstructorGuard
}

func NewUpdateCourierStatusCommand(
	orderID kernel.UUID,
	status logistics.Status,
	actorID string,
	role order.Role,
) (UpdateCourierStatusCommand, error) {
	if err := errors.Join(orderID.Validate(), status.Validate(), validateActor(actorID, role)); err != nil {
		return UpdateCourierStatusCommand{}, err
	}

	return UpdateCourierStatusCommand{
		orderID: orderID,
		status:  status,
		actorID: actorID,
		role:    role,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateCourierStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCourierStatusCommandIsNotConstructed)
}

func (c UpdateCourierStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateCourierStatusCommand) Status() logistics.Status {
	return c.status
}

func (c UpdateCourierStatusCommand) ActorID() string {
	return c.actorID
}

func (c UpdateCourierStatusCommand) Role() order.Role {
	return c.role
}
