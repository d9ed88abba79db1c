package commands

import (
	"errors"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/guard"
)

var ErrAssignCourierCommandIsNotConstructed = errors.New(
	"AssignCourierCommand must be created via NewAssignCourierCommand constructor",
)

// AssignCourierCommand attaches a courier from the directory to an order.
//
// Example:
//
//	cmd, err := NewAssignCourierCommand(orderID, courierID, "seller-1", order.RoleSeller)
//	handler := NewAssignCourierCommandHandler(uowFactory, publisher, policy, directory)
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown order or courier
//	}
type AssignCourierCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID
	actorID   string
	role      order.Role

	guard guard.ConstructorGuard
}

func NewAssignCourierCommand(orderID, courierID kernel.UUID, actorID string, role order.Role) (AssignCourierCommand, error) {
	var courierErr error
	if err := courierID.Validate(); err != nil {
		courierErr = errs.NewValueIsRequiredErrorWithCause("courierId", err)
	}
	if err := errors.Join(orderID.Validate(), courierErr, validateActor(actorID, role)); err != nil {
		return AssignCourierCommand{}, err
	}

	return AssignCourierCommand{
		orderID:   orderID,
		courierID: courierID,
		actorID:   actorID,
		role:      role,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignCourierCommand) Validate() error {
	return c.guard.Validate(ErrAssignCourierCommandIsNotConstructed)
}

func (c AssignCourierCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssignCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c AssignCourierCommand) ActorID() string {
	return c.actorID
}

func (c AssignCourierCommand) Role() order.Role {
	return c.role
}
