package commands

import (
	"errors"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/guard"
)

var ErrProcessRefundCommandIsNotConstructed = errors.New(
	"ProcessRefundCommand must be created via NewProcessRefundCommand constructor",
)

// ProcessRefundCommand pays out the approved refund of an order.
type ProcessRefundCommand struct {
	orderID kernel.UUID
	role    order.Role

	guard guard.ConstructorGuard
}

func NewProcessRefundCommand(orderID kernel.UUID, role order.Role) (ProcessRefundCommand, error) {
	parsed, roleErr := order.ParseRole(role.String())
	if err := errors.Join(orderID.Validate(), roleErr); err != nil {
		return ProcessRefundCommand{}, err
	}

	return ProcessRefundCommand{
		orderID: orderID,
		role:    parsed,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ProcessRefundCommand) Validate() error {
	return c.guard.Validate(ErrProcessRefundCommandIsNotConstructed)
}

func (c ProcessRefundCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ProcessRefundCommand) Role() order.Role {
	return c.role
}
