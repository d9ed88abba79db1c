package commands

import (
	"context"
	"errors"
	"time"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand cancels an order before shipment.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID string
	role    order.Role

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(orderID kernel.UUID, actorID string, role order.Role) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actorID, role),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	return cmd, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CancelOrderCommand) ActorID() string {
	return c.actorID
}

func (c CancelOrderCommand) Role() order.Role {
	return c.role
}

func (c *CancelOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CancelOrderCommand) setActor(actorID string, role order.Role) error {
	if actorID == "" {
		return order.ErrActorIsRequired
	}
	parsed, err := order.ParseRole(role.String())
	if err != nil {
		return err
	}
	c.actorID = actorID
	c.role = parsed
	return nil
}

// cancelWithLogistics cancels o and fails its logistics entry in the same
// unit of work. An already cancelled order is a no-op.
func cancelWithLogistics(ctx context.Context, uow UoW, o *order.Order, actorID string, now time.Time) (bool, error) {
	changed, err := o.Cancel(actorID, now)
	if err != nil || !changed {
		return false, err
	}

	entry, err := uow.LogisticsRepository().GetByOrder(ctx, o.ID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return true, nil
	case err != nil:
		return false, err
	case entry.Status().IsTerminal():
		return true, nil
	}

	expected := entry.Version()
	if err = entry.Advance(logistics.Failed, now); err != nil {
		return false, err
	}
	if err = uow.LogisticsRepository().CompareAndSwap(ctx, expected, entry); err != nil {
		return false, err
	}
	return true, nil
}
