package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// AssignCourierCommandHandler moves the logistics entry of an order to
// Assigned. The order must be Confirmed or PartiallyFulfilled and the
// courier must be known to the directory.
//
// Handing an order to a courier starts its shipment, so the actor is
// authorized for the ship intent: the policy must permit the role and a
// seller must own the order.
type AssignCourierCommandHandler struct {
	writer    orderWriter
	policy    ports.AccessPolicy
	directory ports.CourierDirectory
}

func NewAssignCourierCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	policy ports.AccessPolicy,
	directory ports.CourierDirectory,
) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		writer:    newOrderWriter(uowFactory, publisher),
		policy:    policy,
		directory: directory,
	}
}

func (h AssignCourierCommandHandler) Handle(ctx context.Context, cmd AssignCourierCommand) (LogisticsResult, error) {
	if err := cmd.Validate(); err != nil {
		return LogisticsResult{}, err
	}

	courier, err := h.directory.Lookup(ctx, cmd.CourierID())
	if err != nil {
		return LogisticsResult{}, err
	}

	var entry *logistics.Entry
	o, _, err := h.writer.write(ctx, cmd.OrderID(), func(ctx context.Context, uow UoW, o *order.Order) (bool, error) {
		if err := authorize(h.policy, o, cmd.ActorID(), cmd.Role(), order.IntentShip); err != nil {
			return false, err
		}
		if !o.Status().CanAssignCourier() {
			return false, errs.NewIllegalTransitionErrorWithCause(
				o.Status().String(), "assign courier",
				fmt.Errorf("order must be %s or %s", order.Confirmed, order.PartiallyFulfilled),
			)
		}

		now := time.Now().UTC()
		e, created, err := entryForOrder(ctx, uow, o.ID(), now)
		if err != nil {
			return false, err
		}

		expected := e.Version()
		if err = e.Assign(courier.ID, now); err != nil {
			return false, err
		}
		if created {
			err = uow.LogisticsRepository().Add(ctx, e)
		} else {
			err = uow.LogisticsRepository().CompareAndSwap(ctx, expected, e)
		}
		if err != nil {
			return false, err
		}

		entry = e
		return true, nil
	})
	if err != nil {
		return LogisticsResult{}, err
	}

	return LogisticsResult{Order: o.Snapshot(), Entry: entry.Snapshot(), Courier: &courier}, nil
}

// entryForOrder loads the logistics entry of the order. Orders stored before
// logistics tracking existed get a fresh Processing entry, reported as created.
func entryForOrder(ctx context.Context, uow UoW, orderID kernel.UUID, now time.Time) (*logistics.Entry, bool, error) {
	e, err := uow.LogisticsRepository().GetByOrder(ctx, orderID)
	if err == nil {
		return e, false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, err
	}
	e, err = logistics.NewEntry(kernel.NewUUID(), orderID, now)
	if err != nil {
		return nil, false, err
	}
	return e, true, nil
}
