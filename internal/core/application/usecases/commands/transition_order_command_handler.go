package commands

import (
	"context"
	"errors"
	"time"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// TransitionOrderCommandHandler applies confirm, reject, partially-fulfill,
// ship, deliver and cancel.
//
// Checks run against the freshly read order in this order: access policy
// (ForbiddenError), then legality (IllegalTransitionError). A lost version
// race re-runs both against the new state.
//
// Ship and deliver move a logistics entry that has a courier to InTransit and
// Delivered in the same unit of work; cancel fails the entry.
type TransitionOrderCommandHandler struct {
	writer orderWriter
	policy ports.AccessPolicy
}

func NewTransitionOrderCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	policy ports.AccessPolicy,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		writer: newOrderWriter(uowFactory, publisher),
		policy: policy,
	}
}

func (h *TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	o, changed, err := h.writer.write(ctx, cmd.OrderID(), func(ctx context.Context, uow UoW, o *order.Order) (bool, error) {
		if err := authorize(h.policy, o, cmd.ActorID(), cmd.Role(), cmd.Intent()); err != nil {
			return false, err
		}

		now := time.Now().UTC()
		switch cmd.Intent() {
		case order.IntentCancel:
			return cancelWithLogistics(ctx, uow, o, cmd.ActorID(), now)
		case order.IntentPartiallyFulfill:
			return true, o.FulfillPartially(cmd.ActorID(), cmd.FulfilledItems(), now)
		case order.IntentShip, order.IntentDeliver:
			if err := o.Apply(cmd.Intent(), cmd.ActorID(), now); err != nil {
				return false, err
			}
			return true, advanceLogistics(ctx, uow, o.ID(), cmd.Intent(), now)
		default:
			return true, o.Apply(cmd.Intent(), cmd.ActorID(), now)
		}
	})
	if err != nil {
		return OrderResult{}, err
	}

	return OrderResult{Order: o.Snapshot(), Changed: changed}, nil
}

// advanceLogistics brings the entry of an order shipped or delivered by hand
// to the matching status. Entries without a courier, and entries already at
// or past that status, are left alone.
func advanceLogistics(ctx context.Context, uow UoW, orderID kernel.UUID, intent order.Intent, now time.Time) error {
	target := logistics.InTransit
	if intent == order.IntentDeliver {
		target = logistics.Delivered
	}

	entry, err := uow.LogisticsRepository().GetByOrder(ctx, orderID)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return nil
	case err != nil:
		return err
	case entry.CourierID() == nil || !entry.Status().CanMoveTo(target):
		return nil
	}

	expected := entry.Version()
	if err = entry.Advance(target, now); err != nil {
		return err
	}
	return uow.LogisticsRepository().CompareAndSwap(ctx, expected, entry)
}
