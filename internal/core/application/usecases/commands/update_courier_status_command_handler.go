package commands

import (
	"context"
	"time"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
)

// UpdateCourierStatusCommandHandler advances the logistics entry and keeps
// the order in step with it, in one transaction:
//   - InTransit ships an order that is still Confirmed or PartiallyFulfilled
//   - Delivered additionally delivers a Shipped order
//
// Both derived intents are recorded for the reporting actor and go through
// the access policy like any other transition. A courier may only report on
// an entry assigned to them.
//
// An order that already left the delivery path through the refund workflow
// (RefundRequested, Refunded) or was delivered by hand keeps its status; the
// entry still records the move. Regressions, including repeating the current
// status, fail with IllegalTransitionError and change nothing.
type UpdateCourierStatusCommandHandler struct {
	writer orderWriter
	policy ports.AccessPolicy
}

func NewUpdateCourierStatusCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	policy ports.AccessPolicy,
) UpdateCourierStatusCommandHandler {
	return UpdateCourierStatusCommandHandler{
		writer: newOrderWriter(uowFactory, publisher),
		policy: policy,
	}
}

func (h UpdateCourierStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateCourierStatusCommand,
) (LogisticsResult, error) {
	if err := cmd.Validate(); err != nil {
		return LogisticsResult{}, err
	}

	var entry *logistics.Entry
	o, _, err := h.writer.write(ctx, cmd.OrderID(), func(ctx context.Context, uow UoW, o *order.Order) (bool, error) {
		e, err := uow.LogisticsRepository().GetByOrder(ctx, o.ID())
		if err != nil {
			return false, err
		}
		if err = authorizeReport(e, cmd.ActorID(), cmd.Role()); err != nil {
			return false, err
		}

		expected := e.Version()
		now := time.Now().UTC()
		if err = e.Advance(cmd.Status(), now); err != nil {
			return false, err
		}
		if err = uow.LogisticsRepository().CompareAndSwap(ctx, expected, e); err != nil {
			return false, err
		}
		for _, intent := range derivedIntents(o.Status(), e.Status()) {
			if err = authorize(h.policy, o, cmd.ActorID(), cmd.Role(), intent); err != nil {
				return false, err
			}
			if err = o.Apply(intent, cmd.ActorID(), now); err != nil {
				return false, err
			}
		}

		entry = e
		return true, nil
	})
	if err != nil {
		return LogisticsResult{}, err
	}

	return LogisticsResult{Order: o.Snapshot(), Entry: entry.Snapshot()}, nil
}

// derivedIntents lists the order intents an entry reaching next implies for
// an order in status.
func derivedIntents(status order.Status, next logistics.Status) []order.Intent {
	if next != logistics.InTransit && next != logistics.Delivered {
		return nil
	}

	var intents []order.Intent
	switch status {
	case order.Confirmed, order.PartiallyFulfilled:
		intents = append(intents, order.IntentShip)
	case order.Delivered, order.RefundRequested, order.Refunded:
		return nil
	}
	if next == logistics.Delivered {
		intents = append(intents, order.IntentDeliver)
	}
	return intents
}
