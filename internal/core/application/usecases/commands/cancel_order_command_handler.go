package commands

import (
	"context"
	"time"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
)

// CancelOrderCommandHandler cancels orders. Cancelling an already cancelled
// order succeeds with Changed=false and leaves history untouched.
type CancelOrderCommandHandler struct {
	writer orderWriter
	policy ports.AccessPolicy
}

func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	policy ports.AccessPolicy,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		writer: newOrderWriter(uowFactory, publisher),
		policy: policy,
	}
}

func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	o, changed, err := h.writer.write(ctx, cmd.OrderID(), func(ctx context.Context, uow UoW, o *order.Order) (bool, error) {
		if err := authorize(h.policy, o, cmd.ActorID(), cmd.Role(), order.IntentCancel); err != nil {
			return false, err
		}
		return cancelWithLogistics(ctx, uow, o, cmd.ActorID(), time.Now().UTC())
	})
	if err != nil {
		return OrderResult{}, err
	}

	return OrderResult{Order: o.Snapshot(), Changed: changed}, nil
}
