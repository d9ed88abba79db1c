package commands

import (
	"context"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
)

// ProcessPartialOrderCommandHandler narrows an order to the items the seller
// can ship. It is the partially-fulfill transition issued with the seller role.
type ProcessPartialOrderCommandHandler struct {
	transition TransitionOrderCommandHandler
}

func NewProcessPartialOrderCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	policy ports.AccessPolicy,
) ProcessPartialOrderCommandHandler {
	return ProcessPartialOrderCommandHandler{
		transition: NewTransitionOrderCommandHandler(uowFactory, publisher, policy),
	}
}

func (h *ProcessPartialOrderCommandHandler) Handle(ctx context.Context, cmd ProcessPartialOrderCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	transition, err := NewTransitionOrderCommand(
		cmd.OrderID(), cmd.SellerID(), order.RoleSeller, order.IntentPartiallyFulfill, cmd.FulfilledItems(),
	)
	if err != nil {
		return OrderResult{}, err
	}

	return h.transition.Handle(ctx, transition)
}
