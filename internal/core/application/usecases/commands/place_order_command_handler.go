package commands

import (
	"context"
	"time"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
)

// PlaceOrderCommandHandler creates the order together with its logistics
// entry in one transaction.
type PlaceOrderCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

func NewPlaceOrderCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle places the order. The returned order is already in
// PendingSellerConfirmation.
func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	now := time.Now().UTC()
	o, err := order.NewOrder(cmd.OrderID(), cmd.BuyerID(), cmd.SellerID(), cmd.Items(), now)
	if err != nil {
		return OrderResult{}, err
	}
	entry, err := logistics.NewEntry(kernel.NewUUID(), o.ID(), now)
	if err != nil {
		return OrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return OrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return OrderResult{}, err
	}
	if err = uow.LogisticsRepository().Add(ctx, entry); err != nil {
		return OrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return OrderResult{}, err
	}

	if events := uow.Events(); len(events) > 0 && h.publisher != nil {
		h.publisher.Publish(ctx, events...)
	}

	return OrderResult{Order: o.Snapshot(), Changed: true}, nil
}
