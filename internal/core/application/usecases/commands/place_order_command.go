package commands

import (
	"errors"
	"slices"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderCommand represents a buyer placing an order with one seller.
//
// Example:
//
//	item, _ := order.NewLineItem("sku-1", 2, kernel.MustMoney("9.99"))
//	cmd, err := NewPlaceOrderCommand(kernel.NewUUID(), "buyer-1", "seller-1", []order.LineItem{item})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	buyerID  string
	sellerID string
	items    []order.LineItem

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand validates ids and that at least one line item is given.
// Item level rules are enforced by order.NewLineItem and order.NewOrder.
func NewPlaceOrderCommand(orderID kernel.UUID, buyerID, sellerID string, items []order.LineItem) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setBuyerID(buyerID),
		cmd.setSellerID(sellerID),
		cmd.setItems(items),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c PlaceOrderCommand) BuyerID() string {
	return c.buyerID
}

func (c PlaceOrderCommand) SellerID() string {
	return c.sellerID
}

func (c PlaceOrderCommand) Items() []order.LineItem {
	return slices.Clone(c.items)
}

func (c *PlaceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *PlaceOrderCommand) setBuyerID(buyerID string) error {
	if buyerID == "" {
		return order.ErrBuyerIsRequired
	}
	c.buyerID = buyerID
	return nil
}

func (c *PlaceOrderCommand) setSellerID(sellerID string) error {
	if sellerID == "" {
		return order.ErrSellerIsRequired
	}
	c.sellerID = sellerID
	return nil
}

func (c *PlaceOrderCommand) setItems(items []order.LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("lineItems")
	}
	c.items = slices.Clone(items)
	return nil
}
