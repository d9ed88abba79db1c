package commands

import (
	"errors"
	"slices"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/guard"
)

var ErrProcessPartialOrderCommandIsNotConstructed = errors.New(
	"ProcessPartialOrderCommand must be created via NewProcessPartialOrderCommand constructor",
)

// ProcessPartialOrderCommand is a seller shipping only part of an order.
type ProcessPartialOrderCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	sellerID       string
	fulfilledItems []order.LineItem

	guard guard.ConstructorGuard
}

func NewProcessPartialOrderCommand(
	orderID kernel.UUID,
	sellerID string,
	fulfilledItems []order.LineItem,
) (ProcessPartialOrderCommand, error) {
	var errList []error
	if err := orderID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if sellerID == "" {
		errList = append(errList, order.ErrActorIsRequired)
	}
	if len(fulfilledItems) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("fulfilledItems"))
	}
	if err := errors.Join(errList...); err != nil {
		return ProcessPartialOrderCommand{}, err
	}

	return ProcessPartialOrderCommand{
		orderID:        orderID,
		sellerID:       sellerID,
		fulfilledItems: slices.Clone(fulfilledItems),
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c ProcessPartialOrderCommand) Validate() error {
	return c.guard.Validate(ErrProcessPartialOrderCommandIsNotConstructed)
}

func (c ProcessPartialOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ProcessPartialOrderCommand) SellerID() string {
	return c.sellerID
}

func (c ProcessPartialOrderCommand) FulfilledItems() []order.LineItem {
	return slices.Clone(c.fulfilledItems)
}
