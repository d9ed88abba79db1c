package order

import (
	"errors"
	"fmt"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// LineItem is one product line of an order. It is a value object.
type LineItem struct {
	productID string
	quantity  int
	unitPrice kernel.Money
}

// NewLineItem validates product id, quantity >= 1 and unit price >= 0.
func NewLineItem(productID string, quantity int, unitPrice kernel.Money) (LineItem, error) {
	var errList []error
	if productID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("productId"))
	}
	if quantity < 1 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"quantity",
			fmt.Errorf("%d is less than 1 for product %q", quantity, productID),
		))
	}
	if _, err := kernel.NewMoney(unitPrice.Decimal()); err != nil {
		errList = append(errList, err)
	}
	if err := errors.Join(errList...); err != nil {
		return LineItem{}, err
	}
	return LineItem{productID: productID, quantity: quantity, unitPrice: unitPrice}, nil
}

func (li LineItem) ProductID() string {
	return li.productID
}

func (li LineItem) Quantity() int {
	return li.quantity
}

func (li LineItem) UnitPrice() kernel.Money {
	return li.unitPrice
}

// Subtotal is quantity times unit price.
func (li LineItem) Subtotal() kernel.Money {
	return li.unitPrice.Times(li.quantity)
}

func (li LineItem) withQuantity(quantity int) LineItem {
	li.quantity = quantity
	return li
}

// validateLineItems checks the list as a whole: non-empty, no repeated product.
func validateLineItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("lineItems")
	}
	seen := make(map[string]struct{}, len(items))
	for _, li := range items {
		if li.productID == "" || li.quantity < 1 {
			return errs.NewValueIsInvalidErrorWithCause("lineItems", errors.New("line item must be created via NewLineItem"))
		}
		if _, dup := seen[li.productID]; dup {
			return errs.NewValueIsInvalidErrorWithCause(
				"lineItems",
				fmt.Errorf("product %q appears more than once", li.productID),
			)
		}
		seen[li.productID] = struct{}{}
	}
	return nil
}

// splitFulfillment checks that fulfilled is a non-empty subset of ordered by
// quantity and strictly smaller than the whole order. It returns the
// fulfilled lines (priced from the original order) and the remainder.
func splitFulfillment(ordered, fulfilled []LineItem) ([]LineItem, []LineItem, error) {
	if len(fulfilled) == 0 {
		return nil, nil, errs.NewValueIsRequiredError("fulfilledItems")
	}

	requested := make(map[string]int, len(fulfilled))
	for _, f := range fulfilled {
		if f.quantity < 1 {
			return nil, nil, errs.NewValueIsInvalidErrorWithCause(
				"fulfilledItems",
				fmt.Errorf("quantity %d for product %q is less than 1", f.quantity, f.productID),
			)
		}
		if _, dup := requested[f.productID]; dup {
			return nil, nil, errs.NewValueIsInvalidErrorWithCause(
				"fulfilledItems",
				fmt.Errorf("product %q appears more than once", f.productID),
			)
		}
		requested[f.productID] = f.quantity
	}

	var kept, remainder []LineItem
	reduced := false
	for _, li := range ordered {
		qty, ok := requested[li.productID]
		if !ok {
			remainder = append(remainder, li)
			reduced = true
			continue
		}
		delete(requested, li.productID)
		if qty > li.quantity {
			return nil, nil, errs.NewValueIsOutOfRangeError(
				fmt.Sprintf("fulfilled quantity of %s", li.productID), qty, 1, li.quantity,
			)
		}
		kept = append(kept, li.withQuantity(qty))
		if qty < li.quantity {
			remainder = append(remainder, li.withQuantity(li.quantity-qty))
			reduced = true
		}
	}

	for productID := range requested {
		return nil, nil, errs.NewValueIsInvalidErrorWithCause(
			"fulfilledItems",
			fmt.Errorf("product %q is not part of the order", productID),
		)
	}
	if !reduced {
		return nil, nil, errs.NewValueIsInvalidErrorWithCause(
			"fulfilledItems",
			errors.New("fulfilled items cover the whole order, confirm it instead"),
		)
	}

	return kept, remainder, nil
}
