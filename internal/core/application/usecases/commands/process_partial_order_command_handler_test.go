package commands_test

import (
	"testing"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/application/usecases/commands"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func processPartial(t *testing.T, h *harness, id kernel.UUID, sellerID string, items ...order.LineItem) (commands.OrderResult, error) {
	t.Helper()
	cmd, err := commands.NewProcessPartialOrderCommand(id, sellerID, items)
	require.NoError(t, err)
	return h.partial.Handle(t.Context(), cmd)
}

func TestProcessPartialOrderCommandHandler_Handle(t *testing.T) {
	t.Run("should keep fulfilled items and record the remainder", func(t *testing.T) {
		h := newHarness(t)
		id := h.confirmedOrder(t)

		res, err := processPartial(t, h, id, "seller-1", lineItem(t, "sku-1", 2, "10.00"))

		require.NoError(t, err)
		assert.Equal(t, order.PartiallyFulfilled, res.Order.Status)
		assert.Equal(t, "20.00", sumOf(res.Order.Items))
		require.Len(t, res.Order.Remainder, 1)
		assert.Equal(t, "sku-2", res.Order.Remainder[0].ProductID())

		stored := h.load(t, id)
		assert.Equal(t, res.Order.Items, stored.Items)
		assert.Equal(t, res.Order.Remainder, stored.Remainder)
	})

	t.Run("should reject the whole order", func(t *testing.T) {
		h := newHarness(t)
		id := h.placeOrder(t)

		_, err := processPartial(t, h, id, "seller-1",
			lineItem(t, "sku-1", 2, "10.00"), lineItem(t, "sku-2", 1, "5.50"))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.PendingSellerConfirmation, h.load(t, id).Status)
	})

	t.Run("should reject more than was ordered", func(t *testing.T) {
		h := newHarness(t)
		id := h.placeOrder(t)

		_, err := processPartial(t, h, id, "seller-1", lineItem(t, "sku-2", 3, "5.50"))

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject unknown products", func(t *testing.T) {
		h := newHarness(t)
		id := h.placeOrder(t)

		_, err := processPartial(t, h, id, "seller-1", lineItem(t, "sku-9", 1, "1.00"))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should refuse after shipment", func(t *testing.T) {
		h := newHarness(t)
		id := h.confirmedOrder(t)
		h.mustApply(t, id, "seller-1", order.RoleSeller, order.IntentShip)

		_, err := processPartial(t, h, id, "seller-1", lineItem(t, "sku-1", 1, "10.00"))

		require.ErrorIs(t, err, errs.ErrIllegalTransition)
	})

	t.Run("should refuse other sellers", func(t *testing.T) {
		h := newHarness(t)
		id := h.placeOrder(t)

		_, err := processPartial(t, h, id, "seller-2", lineItem(t, "sku-1", 1, "10.00"))

		require.ErrorIs(t, err, errs.ErrForbidden)
	})
}

func TestNewProcessPartialOrderCommand(t *testing.T) {
	_, err := commands.NewProcessPartialOrderCommand(kernel.NewUUID(), "seller-1", nil)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func sumOf(items []order.LineItem) string {
	total := kernel.Zero()
	for _, li := range items {
		total = total.Add(li.Subtotal())
	}
	return total.String()
}
