package order_test

import (
	"testing"
	"time"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func item(t *testing.T, productID string, qty int, price string) order.LineItem {
	t.Helper()
	li, err := order.NewLineItem(productID, qty, kernel.MustMoney(price))
	require.NoError(t, err)
	return li
}

func newOrder(t *testing.T, items ...order.LineItem) *order.Order {
	t.Helper()
	if len(items) == 0 {
		items = []order.LineItem{item(t, "sku-1", 2, "10.00"), item(t, "sku-2", 1, "5.50")}
	}
	o, err := order.NewOrder(kernel.NewUUID(), "buyer-1", "seller-1", items, placedAt)
	require.NoError(t, err)
	return o
}

func statuses(o *order.Order) []order.Status {
	var out []order.Status
	for _, h := range o.History() {
		out = append(out, h.Status)
	}
	return out
}

func TestNewOrder(t *testing.T) {
	t.Run("should place order and await seller confirmation", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.PendingSellerConfirmation, o.Status())
		assert.Equal(t, []order.Status{order.Placed, order.PendingSellerConfirmation}, statuses(o))
		assert.Equal(t, "buyer-1", o.History()[0].ActorID)
		assert.Equal(t, order.SystemActorID, o.History()[1].ActorID)
		assert.Equal(t, int64(1), o.Version())
		assert.Equal(t, "25.50", o.Total().String())
		assert.Len(t, o.Events(), 2)
	})

	t.Run("should fail with empty line items", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), "buyer-1", "seller-1", nil, placedAt)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	})

	t.Run("should fail with repeated product", func(t *testing.T) {
		items := []order.LineItem{item(t, "sku-1", 1, "1.00"), item(t, "sku-1", 2, "1.00")}

		o, err := order.NewOrder(kernel.NewUUID(), "buyer-1", "seller-1", items, placedAt)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "appears more than once")
	})

	t.Run("should join all validation errors", func(t *testing.T) {
		o, err := order.NewOrder(kernel.UUID{}, "", "", nil, placedAt)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "buyerId")
		assert.Contains(t, err.Error(), "sellerId")
		assert.Contains(t, err.Error(), "lineItems")
	})
}

func TestNewLineItem(t *testing.T) {
	t.Run("should reject zero quantity", func(t *testing.T) {
		_, err := order.NewLineItem("sku-1", 0, kernel.MustMoney("1.00"))

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should accept free items", func(t *testing.T) {
		li, err := order.NewLineItem("sku-1", 3, kernel.Zero())

		require.NoError(t, err)
		assert.True(t, li.Subtotal().IsZero())
	})

	t.Run("should reject empty product id", func(t *testing.T) {
		_, err := order.NewLineItem("", 1, kernel.Zero())

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestOrder_Apply(t *testing.T) {
	t.Run("should follow the happy path to delivery", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.Apply(order.IntentConfirm, "seller-1", placedAt.Add(time.Minute)))
		require.NoError(t, o.Apply(order.IntentShip, "courier-1", placedAt.Add(2*time.Minute)))
		require.NoError(t, o.Apply(order.IntentDeliver, "courier-1", placedAt.Add(3*time.Minute)))

		assert.Equal(t, order.Delivered, o.Status())
		assert.Equal(t, int64(4), o.Version())
		assert.Len(t, o.History(), 5)
	})

	t.Run("should reject shipping a pending order", func(t *testing.T) {
		o := newOrder(t)

		err := o.Apply(order.IntentShip, "seller-1", placedAt)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
		assert.Equal(t, order.PendingSellerConfirmation, o.Status())
		assert.Equal(t, int64(1), o.Version())
		assert.Len(t, o.History(), 2)
	})

	t.Run("should not leave terminal states", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Apply(order.IntentReject, "seller-1", placedAt))

		for _, intent := range order.AllIntents() {
			if intent == order.IntentPartiallyFulfill {
				continue
			}
			assert.ErrorIs(t, o.Apply(intent, "admin-1", placedAt), errs.ErrIllegalTransition, intent)
		}
	})

	t.Run("should require an actor", func(t *testing.T) {
		o := newOrder(t)

		assert.ErrorIs(t, o.Apply(order.IntentConfirm, "", placedAt), order.ErrActorIsRequired)
	})

	t.Run("should fail on struct literal", func(t *testing.T) {
		o := &order.Order{}

		assert.ErrorIs(t, o.Apply(order.IntentConfirm, "seller-1", placedAt), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_RejectRefund(t *testing.T) {
	t.Run("should revert to the status before the request", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Apply(order.IntentConfirm, "seller-1", placedAt))
		require.NoError(t, o.Apply(order.IntentShip, "seller-1", placedAt))
		require.NoError(t, o.Apply(order.IntentRequestRefund, "buyer-1", placedAt))

		require.NoError(t, o.Apply(order.IntentRejectRefund, "seller-1", placedAt))

		assert.Equal(t, order.Shipped, o.Status())
		h := o.History()
		assert.Equal(t, order.Shipped, h[len(h)-1].Status)
		assert.Equal(t, order.RefundRequested, h[len(h)-2].Status)
	})

	t.Run("should skip earlier refund requests", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Apply(order.IntentConfirm, "seller-1", placedAt))
		require.NoError(t, o.Apply(order.IntentRequestRefund, "buyer-1", placedAt))
		require.NoError(t, o.Apply(order.IntentRejectRefund, "seller-1", placedAt))
		require.NoError(t, o.Apply(order.IntentRequestRefund, "buyer-1", placedAt))

		pre, err := o.PreRefundStatus()

		require.NoError(t, err)
		assert.Equal(t, order.Confirmed, pre)
	})
}

func TestOrder_FulfillPartially(t *testing.T) {
	t.Run("should narrow items and keep remainder", func(t *testing.T) {
		o := newOrder(t)

		err := o.FulfillPartially("seller-1", []order.LineItem{item(t, "sku-1", 1, "0.00")}, placedAt)

		require.NoError(t, err)
		assert.Equal(t, order.PartiallyFulfilled, o.Status())
		require.Len(t, o.Items(), 1)
		assert.Equal(t, 1, o.Items()[0].Quantity())
		assert.Equal(t, "10.00", o.Total().String())
		require.Len(t, o.Remainder(), 2)
	})

	t.Run("should reject fulfilling the whole order", func(t *testing.T) {
		o := newOrder(t)

		err := o.FulfillPartially("seller-1", o.Items(), placedAt)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.PendingSellerConfirmation, o.Status())
	})

	t.Run("should reject unknown products and excess quantities", func(t *testing.T) {
		o := newOrder(t)

		assert.Error(t, o.FulfillPartially("seller-1", []order.LineItem{item(t, "sku-9", 1, "1.00")}, placedAt))
		assert.ErrorIs(t,
			o.FulfillPartially("seller-1", []order.LineItem{item(t, "sku-1", 3, "1.00")}, placedAt),
			errs.ErrValueIsOutOfRange,
		)
		assert.Equal(t, order.PendingSellerConfirmation, o.Status())
	})

	t.Run("should reject after shipment", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Apply(order.IntentConfirm, "seller-1", placedAt))
		require.NoError(t, o.Apply(order.IntentShip, "seller-1", placedAt))

		err := o.FulfillPartially("seller-1", []order.LineItem{item(t, "sku-1", 1, "1.00")}, placedAt)

		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("should be idempotent", func(t *testing.T) {
		o := newOrder(t)

		changed, err := o.Cancel("buyer-1", placedAt)
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = o.Cancel("buyer-1", placedAt)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Len(t, o.History(), 3)
		assert.Equal(t, int64(2), o.Version())
	})

	t.Run("should not cancel shipped order", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Apply(order.IntentConfirm, "seller-1", placedAt))
		require.NoError(t, o.Apply(order.IntentShip, "seller-1", placedAt))

		changed, err := o.Cancel("buyer-1", placedAt)

		assert.False(t, changed)
		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("should round trip through snapshot", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Apply(order.IntentConfirm, "seller-1", placedAt))

		restored, err := order.RestoreOrder(o.Snapshot())

		require.NoError(t, err)
		assert.Equal(t, o.Snapshot(), restored.Snapshot())
		assert.Empty(t, restored.Events())
	})

	t.Run("should reject history that disagrees with status", func(t *testing.T) {
		s := newOrder(t).Snapshot()
		s.Status = order.Confirmed

		_, err := order.RestoreOrder(s)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "history")
	})
}
