package commands_test

import (
	"sync"
	"testing"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/application/usecases/commands"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionOrderCommandHandler_HappyPath(t *testing.T) {
	h := newHarness(t)
	id := h.placeOrder(t)

	h.mustApply(t, id, "seller-1", order.RoleSeller, order.IntentConfirm)
	h.mustApply(t, id, "courier-7", order.RoleCourier, order.IntentShip)
	res, err := h.apply(t, id, order.SystemActorID, order.RoleSystem, order.IntentDeliver)

	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, order.Delivered, res.Order.Status)
	assert.Equal(t, []order.Status{
		order.Placed, order.PendingSellerConfirmation, order.Confirmed, order.Shipped, order.Delivered,
	}, historyOf(h.load(t, id)))
	assert.Equal(t, int64(4), res.Order.Version)
	assert.Equal(t, 5, h.publisher.Len())
}

func TestTransitionOrderCommandHandler_Forbidden(t *testing.T) {
	t.Run("should deny a role the table does not list", func(t *testing.T) {
		h := newHarness(t)
		id := h.placeOrder(t)

		_, err := h.apply(t, id, "buyer-1", order.RoleBuyer, order.IntentConfirm)

		require.ErrorIs(t, err, errs.ErrForbidden)
		assert.Equal(t, errs.KindForbidden, errs.KindOf(err))
		status, ok := errs.CurrentStatus(err)
		require.True(t, ok)
		assert.Equal(t, order.PendingSellerConfirmation.String(), status)
		assert.Equal(t, order.PendingSellerConfirmation, h.load(t, id).Status)
	})

	t.Run("should deny a seller acting on another seller's order", func(t *testing.T) {
		h := newHarness(t)
		id := h.placeOrder(t)

		_, err := h.apply(t, id, "seller-2", order.RoleSeller, order.IntentConfirm)

		require.ErrorIs(t, err, errs.ErrForbidden)
		require.ErrorIs(t, err, commands.ErrNotOrderSeller)
	})

	t.Run("should deny a buyer cancelling someone else's order", func(t *testing.T) {
		h := newHarness(t)
		id := h.placeOrder(t)

		_, err := h.apply(t, id, "buyer-2", order.RoleBuyer, order.IntentCancel)

		require.ErrorIs(t, err, commands.ErrNotOrderBuyer)
	})
}

func TestTransitionOrderCommandHandler_IllegalTransition(t *testing.T) {
	h := newHarness(t)
	id := h.placeOrder(t)

	_, err := h.apply(t, id, "seller-1", order.RoleSeller, order.IntentShip)

	require.ErrorIs(t, err, errs.ErrIllegalTransition)
	status, ok := errs.CurrentStatus(err)
	require.True(t, ok)
	assert.Equal(t, order.PendingSellerConfirmation.String(), status)

	stored := h.load(t, id)
	assert.Len(t, stored.History, 2)
	assert.Equal(t, int64(1), stored.Version)
}

func TestTransitionOrderCommandHandler_TerminalStatus(t *testing.T) {
	h := newHarness(t)
	id := h.placeOrder(t)
	h.mustApply(t, id, "seller-1", order.RoleSeller, order.IntentReject)

	for _, intent := range []order.Intent{order.IntentConfirm, order.IntentShip, order.IntentCancel} {
		role := order.RoleSeller
		actor := "seller-1"
		if intent == order.IntentCancel {
			role, actor = order.RoleBuyer, "buyer-1"
		}
		_, err := h.apply(t, id, actor, role, intent)
		require.ErrorIs(t, err, errs.ErrIllegalTransition, intent)
	}
	assert.Equal(t, order.Rejected, h.load(t, id).Status)
}

func TestTransitionOrderCommandHandler_NotFound(t *testing.T) {
	h := newHarness(t)

	_, err := h.apply(t, kernel.NewUUID(), "seller-1", order.RoleSeller, order.IntentConfirm)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestTransitionOrderCommandHandler_PartialFulfillment(t *testing.T) {
	h := newHarness(t)
	id := h.placeOrder(t)

	cmd, err := commands.NewTransitionOrderCommand(id, "seller-1", order.RoleSeller, order.IntentPartiallyFulfill,
		[]order.LineItem{lineItem(t, "sku-1", 1, "0.00")})
	require.NoError(t, err)
	res, err := h.transition.Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, order.PartiallyFulfilled, res.Order.Status)
	require.Len(t, res.Order.Items, 1)
	assert.Equal(t, "10.00", res.Order.Items[0].UnitPrice().String())
	assert.Len(t, res.Order.Remainder, 2)
}

func TestTransitionOrderCommandHandler_ConcurrentDecisions(t *testing.T) {
	h := newHarness(t)
	id := h.placeOrder(t)

	intents := []order.Intent{
		order.IntentConfirm, order.IntentReject, order.IntentConfirm, order.IntentReject,
		order.IntentConfirm, order.IntentReject, order.IntentConfirm, order.IntentReject,
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	for _, intent := range intents {
		cmd, err := commands.NewTransitionOrderCommand(id, "seller-1", order.RoleSeller, intent, nil)
		require.NoError(t, err)

		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.transition.Handle(t.Context(), cmd)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			failures = append(failures, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	for _, err := range failures {
		assert.True(t, errs.KindOf(err) == errs.KindIllegalTransition || errs.KindOf(err) == errs.KindConflict, err)
	}

	stored := h.load(t, id)
	assert.Len(t, stored.History, 3)
	assert.Equal(t, int64(2), stored.Version)
}

func TestTransitionOrderCommandHandler_CancelRacesShip(t *testing.T) {
	h := newHarness(t)

	for round := range 20 {
		id, _ := h.assignedOrder(t)

		ship, err := commands.NewTransitionOrderCommand(id, "seller-1", order.RoleSeller, order.IntentShip, nil)
		require.NoError(t, err)
		cancel, err := commands.NewTransitionOrderCommand(id, "buyer-1", order.RoleBuyer, order.IntentCancel, nil)
		require.NoError(t, err)

		var (
			wg        sync.WaitGroup
			shipErr   error
			cancelErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, shipErr = h.transition.Handle(t.Context(), ship)
		}()
		go func() {
			defer wg.Done()
			_, cancelErr = h.transition.Handle(t.Context(), cancel)
		}()
		wg.Wait()

		require.True(t, (shipErr == nil) != (cancelErr == nil), "round %d: ship=%v cancel=%v", round, shipErr, cancelErr)
		stored, entry := h.load(t, id), h.entry(t, id)
		if cancelErr == nil {
			assert.True(t, isLostRace(shipErr), shipErr)
			assert.Equal(t, order.Cancelled, stored.Status)
			assert.Equal(t, logistics.Failed, entry.Status)
		} else {
			assert.True(t, isLostRace(cancelErr), cancelErr)
			assert.Equal(t, order.Shipped, stored.Status)
			assert.Equal(t, logistics.InTransit, entry.Status)
		}
		assert.Len(t, stored.History, 4)
	}
}

func TestTransitionOrderCommandHandler_KeepsLogisticsInStep(t *testing.T) {
	t.Run("should move a tracked entry on ship and deliver", func(t *testing.T) {
		h := newHarness(t)
		id, _ := h.assignedOrder(t)

		h.mustApply(t, id, "seller-1", order.RoleSeller, order.IntentShip)
		assert.Equal(t, logistics.InTransit, h.entry(t, id).Status)

		h.mustApply(t, id, order.SystemActorID, order.RoleSystem, order.IntentDeliver)
		assert.Equal(t, logistics.Delivered, h.entry(t, id).Status)
	})

	t.Run("should leave an entry without a courier alone", func(t *testing.T) {
		h := newHarness(t)
		id := h.deliveredOrder(t)

		entry := h.entry(t, id)
		assert.Equal(t, logistics.Processing, entry.Status)
		assert.Nil(t, entry.CourierID)
	})

	t.Run("should refuse a courier report the manual delivery already covered", func(t *testing.T) {
		h := newHarness(t)
		id, courierID := h.assignedOrder(t)
		_, err := h.courierStatus(t, id, courierID, logistics.InTransit)
		require.NoError(t, err)
		h.mustApply(t, id, order.SystemActorID, order.RoleSystem, order.IntentDeliver)

		_, err = h.courierStatus(t, id, courierID, logistics.Delivered)

		require.ErrorIs(t, err, errs.ErrIllegalTransition)
		assert.Equal(t, order.Delivered, h.load(t, id).Status)
		assert.Equal(t, logistics.Delivered, h.entry(t, id).Status)
	})
}

func isLostRace(err error) bool {
	kind := errs.KindOf(err)
	return kind == errs.KindIllegalTransition || kind == errs.KindConflict
}

func TestNewTransitionOrderCommand(t *testing.T) {
	t.Run("should reject refund intents", func(t *testing.T) {
		_, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), "buyer-1", order.RoleBuyer, order.IntentRequestRefund, nil)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	})

	t.Run("should require fulfilled items for partial fulfillment", func(t *testing.T) {
		_, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), "seller-1", order.RoleSeller, order.IntentPartiallyFulfill, nil)

		require.Error(t, err)
	})

	t.Run("should reject unknown roles and intents", func(t *testing.T) {
		_, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), "x", order.Role("pirate"), order.Intent("sail"), nil)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject a zero order id", func(t *testing.T) {
		_, err := commands.NewTransitionOrderCommand(kernel.UUID{}, "seller-1", order.RoleSeller, order.IntentConfirm, nil)

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("should keep the given values", func(t *testing.T) {
		id := kernel.NewUUID()
		cmd, err := commands.NewTransitionOrderCommand(id, "seller-1", order.RoleSeller, order.IntentConfirm, nil)

		require.NoError(t, err)
		assert.Equal(t, id, cmd.OrderID())
		assert.Equal(t, "seller-1", cmd.ActorID())
		assert.Equal(t, order.RoleSeller, cmd.Role())
		assert.Equal(t, order.IntentConfirm, cmd.Intent())
	})
}
