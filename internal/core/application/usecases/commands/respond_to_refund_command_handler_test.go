package commands_test

import (
	"errors"
	"testing"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/application/usecases/commands"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/refund"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRespondToRefundCommandHandler_Reject(t *testing.T) {
	t.Run("should revert a delivered order", func(t *testing.T) {
		h := newHarness(t)
		id := h.deliveredOrder(t)
		_, err := h.requestRefund(t, id)
		require.NoError(t, err)

		res, err := h.respondToRefund(t, id, refund.DecisionReject)

		require.NoError(t, err)
		assert.Equal(t, refund.Rejected, res.Case.State)
		assert.Equal(t, order.Delivered, res.Order.Status)

		stored := h.load(t, id)
		assert.Equal(t, []order.Status{
			order.Placed, order.PendingSellerConfirmation, order.Confirmed, order.Shipped,
			order.Delivered, order.RefundRequested, order.Delivered,
		}, historyOf(stored))
		assert.Equal(t, "admin-1", stored.History[len(stored.History)-1].ActorID)
	})

	t.Run("should revert a confirmed order", func(t *testing.T) {
		h := newHarness(t)
		id := h.confirmedOrder(t)
		_, err := h.requestRefund(t, id)
		require.NoError(t, err)

		res, err := h.respondToRefund(t, id, refund.DecisionReject)

		require.NoError(t, err)
		assert.Equal(t, order.Confirmed, res.Order.Status)
	})

	t.Run("should allow a new request after rejection", func(t *testing.T) {
		h := newHarness(t)
		id := h.deliveredOrder(t)
		_, err := h.requestRefund(t, id)
		require.NoError(t, err)
		_, err = h.respondToRefund(t, id, refund.DecisionReject)
		require.NoError(t, err)

		res, err := h.requestRefund(t, id)

		require.NoError(t, err)
		assert.Equal(t, order.RefundRequested, res.Order.Status)
	})
}

func TestRespondToRefundCommandHandler_Approve(t *testing.T) {
	t.Run("should approve and settle", func(t *testing.T) {
		h := newHarness(t)
		id := h.deliveredOrder(t)
		_, err := h.requestRefund(t, id)
		require.NoError(t, err)
		h.payment.On("Refund", mock.Anything, id, amountOf("25.50")).Return(nil).Once()

		res, err := h.respondToRefund(t, id, refund.DecisionApprove)

		require.NoError(t, err)
		assert.Equal(t, refund.Completed, res.Case.State)
		assert.Equal(t, order.Refunded, res.Order.Status)
		require.NotNil(t, res.Case.Resolution)
		assert.Equal(t, "admin-1", res.Case.Resolution.ApproverID)
		assert.Equal(t, order.SystemActorID, res.Order.History[len(res.Order.History)-1].ActorID)
	})

	t.Run("should keep the approval when the payment fails", func(t *testing.T) {
		h := newHarness(t)
		id := h.deliveredOrder(t)
		_, err := h.requestRefund(t, id)
		require.NoError(t, err)
		h.payment.On("Refund", mock.Anything, id, mock.Anything).Return(errors.New("gateway timeout")).Once()

		_, err = h.respondToRefund(t, id, refund.DecisionApprove)

		require.ErrorIs(t, err, errs.ErrUpstreamFailure)
		assert.True(t, errs.IsRetryable(err))
		assert.Equal(t, order.RefundRequested, h.load(t, id).Status)

		_, err = h.respondToRefund(t, id, refund.DecisionApprove)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestRespondToRefundCommandHandler_Errors(t *testing.T) {
	t.Run("should report a missing open case", func(t *testing.T) {
		h := newHarness(t)
		id := h.deliveredOrder(t)

		_, err := h.respondToRefund(t, id, refund.DecisionReject)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		status, ok := errs.CurrentStatus(err)
		require.True(t, ok)
		assert.Equal(t, order.Delivered.String(), status)
	})

	t.Run("should refuse buyers", func(t *testing.T) {
		h := newHarness(t)
		id := h.deliveredOrder(t)
		_, err := h.requestRefund(t, id)
		require.NoError(t, err)

		cmd, err := commands.NewRespondToRefundCommand(id, "buyer-1", order.RoleBuyer, refund.DecisionReject, "")
		require.NoError(t, err)
		_, err = h.respond.Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("should refuse another seller", func(t *testing.T) {
		h := newHarness(t)
		id := h.deliveredOrder(t)
		_, err := h.requestRefund(t, id)
		require.NoError(t, err)

		cmd, err := commands.NewRespondToRefundCommand(id, "seller-2", order.RoleSeller, refund.DecisionReject, "")
		require.NoError(t, err)
		_, err = h.respond.Handle(t.Context(), cmd)

		require.ErrorIs(t, err, commands.ErrNotOrderSeller)
	})
}

func TestNewRespondToRefundCommand(t *testing.T) {
	_, err := commands.NewRespondToRefundCommand(kernel.NewUUID(), "admin-1", order.RoleAdmin, refund.Decision("maybe"), "")

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
