package commands_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/application/usecases/commands"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/refund"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/services"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// approvedRefund leaves the order RefundRequested with an Approved case, as
// after a failed payment.
func (h *harness) approvedRefund(t *testing.T) kernel.UUID {
	t.Helper()
	id := h.deliveredOrder(t)
	_, err := h.requestRefund(t, id)
	require.NoError(t, err)

	h.payment.On("Refund", mock.Anything, id, mock.Anything).Return(errors.New("declined")).Once()
	_, err = h.respondToRefund(t, id, refund.DecisionApprove)
	require.ErrorIs(t, err, errs.ErrUpstreamFailure)
	return id
}

func (h *harness) processRefund(t *testing.T, id kernel.UUID) (commands.RefundResult, error) {
	t.Helper()
	cmd, err := commands.NewProcessRefundCommand(id, order.RoleSystem)
	require.NoError(t, err)
	return h.process.Handle(t.Context(), cmd)
}

func TestProcessRefundCommandHandler_Handle(t *testing.T) {
	t.Run("should settle an approved case on retry", func(t *testing.T) {
		h := newHarness(t)
		id := h.approvedRefund(t)
		h.payment.On("Refund", mock.Anything, id, amountOf("25.50")).Return(nil).Once()

		res, err := h.processRefund(t, id)

		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.Equal(t, refund.Completed, res.Case.State)
		require.NotNil(t, res.Case.CompletedAt)
		assert.Equal(t, order.Refunded, h.load(t, id).Status)
	})

	t.Run("should be idempotent once completed", func(t *testing.T) {
		h := newHarness(t)
		id := h.approvedRefund(t)
		h.payment.On("Refund", mock.Anything, id, mock.Anything).Return(nil).Once()
		_, err := h.processRefund(t, id)
		require.NoError(t, err)
		history := h.load(t, id).History

		res, err := h.processRefund(t, id)

		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.Equal(t, refund.Completed, res.Case.State)
		assert.Equal(t, history, h.load(t, id).History)
		h.payment.AssertNumberOfCalls(t, "Refund", 2)
	})

	t.Run("should refuse a case that was never approved", func(t *testing.T) {
		h := newHarness(t)
		id := h.deliveredOrder(t)
		_, err := h.requestRefund(t, id)
		require.NoError(t, err)

		_, err = h.processRefund(t, id)

		require.ErrorIs(t, err, errs.ErrIllegalTransition)
	})

	t.Run("should report orders without a case", func(t *testing.T) {
		h := newHarness(t)
		id := h.deliveredOrder(t)

		_, err := h.processRefund(t, id)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should refuse buyers", func(t *testing.T) {
		h := newHarness(t)
		id := h.approvedRefund(t)

		cmd, err := commands.NewProcessRefundCommand(id, order.RoleBuyer)
		require.NoError(t, err)
		_, err = h.process.Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrForbidden)
	})
}

func TestProcessRefundCommandHandler_Timeout(t *testing.T) {
	h := newHarness(t)
	id := h.approvedRefund(t)

	slow := new(MockPayment)
	slow.On("Refund", mock.Anything, id, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(context.DeadlineExceeded).Once()

	handler := commands.NewProcessRefundCommandHandler(h.uows, h.publisher, services.NewRoleTablePolicy(), slow, 20*time.Millisecond)
	cmd, err := commands.NewProcessRefundCommand(id, order.RoleAdmin)
	require.NoError(t, err)

	_, err = handler.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrUpstreamFailure)
	assert.Equal(t, order.RefundRequested, h.load(t, id).Status)
	slow.AssertExpectations(t)
}

// gatedPayment counts refunds and holds each call until release is closed.
type gatedPayment struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func newGatedPayment() *gatedPayment {
	return &gatedPayment{entered: make(chan struct{}, 16), release: make(chan struct{})}
}

func (p *gatedPayment) Refund(ctx context.Context, _ kernel.UUID, _ kernel.Money) error {
	p.calls.Add(1)
	p.entered <- struct{}{}
	select {
	case <-p.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestProcessRefundCommandHandler_ConcurrentCallersPayOnce(t *testing.T) {
	t.Run("should refuse a second caller while the payout is running", func(t *testing.T) {
		h := newHarness(t)
		id := h.approvedRefund(t)
		payment := newGatedPayment()
		handler := commands.NewProcessRefundCommandHandler(h.uows, h.publisher, services.NewRoleTablePolicy(), payment, time.Second)
		cmd, err := commands.NewProcessRefundCommand(id, order.RoleSystem)
		require.NoError(t, err)

		first := make(chan error, 1)
		go func() {
			_, err := handler.Handle(context.Background(), cmd)
			first <- err
		}()
		<-payment.entered

		_, err = handler.Handle(t.Context(), cmd)
		require.ErrorIs(t, err, errs.ErrSettlementInProgress)
		assert.True(t, errs.IsRetryable(err))

		close(payment.release)
		require.NoError(t, <-first)

		res, err := handler.Handle(t.Context(), cmd)
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.Equal(t, refund.Completed, res.Case.State)
		assert.Equal(t, int32(1), payment.calls.Load())
		assert.Equal(t, order.Refunded, h.load(t, id).Status)
	})

	t.Run("should call the gateway once under a burst of callers", func(t *testing.T) {
		h := newHarness(t)
		id := h.approvedRefund(t)
		payment := newGatedPayment()
		close(payment.release)
		handler := commands.NewProcessRefundCommandHandler(h.uows, h.publisher, services.NewRoleTablePolicy(), payment, time.Second)
		cmd, err := commands.NewProcessRefundCommand(id, order.RoleSystem)
		require.NoError(t, err)

		const callers = 8
		var wg sync.WaitGroup
		results := make(chan error, callers)
		for range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := handler.Handle(context.Background(), cmd)
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		for err := range results {
			if err != nil {
				assert.ErrorIs(t, err, errs.ErrConflict)
			}
		}
		assert.Equal(t, int32(1), payment.calls.Load())
		assert.Equal(t, order.Refunded, h.load(t, id).Status)
		assert.Equal(t, 1, countStatus(h.load(t, id), order.Refunded))
	})
}

func countStatus(s order.Snapshot, status order.Status) int {
	n := 0
	for _, entry := range s.History {
		if entry.Status == status {
			n++
		}
	}
	return n
}
