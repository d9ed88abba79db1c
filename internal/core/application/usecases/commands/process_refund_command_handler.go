package commands

import (
	"context"
	"time"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/refund"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// DefaultPaymentTimeout bounds a payment call when no timeout is configured.
const DefaultPaymentTimeout = 10 * time.Second

// SettlementLeaseMargin is added to the payment timeout to size a payout
// claim, so a claim outlives the call it protects.
const SettlementLeaseMargin = 30 * time.Second

// ProcessRefundCommandHandler settles an Approved refund case.
//
// A payout runs in three steps. The case is first claimed with a
// compare-and-swap, so at most one caller at a time reaches the payment
// collaborator; others get a ConflictError while the claim is live. The
// collaborator is then called outside of any transaction, bounded by the
// configured timeout. On success the case is completed and the order
// refunded together; on failure the claim is released and the case stays
// Approved so the call can be repeated. A Completed case is reported as
// success without calling the collaborator again.
type ProcessRefundCommandHandler struct {
	writer  orderWriter
	policy  ports.AccessPolicy
	payment ports.PaymentCollaborator
	timeout time.Duration
	now     func() time.Time
}

func NewProcessRefundCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	policy ports.AccessPolicy,
	payment ports.PaymentCollaborator,
	timeout time.Duration,
) ProcessRefundCommandHandler {
	if timeout <= 0 {
		timeout = DefaultPaymentTimeout
	}
	return ProcessRefundCommandHandler{
		writer:  newOrderWriter(uowFactory, publisher),
		policy:  policy,
		payment: payment,
		timeout: timeout,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (h *ProcessRefundCommandHandler) Handle(ctx context.Context, cmd ProcessRefundCommand) (RefundResult, error) {
	if err := cmd.Validate(); err != nil {
		return RefundResult{}, err
	}

	var claimed *refund.RefundCase
	current, changed, err := h.writer.write(ctx, cmd.OrderID(), func(ctx context.Context, uow UoW, o *order.Order) (bool, error) {
		if !h.policy.IsPermitted(cmd.Role(), o.Status(), order.IntentCompleteRefund) {
			return false, errs.NewForbiddenError(cmd.Role().String(), order.IntentCompleteRefund.String())
		}
		c, err := uow.RefundRepository().FindLatestByOrder(ctx, o.ID())
		if err != nil {
			return false, err
		}
		claimed = c
		if c.State() == refund.Completed {
			return false, nil
		}

		expected := c.Version()
		if err = c.ClaimSettlement(h.now(), h.timeout+SettlementLeaseMargin); err != nil {
			return false, err
		}
		if err = uow.RefundRepository().CompareAndSwap(ctx, expected, c); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return RefundResult{}, err
	}
	if !changed {
		return RefundResult{Order: current.Snapshot(), Case: claimed.Snapshot()}, nil
	}

	if err = h.pay(ctx, current, claimed); err != nil {
		h.release(ctx, cmd.OrderID())
		return RefundResult{}, err
	}

	var completed *refund.RefundCase
	o, changed, err := h.writer.write(ctx, cmd.OrderID(), func(ctx context.Context, uow UoW, o *order.Order) (bool, error) {
		c, err := uow.RefundRepository().FindLatestByOrder(ctx, o.ID())
		if err != nil {
			return false, err
		}
		completed = c

		expected := c.Version()
		now := h.now()
		changed, err := c.Complete(now)
		if err != nil || !changed {
			return false, err
		}
		if err = uow.RefundRepository().CompareAndSwap(ctx, expected, c); err != nil {
			return false, err
		}
		if err = o.Apply(order.IntentCompleteRefund, order.SystemActorID, now); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return RefundResult{}, err
	}

	return RefundResult{Order: o.Snapshot(), Case: completed.Snapshot(), Changed: changed}, nil
}

func (h *ProcessRefundCommandHandler) pay(ctx context.Context, o *order.Order, c *refund.RefundCase) error {
	payCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := h.payment.Refund(payCtx, o.ID(), c.Amount()); err != nil {
		return errs.WithCurrentStatus(errs.NewUpstreamError("payment", err), o.Status().String())
	}
	return nil
}

// release drops the claim after a failed payout. A release that cannot be
// written only delays the next attempt until the claim expires.
func (h *ProcessRefundCommandHandler) release(ctx context.Context, orderID kernel.UUID) {
	_, _, _ = h.writer.write(context.WithoutCancel(ctx), orderID, func(ctx context.Context, uow UoW, o *order.Order) (bool, error) {
		c, err := uow.RefundRepository().FindLatestByOrder(ctx, o.ID())
		if err != nil {
			return false, err
		}
		expected := c.Version()
		changed, err := c.ReleaseSettlement()
		if err != nil || !changed {
			return false, err
		}
		return true, uow.RefundRepository().CompareAndSwap(ctx, expected, c)
	})
}
