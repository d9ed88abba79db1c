package commands

import (
	"context"
	"time"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/refund"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
)

// RespondToRefundCommandHandler resolves an open refund case.
//
// Reject closes the case and returns the order to its status before the
// request. Approve records the approval, commits it, then settles the
// refund. If the payment fails the approval stands and the returned
// UpstreamError tells the caller to retry with ProcessRefund.
type RespondToRefundCommandHandler struct {
	writer        orderWriter
	policy        ports.AccessPolicy
	processRefund ProcessRefundCommandHandler
}

func NewRespondToRefundCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	policy ports.AccessPolicy,
	processRefund ProcessRefundCommandHandler,
) RespondToRefundCommandHandler {
	return RespondToRefundCommandHandler{
		writer:        newOrderWriter(uowFactory, publisher),
		policy:        policy,
		processRefund: processRefund,
	}
}

func (h *RespondToRefundCommandHandler) Handle(ctx context.Context, cmd RespondToRefundCommand) (RefundResult, error) {
	if err := cmd.Validate(); err != nil {
		return RefundResult{}, err
	}

	intent := order.IntentRejectRefund
	if cmd.Decision() == refund.DecisionApprove {
		intent = order.IntentCompleteRefund
	}

	var decided *refund.RefundCase
	o, changed, err := h.writer.write(ctx, cmd.OrderID(), func(ctx context.Context, uow UoW, o *order.Order) (bool, error) {
		if err := authorize(h.policy, o, cmd.ResponderID(), cmd.Role(), intent); err != nil {
			return false, err
		}

		c, err := uow.RefundRepository().FindOpen(ctx, o.ID())
		if err != nil {
			return false, err
		}

		expected := c.Version()
		now := time.Now().UTC()
		if cmd.Decision() == refund.DecisionApprove {
			_, err = c.Approve(cmd.ResponderID(), cmd.Note(), now)
		} else {
			_, err = c.Reject(cmd.ResponderID(), cmd.Note(), now)
		}
		if err != nil {
			return false, err
		}
		if err = uow.RefundRepository().CompareAndSwap(ctx, expected, c); err != nil {
			return false, err
		}

		if cmd.Decision() == refund.DecisionReject {
			if err = o.Apply(order.IntentRejectRefund, cmd.ResponderID(), now); err != nil {
				return false, err
			}
		}

		decided = c
		return true, nil
	})
	if err != nil {
		return RefundResult{}, err
	}

	if cmd.Decision() == refund.DecisionReject {
		return RefundResult{Order: o.Snapshot(), Case: decided.Snapshot(), Changed: changed}, nil
	}

	process, err := NewProcessRefundCommand(cmd.OrderID(), order.RoleSystem)
	if err != nil {
		return RefundResult{}, err
	}
	return h.processRefund.Handle(ctx, process)
}
