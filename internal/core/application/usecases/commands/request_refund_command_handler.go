package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/refund"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// RequestRefundCommandHandler opens a refund case and moves the order to
// RefundRequested in one transaction.
//
// The request is checked before evidence is uploaded, so a request that is
// bound to fail never reaches the evidence store. It is checked again inside
// the write, against the state it actually commits on.
type RequestRefundCommandHandler struct {
	writer   orderWriter
	policy   ports.AccessPolicy
	evidence ports.EvidenceStore
}

func NewRequestRefundCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	policy ports.AccessPolicy,
	evidence ports.EvidenceStore,
) RequestRefundCommandHandler {
	return RequestRefundCommandHandler{
		writer:   newOrderWriter(uowFactory, publisher),
		policy:   policy,
		evidence: evidence,
	}
}

func (h *RequestRefundCommandHandler) Handle(ctx context.Context, cmd RequestRefundCommand) (RefundResult, error) {
	if err := cmd.Validate(); err != nil {
		return RefundResult{}, err
	}

	current, err := h.writer.read(ctx, cmd.OrderID(), func(ctx context.Context, uow UoW, o *order.Order) error {
		return h.check(ctx, uow, o, cmd.BuyerID())
	})
	if err != nil {
		return RefundResult{}, err
	}

	var references []string
	if attachments := cmd.Attachments(); len(attachments) > 0 {
		references, err = h.evidence.Store(ctx, attachments)
		if err != nil {
			return RefundResult{}, errs.WithCurrentStatus(
				errs.NewUpstreamError("evidence store", err),
				current.Status().String(),
			)
		}
	}

	var opened *refund.RefundCase
	o, _, err := h.writer.write(ctx, cmd.OrderID(), func(ctx context.Context, uow UoW, o *order.Order) (bool, error) {
		if err := h.check(ctx, uow, o, cmd.BuyerID()); err != nil {
			return false, err
		}

		now := time.Now().UTC()
		c, err := refund.NewRefundCase(kernel.NewUUID(), o.ID(), cmd.BuyerID(), cmd.Reason(), references, o.Total(), now)
		if err != nil {
			return false, err
		}
		if err = o.Apply(order.IntentRequestRefund, cmd.BuyerID(), now); err != nil {
			return false, err
		}
		if err = uow.RefundRepository().Add(ctx, c); err != nil {
			return false, err
		}

		opened = c
		return true, nil
	})
	if err != nil {
		return RefundResult{}, err
	}

	return RefundResult{Order: o.Snapshot(), Case: opened.Snapshot(), Changed: true}, nil
}

// check enforces, in order: the actor is the order's buyer, no case is
// open, and the order status allows a refund.
func (h *RequestRefundCommandHandler) check(ctx context.Context, uow UoW, o *order.Order, buyerID string) error {
	if err := authorize(h.policy, o, buyerID, order.RoleBuyer, order.IntentRequestRefund); err != nil {
		return err
	}

	_, err := uow.RefundRepository().FindOpen(ctx, o.ID())
	switch {
	case err == nil:
		return errs.NewConflictErrorWithCause("refund case for order", o.ID(), errs.ErrOpenRefundExists)
	case !errors.Is(err, errs.ErrObjectNotFound):
		return err
	}

	if !o.Status().CanRequestRefund() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("a refund cannot be requested while the order is %s", o.Status()),
		)
	}
	return nil
}
