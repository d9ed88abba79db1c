package commands

import (
	"errors"
	"slices"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/refund"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/guard"
)

var ErrRequestRefundCommandIsNotConstructed = errors.New(
	"RequestRefundCommand must be created via NewRequestRefundCommand constructor",
)

// RequestRefundCommand is a buyer asking for their money back, with up to
// refund.MaxEvidence attachments.
type RequestRefundCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	buyerID     string
	reason      string
	attachments []ports.Attachment

	guard guard.ConstructorGuard
}

func NewRequestRefundCommand(
	orderID kernel.UUID,
	buyerID, reason string,
	attachments []ports.Attachment,
) (RequestRefundCommand, error) {
	var errList []error
	if err := orderID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if buyerID == "" {
		errList = append(errList, order.ErrActorIsRequired)
	}
	if reason == "" {
		errList = append(errList, refund.ErrReasonIsRequired)
	}
	if err := refund.ValidateEvidenceCount(len(attachments)); err != nil {
		errList = append(errList, err)
	}
	if err := errors.Join(errList...); err != nil {
		return RequestRefundCommand{}, err
	}

	return RequestRefundCommand{
		orderID:     orderID,
		buyerID:     buyerID,
		reason:      reason,
		attachments: slices.Clone(attachments),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c RequestRefundCommand) Validate() error {
	return c.guard.Validate(ErrRequestRefundCommandIsNotConstructed)
}

func (c RequestRefundCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RequestRefundCommand) BuyerID() string {
	return c.buyerID
}

func (c RequestRefundCommand) Reason() string {
	return c.reason
}

func (c RequestRefundCommand) Attachments() []ports.Attachment {
	return slices.Clone(c.attachments)
}
