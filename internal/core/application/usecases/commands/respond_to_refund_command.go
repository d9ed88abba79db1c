package commands

import (
	"errors"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/refund"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/guard"
)

var ErrRespondToRefundCommandIsNotConstructed = errors.New(
	"RespondToRefundCommand must be created via NewRespondToRefundCommand constructor",
)

// RespondToRefundCommand approves or rejects the open refund case of an order.
type RespondToRefundCommand struct {
	orderID     kernel.UUID
	responderID string
	role        order.Role
	decision    refund.Decision
	note        string

	guard guard.ConstructorGuard
}

func NewRespondToRefundCommand(
	orderID kernel.UUID,
	responderID string,
	role order.Role,
	decision refund.Decision,
	note string,
) (RespondToRefundCommand, error) {
	var errList []error
	if err := orderID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if responderID == "" {
		errList = append(errList, refund.ErrResponderIsRequired)
	}
	parsedRole, err := order.ParseRole(role.String())
	if err != nil {
		errList = append(errList, err)
	}
	parsedDecision, err := refund.ParseDecision(string(decision))
	if err != nil {
		errList = append(errList, err)
	}
	if err = errors.Join(errList...); err != nil {
		return RespondToRefundCommand{}, err
	}

	return RespondToRefundCommand{
		orderID:     orderID,
		responderID: responderID,
		role:        parsedRole,
		decision:    parsedDecision,
		note:        note,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c RespondToRefundCommand) Validate() error {
	return c.guard.Validate(ErrRespondToRefundCommandIsNotConstructed)
}

func (c RespondToRefundCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RespondToRefundCommand) ResponderID() string {
	return c.responderID
}

func (c RespondToRefundCommand) Role() order.Role {
	return c.role
}

func (c RespondToRefundCommand) Decision() refund.Decision {
	return c.decision
}

func (c RespondToRefundCommand) Note() string {
	return c.note
}
