package queries

import (
	"errors"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/guard"
)

var ErrGetRefundEvidenceQueryIsNotConstructed = errors.New(
	"GetRefundEvidenceQuery must be created via NewGetRefundEvidenceQuery constructor",
)

// GetRefundEvidenceQuery fetches one attachment of the latest refund case
// of an order for someone reviewing it.
type GetRefundEvidenceQuery struct {
	orderID   kernel.UUID
	reference string
	actorID   string
	role      order.Role

	guard guard.ConstructorGuard
}

func NewGetRefundEvidenceQuery(
	orderID kernel.UUID,
	reference, actorID string,
	role order.Role,
) (GetRefundEvidenceQuery, error) {
	var refErr, actorErr error
	if reference == "" {
		refErr = errs.NewValueIsRequiredError("ref")
	}
	if actorID == "" {
		actorErr = order.ErrActorIsRequired
	}
	_, roleErr := order.ParseRole(role.String())
	if err := errors.Join(orderID.Validate(), refErr, actorErr, roleErr); err != nil {
		return GetRefundEvidenceQuery{}, err
	}

	return GetRefundEvidenceQuery{
		orderID:   orderID,
		reference: reference,
		actorID:   actorID,
		role:      role,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q GetRefundEvidenceQuery) Validate() error {
	return q.guard.Validate(ErrGetRefundEvidenceQueryIsNotConstructed)
}

func (q GetRefundEvidenceQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetRefundEvidenceQuery) Reference() string {
	return q.reference
}

func (q GetRefundEvidenceQuery) ActorID() string {
	return q.actorID
}

func (q GetRefundEvidenceQuery) Role() order.Role {
	return q.role
}
