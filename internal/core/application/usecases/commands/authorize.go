package commands

import (
	"errors"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

var (
	ErrNotOrderBuyer      = errors.New("actor is not the buyer of this order")
	ErrNotOrderSeller     = errors.New("actor is not the seller of this order")
	ErrNotAssignedCourier = errors.New("actor is not the courier assigned to this order")
)

// authorize asks the policy about role and intent, then checks that buyers
// and sellers act on their own orders. Couriers, admins and the system are
// not tied to a particular order.
func authorize(policy ports.AccessPolicy, o *order.Order, actorID string, role order.Role, intent order.Intent) error {
	if !policy.IsPermitted(role, o.Status(), intent) {
		return errs.NewForbiddenError(role.String(), intent.String())
	}

	switch role {
	case order.RoleBuyer:
		if !o.IsBuyer(actorID) {
			return errs.NewForbiddenErrorWithCause(role.String(), intent.String(), ErrNotOrderBuyer)
		}
	case order.RoleSeller:
		if !o.IsSeller(actorID) {
			return errs.NewForbiddenErrorWithCause(role.String(), intent.String(), ErrNotOrderSeller)
		}
	}
	return nil
}

// authorizeReport checks that a courier reports only on an entry assigned
// to them. Admins and the system may report on any entry.
func authorizeReport(e *logistics.Entry, actorID string, role order.Role) error {
	if role != order.RoleCourier {
		return nil
	}
	if id := e.CourierID(); id != nil && id.String() == actorID {
		return nil
	}
	return errs.NewForbiddenErrorWithCause(role.String(), "report courier status", ErrNotAssignedCourier)
}

func validateActor(actorID string, role order.Role) error {
	if actorID == "" {
		return order.ErrActorIsRequired
	}
	_, err := order.ParseRole(role.String())
	return err
}
