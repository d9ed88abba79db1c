package services

import (
	"slices"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
)

// RoleTablePolicy permits an intent when the actor's role is listed for it.
// Status is not consulted; the order state machine rejects intents that are
// illegal from the current status.
//
// Example usage:
//
//	policy := services.NewRoleTablePolicy()
//	policy.IsPermitted(order.RoleSeller, order.PendingSellerConfirmation, order.IntentConfirm) // true
//	policy.IsPermitted(order.RoleBuyer, order.PendingSellerConfirmation, order.IntentConfirm)  // false
type RoleTablePolicy struct {
	roles map[order.Intent][]order.Role
}

// NewRoleTablePolicy returns the default role table.
func NewRoleTablePolicy() RoleTablePolicy {
	return RoleTablePolicy{
		roles: map[order.Intent][]order.Role{
			order.IntentAwaitConfirmation: {order.RoleSystem},
			order.IntentConfirm:           {order.RoleSeller},
			order.IntentReject:            {order.RoleSeller},
			order.IntentPartiallyFulfill:  {order.RoleSeller},
			order.IntentShip:              {order.RoleSeller, order.RoleCourier},
			order.IntentDeliver:           {order.RoleCourier, order.RoleSystem},
			order.IntentCancel:            {order.RoleBuyer, order.RoleAdmin},
			order.IntentRequestRefund:     {order.RoleBuyer},
			order.IntentCompleteRefund:    {order.RoleAdmin, order.RoleSeller, order.RoleSystem},
			order.IntentRejectRefund:      {order.RoleAdmin, order.RoleSeller},
		},
	}
}

// IsPermitted reports whether role may issue intent.
func (p RoleTablePolicy) IsPermitted(role order.Role, _ order.Status, intent order.Intent) bool {
	return slices.Contains(p.roles[intent], role)
}
