package order

import (
	"fmt"

	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// Intent is an action an actor asks the lifecycle to perform.
type Intent string

const (
	IntentAwaitConfirmation Intent = "await-confirmation"
	IntentConfirm           Intent = "confirm"
	IntentReject            Intent = "reject"
	IntentPartiallyFulfill  Intent = "partially-fulfill"
	IntentShip              Intent = "ship"
	IntentDeliver           Intent = "deliver"
	IntentCancel            Intent = "cancel"
	IntentRequestRefund     Intent = "request-refund"
	IntentCompleteRefund    Intent = "complete-refund"
	IntentRejectRefund      Intent = "reject-refund"
)

// AllIntents lists every intent the state machine knows.
func AllIntents() []Intent {
	return []Intent{
		IntentAwaitConfirmation, IntentConfirm, IntentReject, IntentPartiallyFulfill,
		IntentShip, IntentDeliver, IntentCancel, IntentRequestRefund,
		IntentCompleteRefund, IntentRejectRefund,
	}
}

func (i Intent) String() string {
	return string(i)
}

func (i Intent) Validate() error {
	for _, known := range AllIntents() {
		if i == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("intent", fmt.Errorf("%q is not a known intent", string(i)))
}

// IsRefundIntent reports whether the intent belongs to the refund workflow.
func (i Intent) IsRefundIntent() bool {
	return i == IntentRequestRefund || i == IntentCompleteRefund || i == IntentRejectRefund
}

// Role is the kind of actor issuing an intent.
type Role string

const (
	RoleBuyer   Role = "buyer"
	RoleSeller  Role = "seller"
	RoleCourier Role = "courier"
	RoleAdmin   Role = "admin"
	RoleSystem  Role = "system"
)

// SystemActorID is recorded in history for transitions no human triggered.
const SystemActorID = "system"

func (r Role) String() string {
	return string(r)
}

// ParseRole validates a role name coming from the transport layer.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleBuyer, RoleSeller, RoleCourier, RoleAdmin, RoleSystem:
		return r, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
	}
}
