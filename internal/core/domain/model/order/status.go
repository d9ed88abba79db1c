package order

import (
	"fmt"

	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Placed ──> PendingSellerConfirmation ──> Confirmed ──> Shipped ──> Delivered
//	                  │        │                 │            ▲
//	                  │        └──> PartiallyFulfilled ───────┘
//	                  └──> Rejected
//
//	Placed | PendingSellerConfirmation | Confirmed ──> Cancelled
//	Confirmed | Shipped | Delivered ──> RefundRequested ──> Refunded
//	RefundRequested ──(rejected)──> status before the request
//
// Confirmed may also move to PartiallyFulfilled. Rejected, Cancelled and
// Refunded are terminal.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota
	Placed
	PendingSellerConfirmation
	Confirmed
	PartiallyFulfilled
	Rejected
	Shipped
	Delivered
	Cancelled
	RefundRequested
	Refunded
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:                   "Unknown",
		Placed:                    "Placed",
		PendingSellerConfirmation: "PendingSellerConfirmation",
		Confirmed:                 "Confirmed",
		PartiallyFulfilled:        "PartiallyFulfilled",
		Rejected:                  "Rejected",
		Shipped:                   "Shipped",
		Delivered:                 "Delivered",
		Cancelled:                 "Cancelled",
		RefundRequested:           "RefundRequested",
		Refunded:                  "Refunded",
	}
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		Placed, PendingSellerConfirmation, Confirmed, PartiallyFulfilled, Rejected,
		Shipped, Delivered, Cancelled, RefundRequested, Refunded,
	}
}

// ParseStatus converts the string form back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if status != Unknown && str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that s is one of the lifecycle states.
func (s Status) Validate() error {
	if s <= Unknown || s > Refunded {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no intent can leave s.
func (s Status) IsTerminal() bool {
	return s == Rejected || s == Cancelled || s == Refunded
}

// IsPreShipment reports whether the goods have not left the seller yet.
func (s Status) IsPreShipment() bool {
	return s == Placed || s == PendingSellerConfirmation || s == Confirmed
}

// CanRequestRefund reports whether a buyer may open a refund case from s.
func (s Status) CanRequestRefund() bool {
	return s == Confirmed || s == Shipped || s == Delivered
}

// CanAssignCourier reports whether logistics may attach a courier in s.
func (s Status) CanAssignCourier() bool {
	return s == Confirmed || s == PartiallyFulfilled
}

// Next returns the target status of intent from s.
//
// IntentRejectRefund is accepted from RefundRequested but its target depends
// on the order history, so Next returns RefundRequested for it and
// Order.Apply resolves the real target.
func (s Status) Next(intent Intent) (Status, error) {
	if err := intent.Validate(); err != nil {
		return Unknown, err
	}
	t := transitionTable()[intent]
	for _, from := range t.from {
		if from == s {
			if intent == IntentRejectRefund {
				return RefundRequested, nil
			}
			return t.to, nil
		}
	}
	return Unknown, errs.NewIllegalTransitionError(s.String(), intent.String())
}

type transition struct {
	from []Status
	to   Status
}

func transitionTable() map[Intent]transition {
	return map[Intent]transition{
		IntentAwaitConfirmation: {from: []Status{Placed}, to: PendingSellerConfirmation},
		IntentConfirm:           {from: []Status{PendingSellerConfirmation}, to: Confirmed},
		IntentReject:            {from: []Status{PendingSellerConfirmation}, to: Rejected},
		IntentPartiallyFulfill:  {from: []Status{PendingSellerConfirmation, Confirmed}, to: PartiallyFulfilled},
		IntentShip:              {from: []Status{Confirmed, PartiallyFulfilled}, to: Shipped},
		IntentDeliver:           {from: []Status{Shipped}, to: Delivered},
		IntentCancel:            {from: []Status{Placed, PendingSellerConfirmation, Confirmed}, to: Cancelled},
		IntentRequestRefund:     {from: []Status{Confirmed, Shipped, Delivered}, to: RefundRequested},
		IntentCompleteRefund:    {from: []Status{RefundRequested}, to: Refunded},
		IntentRejectRefund:      {from: []Status{RefundRequested}},
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
