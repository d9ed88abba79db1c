package order

import (
	"errors"
	"slices"
	"time"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/guard"
)

var (
	// ErrBuyerIsRequired is returned when an order is placed without a buyer.
	ErrBuyerIsRequired = errs.NewValueIsRequiredError("buyerId")
	// ErrSellerIsRequired is returned when an order is placed without a seller.
	ErrSellerIsRequired = errs.NewValueIsRequiredError("sellerId")
	// ErrActorIsRequired is returned when a transition carries no actor id.
	ErrActorIsRequired = errs.NewValueIsRequiredError("actorId")
	// ErrOrderIsNotConstructed is returned when using an Order built as a struct literal.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
	// ErrNoPreRefundStatus is returned when the history holds nothing to revert a refund to.
	ErrNoPreRefundStatus = errors.New("order history has no status before the refund request")
)

// Order is the aggregate root of the commerce lifecycle.
//
// It owns the line items, the current status, the append-only history and
// the version used for compare-and-swap writes. Every method that changes
// the status appends one history entry, bumps the version by one and
// records a StatusChanged event.
//
// Business rules:
//   - Items are fixed at placement, except that partial fulfillment narrows
//     them and keeps the unfulfilled remainder for audit
//   - The status only moves along the transition table (see Status)
//   - History is never rewritten, only appended to
//
// Example usage:
//
//	item, _ := order.NewLineItem("sku-1", 2, kernel.MustMoney("9.99"))
//	o, err := order.NewOrder(kernel.NewUUID(), "buyer-1", "seller-1", []order.LineItem{item}, time.Now())
//	if err != nil {
//	    return err
//	}
//	// o.Status() == order.PendingSellerConfirmation
type Order struct {
	id        kernel.UUID
	buyerID   string
	sellerID  string
	items     []LineItem
	remainder []LineItem
	status    Status
	history   []HistoryEntry
	version   int64
	events    []kernel.DomainEvent
	guard     guard.ConstructorGuard
}

// NewOrder places a new order. The order is recorded as Placed and moved to
// PendingSellerConfirmation by the system straight away, so the returned
// aggregate has two history entries and version 1.
func NewOrder(id kernel.UUID, buyerID, sellerID string, items []LineItem, now time.Time) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setBuyerID(buyerID),
		o.setSellerID(sellerID),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	o.record(Placed, "", buyerID, now)
	if err := o.Apply(IntentAwaitConfirmation, SystemActorID, now); err != nil {
		return nil, err
	}

	return o, nil
}

// ID returns the order identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) BuyerID() string {
	return o.buyerID
}

func (o *Order) SellerID() string {
	return o.sellerID
}

// Items returns a copy of the line items the order will be fulfilled with.
func (o *Order) Items() []LineItem {
	return slices.Clone(o.items)
}

// Remainder returns the items dropped by partial fulfillment, if any.
func (o *Order) Remainder() []LineItem {
	return slices.Clone(o.remainder)
}

func (o *Order) Status() Status {
	return o.status
}

// History returns a copy of the status history, oldest first.
func (o *Order) History() []HistoryEntry {
	return slices.Clone(o.history)
}

// PlacedAt is the time of the first history entry.
func (o *Order) PlacedAt() time.Time {
	if len(o.history) == 0 {
		return time.Time{}
	}
	return o.history[0].At
}

// Version is the number of transitions applied since placement. Storage
// compares it on write to detect concurrent modification.
func (o *Order) Version() int64 {
	return o.version
}

// Total is the sum of all line item subtotals.
func (o *Order) Total() kernel.Money {
	total := kernel.Zero()
	for _, li := range o.items {
		total = total.Add(li.Subtotal())
	}
	return total
}

// IsBuyer reports whether actorID placed the order.
func (o *Order) IsBuyer(actorID string) bool {
	return actorID != "" && actorID == o.buyerID
}

// IsSeller reports whether actorID sells the order.
func (o *Order) IsSeller(actorID string) bool {
	return actorID != "" && actorID == o.sellerID
}

// Apply performs intent on behalf of actorID.
//
// It returns IllegalTransitionError when the intent is not allowed from the
// current status. IntentRejectRefund returns the order to the status it had
// before the refund was requested. IntentPartiallyFulfill must go through
// FulfillPartially because it needs the fulfilled items.
func (o *Order) Apply(intent Intent, actorID string, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if actorID == "" {
		return ErrActorIsRequired
	}
	if intent == IntentPartiallyFulfill {
		return errs.NewValueIsRequiredErrorWithCause("fulfilledItems", errors.New("use FulfillPartially"))
	}

	next, err := o.status.Next(intent)
	if err != nil {
		return err
	}
	if intent == IntentRejectRefund {
		if next, err = o.PreRefundStatus(); err != nil {
			return errs.NewIllegalTransitionErrorWithCause(o.status.String(), intent.String(), err)
		}
	}

	o.record(next, intent, actorID, at)
	return nil
}

// FulfillPartially narrows the order to fulfilled and stores the rest as
// the remainder. Fulfilled must be a non-empty subset of the ordered items
// by quantity and strictly smaller than the whole order. Unit prices are
// taken from the order, not from fulfilled.
func (o *Order) FulfillPartially(actorID string, fulfilled []LineItem, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if actorID == "" {
		return ErrActorIsRequired
	}

	next, err := o.status.Next(IntentPartiallyFulfill)
	if err != nil {
		return err
	}

	kept, remainder, err := splitFulfillment(o.items, fulfilled)
	if err != nil {
		return err
	}

	o.items = kept
	o.remainder = remainder
	o.record(next, IntentPartiallyFulfill, actorID, at)
	return nil
}

// Cancel cancels the order. Cancelling an already cancelled order is a
// no-op that reports changed=false and appends nothing.
func (o *Order) Cancel(actorID string, at time.Time) (bool, error) {
	if err := o.Validate(); err != nil {
		return false, err
	}
	if o.status == Cancelled {
		return false, nil
	}
	if err := o.Apply(IntentCancel, actorID, at); err != nil {
		return false, err
	}
	return true, nil
}

// PreRefundStatus walks the history backwards and returns the most recent
// status that is not RefundRequested.
func (o *Order) PreRefundStatus() (Status, error) {
	for i := len(o.history) - 1; i >= 0; i-- {
		if s := o.history[i].Status; s != RefundRequested {
			return s, nil
		}
	}
	return Unknown, ErrNoPreRefundStatus
}

// Events returns the events recorded since the order was created or restored.
func (o *Order) Events() []kernel.DomainEvent {
	return slices.Clone(o.events)
}

// ClearEvents drops recorded events once they have been handed to a publisher.
func (o *Order) ClearEvents() {
	o.events = nil
}

// Validate checks that the order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) record(next Status, intent Intent, actorID string, at time.Time) {
	from := o.status
	o.status = next
	o.history = append(o.history, HistoryEntry{Status: next, ActorID: actorID, At: at.UTC()})
	if from != Unknown {
		o.version++
	}
	o.events = append(o.events, StatusChanged{
		OrderID: o.id,
		From:    from,
		To:      next,
		Intent:  intent,
		ActorID: actorID,
		At:      at.UTC(),
		Version: o.version,
	})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setBuyerID(buyerID string) error {
	if buyerID == "" {
		return ErrBuyerIsRequired
	}
	o.buyerID = buyerID
	return nil
}

func (o *Order) setSellerID(sellerID string) error {
	if sellerID == "" {
		return ErrSellerIsRequired
	}
	o.sellerID = sellerID
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if err := validateLineItems(items); err != nil {
		return err
	}
	o.items = slices.Clone(items)
	return nil
}
