package order

import (
	"errors"
	"fmt"
	"slices"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/guard"
)

// Snapshot is the plain data form of an Order. Storage adapters persist it
// and transports render it; it carries no behavior.
type Snapshot struct {
	ID        kernel.UUID
	BuyerID   string
	SellerID  string
	Items     []LineItem
	Remainder []LineItem
	Status    Status
	History   []HistoryEntry
	Version   int64
}

// Snapshot copies the current state of the order.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:        o.id,
		BuyerID:   o.buyerID,
		SellerID:  o.sellerID,
		Items:     slices.Clone(o.items),
		Remainder: slices.Clone(o.remainder),
		Status:    o.status,
		History:   slices.Clone(o.history),
		Version:   o.version,
	}
}

// RestoreOrder rebuilds an Order from persisted state. No history entry is
// appended and no event is recorded.
//
// The last history entry must match the status, otherwise the snapshot is
// corrupt and an error is returned.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setBuyerID(s.BuyerID),
		o.setSellerID(s.SellerID),
		o.setItems(s.Items),
		s.Status.Validate(),
		validateHistory(s.Status, s.History),
	); err != nil {
		return nil, err
	}
	if s.Version < 0 {
		return nil, errs.NewValueIsOutOfRangeError("version", s.Version, 0, "unbounded")
	}

	o.remainder = slices.Clone(s.Remainder)
	o.status = s.Status
	o.history = slices.Clone(s.History)
	o.version = s.Version
	return o, nil
}

func validateHistory(status Status, history []HistoryEntry) error {
	if len(history) == 0 {
		return errs.NewValueIsRequiredError("history")
	}
	if last := history[len(history)-1].Status; last != status {
		return errs.NewValueIsInvalidErrorWithCause(
			"history",
			fmt.Errorf("last entry is %s but status is %s", last, status),
		)
	}
	return nil
}
