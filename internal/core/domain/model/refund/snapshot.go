package refund

import (
	"errors"
	"time"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/guard"
)

// Snapshot is the persisted form of a RefundCase.
type Snapshot struct {
	ID          kernel.UUID
	OrderID     kernel.UUID
	RequestedBy string
	RequestedAt time.Time
	Reason      string
	Evidence    []string
	Amount      kernel.Money
	State       State
	Resolution  *Resolution
	CompletedAt *time.Time
	// SettlingUntil is set while a payout attempt holds the case.
	SettlingUntil *time.Time
	Version       int64
}

func (c *RefundCase) Snapshot() Snapshot {
	return Snapshot{
		ID:            c.id,
		OrderID:       c.orderID,
		RequestedBy:   c.requestedBy,
		RequestedAt:   c.requestedAt,
		Reason:        c.reason,
		Evidence:      c.Evidence(),
		Amount:        c.amount,
		State:         c.state,
		Resolution:    c.Resolution(),
		CompletedAt:   c.CompletedAt(),
		SettlingUntil: c.SettlingUntil(),
		Version:       c.version,
	}
}

// RestoreRefundCase rebuilds a case from storage.
func RestoreRefundCase(s Snapshot) (*RefundCase, error) {
	c := &RefundCase{
		guard:       guard.NewConstructorGuard(),
		requestedAt: s.RequestedAt,
		amount:      s.Amount,
		version:     s.Version,
	}

	if err := errors.Join(
		c.setID(s.ID),
		c.setOrderID(s.OrderID),
		c.setRequestedBy(s.RequestedBy),
		c.setReason(s.Reason),
		c.setEvidence(s.Evidence),
		s.State.Validate(),
	); err != nil {
		return nil, err
	}
	if (s.State == Requested) != (s.Resolution == nil) {
		return nil, ErrResolutionIsInvalid
	}

	c.state = s.State
	if s.Resolution != nil {
		r := *s.Resolution
		c.resolution = &r
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.completedAt = &t
	}
	if s.SettlingUntil != nil && s.State == Approved {
		t := *s.SettlingUntil
		c.settlingUntil = &t
	}
	return c, nil
}
