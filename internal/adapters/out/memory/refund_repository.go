package memory

import (
	"context"
	"slices"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/refund"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

type refundRepository struct {
	uow *UnitOfWork
}

func (r *refundRepository) Add(_ context.Context, c *refund.RefundCase) error {
	if err := c.Validate(); err != nil {
		return err
	}

	uow := r.uow
	uow.mu.Lock()
	defer uow.mu.Unlock()
	if !uow.active {
		return ErrNoActiveTransaction
	}

	snapshot := c.Snapshot()
	for _, s := range r.visibleLocked() {
		if s.ID == snapshot.ID {
			return errs.NewConflictError("refund case", s.ID)
		}
		if snapshot.State == refund.Requested && s.OrderID == snapshot.OrderID && s.State == refund.Requested {
			return errs.NewConflictErrorWithCause("refund case for order", s.OrderID, errs.ErrOpenRefundExists)
		}
	}

	uow.refunds[snapshot.ID] = staged[refund.Snapshot]{expected: newVersion, value: snapshot}
	return nil
}

func (r *refundRepository) FindOpen(_ context.Context, orderID kernel.UUID) (*refund.RefundCase, error) {
	return r.find(orderID, func(s refund.Snapshot) bool { return s.State == refund.Requested })
}

func (r *refundRepository) FindLatestByOrder(_ context.Context, orderID kernel.UUID) (*refund.RefundCase, error) {
	return r.find(orderID, func(refund.Snapshot) bool { return true })
}

func (r *refundRepository) ListApproved(_ context.Context, limit int) ([]*refund.RefundCase, error) {
	r.uow.mu.Lock()
	visible := r.visibleLocked()
	r.uow.mu.Unlock()

	var approved []refund.Snapshot
	for _, s := range visible {
		if s.State == refund.Approved {
			approved = append(approved, s)
		}
	}
	slices.SortFunc(approved, func(a, b refund.Snapshot) int {
		return a.RequestedAt.Compare(b.RequestedAt)
	})
	if limit > 0 && len(approved) > limit {
		approved = approved[:limit]
	}

	cases := make([]*refund.RefundCase, 0, len(approved))
	for _, s := range approved {
		c, err := refund.RestoreRefundCase(s)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func (r *refundRepository) CompareAndSwap(_ context.Context, expectedVersion int64, c *refund.RefundCase) error {
	if err := c.Validate(); err != nil {
		return err
	}

	uow := r.uow
	uow.mu.Lock()
	defer uow.mu.Unlock()
	if !uow.active {
		return ErrNoActiveTransaction
	}

	id := c.ID()
	if w, isStaged := uow.refunds[id]; isStaged {
		if w.value.Version != expectedVersion {
			return errs.NewConflictErrorWithCause("refund case", id, errs.ErrVersionConflict)
		}
		w.value = c.Snapshot()
		uow.refunds[id] = w
		return nil
	}

	uow.store.mu.RLock()
	committed, exists := uow.store.refunds[id]
	uow.store.mu.RUnlock()
	if !exists {
		return errs.NewObjectNotFoundError("refund case", id.String())
	}
	if committed.Version != expectedVersion {
		return errs.NewConflictErrorWithCause("refund case", id, errs.ErrVersionConflict)
	}

	uow.refunds[id] = staged[refund.Snapshot]{expected: expectedVersion, value: c.Snapshot()}
	return nil
}

func (r *refundRepository) find(orderID kernel.UUID, match func(refund.Snapshot) bool) (*refund.RefundCase, error) {
	r.uow.mu.Lock()
	visible := r.visibleLocked()
	r.uow.mu.Unlock()

	var (
		latest refund.Snapshot
		found  bool
	)
	for _, s := range visible {
		if s.OrderID != orderID || !match(s) {
			continue
		}
		if !found || s.RequestedAt.After(latest.RequestedAt) {
			latest, found = s, true
		}
	}
	if !found {
		return nil, errs.NewObjectNotFoundError("refund case", orderID.String())
	}
	return refund.RestoreRefundCase(latest)
}

// visibleLocked merges committed cases with this unit's staged ones.
// Callers hold uow.mu.
func (r *refundRepository) visibleLocked() []refund.Snapshot {
	r.uow.store.mu.RLock()
	merged := make(map[kernel.UUID]refund.Snapshot, len(r.uow.store.refunds)+len(r.uow.refunds))
	for id, s := range r.uow.store.refunds {
		merged[id] = s
	}
	r.uow.store.mu.RUnlock()

	for id, w := range r.uow.refunds {
		merged[id] = w.value
	}

	out := make([]refund.Snapshot, 0, len(merged))
	for _, s := range merged {
		out = append(out, s)
	}
	return out
}
