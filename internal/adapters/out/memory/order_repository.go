package memory

import (
	"context"
	"slices"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	uow := r.uow
	uow.mu.Lock()
	defer uow.mu.Unlock()
	if !uow.active {
		return ErrNoActiveTransaction
	}

	id := aggregate.ID()
	if _, staged := uow.orders[id]; staged {
		return errs.NewConflictError("order", id)
	}
	uow.store.mu.RLock()
	_, exists := uow.store.orders[id]
	uow.store.mu.RUnlock()
	if exists {
		return errs.NewConflictError("order", id)
	}

	uow.orders[id] = staged[order.Snapshot]{expected: newVersion, value: aggregate.Snapshot()}
	uow.track(aggregate)
	return nil
}

func (r *orderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	snapshot, ok := r.current(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(snapshot)
}

func (r *orderRepository) CompareAndSwap(_ context.Context, expectedVersion int64, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	uow := r.uow
	uow.mu.Lock()
	defer uow.mu.Unlock()
	if !uow.active {
		return ErrNoActiveTransaction
	}

	id := aggregate.ID()
	w, isStaged := uow.orders[id]
	if isStaged {
		if w.value.Version != expectedVersion {
			return errs.NewConflictErrorWithCause("order", id, errs.ErrVersionConflict)
		}
		w.value = aggregate.Snapshot()
		uow.orders[id] = w
		uow.track(aggregate)
		return nil
	}

	uow.store.mu.RLock()
	committed, exists := uow.store.orders[id]
	uow.store.mu.RUnlock()
	if !exists {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	if committed.Version != expectedVersion {
		return errs.NewConflictErrorWithCause("order", id, errs.ErrVersionConflict)
	}

	uow.orders[id] = staged[order.Snapshot]{expected: expectedVersion, value: aggregate.Snapshot()}
	uow.track(aggregate)
	return nil
}

func (r *orderRepository) ListBySeller(_ context.Context, sellerID string, statuses ...order.Status) ([]*order.Order, error) {
	return r.list(func(s order.Snapshot) bool {
		return s.SellerID == sellerID && (len(statuses) == 0 || slices.Contains(statuses, s.Status))
	})
}

func (r *orderRepository) ListByBuyer(_ context.Context, buyerID string) ([]*order.Order, error) {
	return r.list(func(s order.Snapshot) bool {
		return s.BuyerID == buyerID
	})
}

func (r *orderRepository) list(match func(order.Snapshot) bool) ([]*order.Order, error) {
	r.uow.store.mu.RLock()
	var snapshots []order.Snapshot
	for _, s := range r.uow.store.orders {
		if match(s) {
			snapshots = append(snapshots, s)
		}
	}
	r.uow.store.mu.RUnlock()

	slices.SortFunc(snapshots, func(a, b order.Snapshot) int {
		return b.History[0].At.Compare(a.History[0].At)
	})

	orders := make([]*order.Order, 0, len(snapshots))
	for _, s := range snapshots {
		o, err := order.RestoreOrder(s)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *orderRepository) current(id kernel.UUID) (order.Snapshot, bool) {
	r.uow.mu.Lock()
	w, isStaged := r.uow.orders[id]
	r.uow.mu.Unlock()
	if isStaged {
		return w.value, true
	}

	r.uow.store.mu.RLock()
	defer r.uow.store.mu.RUnlock()
	s, ok := r.uow.store.orders[id]
	return s, ok
}
