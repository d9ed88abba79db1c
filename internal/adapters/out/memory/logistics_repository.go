package memory

import (
	"context"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// logisticsRepository keys entries by order id, one entry per order.
type logisticsRepository struct {
	uow *UnitOfWork
}

func (r *logisticsRepository) Add(_ context.Context, e *logistics.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	uow := r.uow
	uow.mu.Lock()
	defer uow.mu.Unlock()
	if !uow.active {
		return ErrNoActiveTransaction
	}

	orderID := e.OrderID()
	if _, isStaged := uow.logistics[orderID]; isStaged {
		return errs.NewConflictError("logistics entry for order", orderID)
	}
	uow.store.mu.RLock()
	_, exists := uow.store.logistics[orderID]
	uow.store.mu.RUnlock()
	if exists {
		return errs.NewConflictError("logistics entry for order", orderID)
	}

	uow.logistics[orderID] = staged[logistics.Snapshot]{expected: newVersion, value: e.Snapshot()}
	return nil
}

func (r *logisticsRepository) GetByOrder(_ context.Context, orderID kernel.UUID) (*logistics.Entry, error) {
	r.uow.mu.Lock()
	w, isStaged := r.uow.logistics[orderID]
	r.uow.mu.Unlock()

	s := w.value
	if !isStaged {
		r.uow.store.mu.RLock()
		committed, ok := r.uow.store.logistics[orderID]
		r.uow.store.mu.RUnlock()
		if !ok {
			return nil, errs.NewObjectNotFoundError("logistics entry", orderID.String())
		}
		s = committed
	}

	return logistics.RestoreEntry(s.ID, s.OrderID, s.CourierID, s.Status, s.UpdatedAt, s.Version)
}

func (r *logisticsRepository) CompareAndSwap(_ context.Context, expectedVersion int64, e *logistics.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	uow := r.uow
	uow.mu.Lock()
	defer uow.mu.Unlock()
	if !uow.active {
		return ErrNoActiveTransaction
	}

	orderID := e.OrderID()
	if w, isStaged := uow.logistics[orderID]; isStaged {
		if w.value.Version != expectedVersion {
			return errs.NewConflictErrorWithCause("logistics entry", orderID, errs.ErrVersionConflict)
		}
		w.value = e.Snapshot()
		uow.logistics[orderID] = w
		return nil
	}

	uow.store.mu.RLock()
	committed, exists := uow.store.logistics[orderID]
	uow.store.mu.RUnlock()
	if !exists {
		return errs.NewObjectNotFoundError("logistics entry", orderID.String())
	}
	if committed.Version != expectedVersion {
		return errs.NewConflictErrorWithCause("logistics entry", orderID, errs.ErrVersionConflict)
	}

	uow.logistics[orderID] = staged[logistics.Snapshot]{expected: expectedVersion, value: e.Snapshot()}
	return nil
}
