package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/refund"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// ErrNoActiveTransaction is returned for writes and Commit outside Begin.
var ErrNoActiveTransaction = errors.New("no active transaction")

// newVersion marks a staged write as an insert.
const newVersion = -1

type staged[T any] struct {
	expected int64
	value    T
}

// UnitOfWork stages writes and applies them on Commit. Reads see the
// unit's own staged writes first, then the committed state.
type UnitOfWork struct {
	store *Store

	mu        sync.Mutex
	active    bool
	orders    map[kernel.UUID]staged[order.Snapshot]
	refunds   map[kernel.UUID]staged[refund.Snapshot]
	logistics map[kernel.UUID]staged[logistics.Snapshot]
	events    []kernel.DomainEvent
}

func newUnitOfWork(store *Store) *UnitOfWork {
	uow := &UnitOfWork{store: store}
	uow.reset()
	return uow
}

func (uow *UnitOfWork) reset() {
	uow.orders = make(map[kernel.UUID]staged[order.Snapshot])
	uow.refunds = make(map[kernel.UUID]staged[refund.Snapshot])
	uow.logistics = make(map[kernel.UUID]staged[logistics.Snapshot])
	uow.events = nil
}

func (uow *UnitOfWork) Begin(_ context.Context) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()
	uow.active = true
	return nil
}

// Commit re-checks every staged version against the store and applies all
// writes, or none of them.
func (uow *UnitOfWork) Commit(_ context.Context) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()
	if !uow.active {
		return ErrNoActiveTransaction
	}

	s := uow.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := uow.verify(); err != nil {
		return err
	}

	for id, w := range uow.orders {
		s.orders[id] = w.value
	}
	for id, w := range uow.refunds {
		s.refunds[id] = w.value
	}
	for orderID, w := range uow.logistics {
		s.logistics[orderID] = w.value
	}

	uow.active = false
	return nil
}

// Rollback drops staged writes. It is a no-op after Commit.
func (uow *UnitOfWork) Rollback(_ context.Context) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()
	if !uow.active {
		return nil
	}
	uow.active = false
	uow.reset()
	return nil
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: uow}
}

func (uow *UnitOfWork) RefundRepository() ports.RefundRepository {
	return &refundRepository{uow: uow}
}

func (uow *UnitOfWork) LogisticsRepository() ports.LogisticsRepository {
	return &logisticsRepository{uow: uow}
}

func (uow *UnitOfWork) Events() []kernel.DomainEvent {
	uow.mu.Lock()
	defer uow.mu.Unlock()
	return append([]kernel.DomainEvent(nil), uow.events...)
}

// verify runs with the store locked.
func (uow *UnitOfWork) verify() error {
	s := uow.store
	for id, w := range uow.orders {
		if err := checkVersion("order", id, w.expected, s.orders, func(o order.Snapshot) int64 { return o.Version }); err != nil {
			return err
		}
	}
	for id, w := range uow.refunds {
		if err := checkVersion("refund case", id, w.expected, s.refunds, func(c refund.Snapshot) int64 { return c.Version }); err != nil {
			return err
		}
		if w.value.State == refund.Requested {
			for otherID, other := range s.refunds {
				if otherID != id && other.OrderID == w.value.OrderID && other.State == refund.Requested {
					return errs.NewConflictErrorWithCause("refund case for order", w.value.OrderID, errs.ErrOpenRefundExists)
				}
			}
		}
	}
	for orderID, w := range uow.logistics {
		if err := checkVersion("logistics entry", orderID, w.expected, s.logistics, func(e logistics.Snapshot) int64 { return e.Version }); err != nil {
			return err
		}
	}
	return nil
}

func checkVersion[T any](resource string, id kernel.UUID, expected int64, committed map[kernel.UUID]T, version func(T) int64) error {
	current, exists := committed[id]
	switch {
	case expected == newVersion && exists:
		return errs.NewConflictError(resource, id)
	case expected == newVersion:
		return nil
	case !exists:
		return errs.NewObjectNotFoundError(resource, id)
	case version(current) != expected:
		return errs.NewConflictErrorWithCause(resource, id, errs.ErrVersionConflict)
	}
	return nil
}

// track collects the aggregate's events; called with uow.mu held.
func (uow *UnitOfWork) track(o *order.Order) {
	uow.events = append(uow.events, o.Events()...)
	o.ClearEvents()
}
