// Package memory provides an in-process implementation of the repositories
// and the unit of work. It keeps plain snapshots behind a mutex, stages
// writes per unit of work and applies them atomically on Commit after
// re-checking every expected version.
//
// It is used for local runs (STORAGE=memory) and by scenario and
// concurrency tests of the application layer.
package memory

import (
	"sync"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/refund"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
)

// Store holds the committed state.
type Store struct {
	mu        sync.RWMutex
	orders    map[kernel.UUID]order.Snapshot
	refunds   map[kernel.UUID]refund.Snapshot
	logistics map[kernel.UUID]logistics.Snapshot
}

func NewStore() *Store {
	return &Store{
		orders:    make(map[kernel.UUID]order.Snapshot),
		refunds:   make(map[kernel.UUID]refund.Snapshot),
		logistics: make(map[kernel.UUID]logistics.Snapshot),
	}
}

// UnitOfWorkFactory creates units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return newUnitOfWork(f.store)
}
