// Package postgres provides the GORM implementation of the unit of work.
// Repositories created by a unit of work run inside its transaction once
// Begin was called, and on the plain connection otherwise, which is how
// query handlers read.
//
// Basic usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	o, err := uow.OrderRepository().Get(ctx, orderID)
//	// ... mutate o
//	if err = uow.OrderRepository().CompareAndSwap(ctx, expected, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Each goroutine must use its own unit of work.
package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/postgres/logisticsrepo"
	"github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/postgres/orderrepo"
	"github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/postgres/refundrepo"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// eventSource is implemented by aggregates that record domain events.
type eventSource interface {
	Events() []kernel.DomainEvent
	ClearEvents()
}

// GormUnitOfWorkFactory creates UnitOfWork instances over one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and collects the
// events of the aggregates written through it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
	events            []kernel.DomainEvent
}

// Begin starts the transaction. Calling it twice keeps the first transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit returns gorm.ErrInvalidTransaction when Begin was not called.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction. Without one it does nothing, so it can
// be deferred unconditionally.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return nil
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	uow.events = nil
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) RefundRepository() ports.RefundRepository {
	return refundrepo.NewGormRefundRepository(uow.conn())
}

func (uow *GormUnitOfWork) LogisticsRepository() ports.LogisticsRepository {
	return logisticsrepo.NewGormLogisticsRepository(uow.conn())
}

// Events returns the events of tracked aggregates in write order.
func (uow *GormUnitOfWork) Events() []kernel.DomainEvent {
	return append([]kernel.DomainEvent(nil), uow.events...)
}

// TrackAggregate is called by repositories after a successful write. Events
// recorded by the aggregate move to the unit of work.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
	if source, ok := aggregate.(eventSource); ok {
		uow.events = append(uow.events, source.Events()...)
		source.ClearEvents()
	}
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
