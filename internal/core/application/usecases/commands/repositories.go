// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management,
// compare-and-swap persistence, then best-effort event publication.
package commands

import (
	"context"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// RefundRepoFactory provides access to refund repository within a transaction.
	RefundRepoFactory interface {
		RefundRepository() ports.RefundRepository
	}

	// LogisticsRepoFactory provides access to logistics repository within a transaction.
	LogisticsRepoFactory interface {
		LogisticsRepository() ports.LogisticsRepository
	}

	// EventSource exposes the events of aggregates written in a transaction.
	EventSource interface {
		Events() []kernel.DomainEvent
	}

	// UoW manages transactions across order, refund and logistics aggregates.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().Get(ctx, orderID)
	//   // ... mutate o
	//   err = uow.OrderRepository().CompareAndSwap(ctx, expectedVersion, o)
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		RefundRepoFactory
		LogisticsRepoFactory
		EventSource
	}

	// UoWFactory creates new unit of work instances.
	UoWFactory interface {
		Create() UoW
	}
)
