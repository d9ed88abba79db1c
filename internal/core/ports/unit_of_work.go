package ports

import (
	"context"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Writes made through its repositories become visible together on Commit
// or not at all.
type UnitOfWork interface {
	// Begin starts a new transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback discards the current transaction. Calling it after Commit is a no-op.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// RefundRepository returns a RefundRepository bound to the current transaction.
	RefundRepository() RefundRepository

	// LogisticsRepository returns a LogisticsRepository bound to the current transaction.
	LogisticsRepository() LogisticsRepository

	// Events returns the domain events of every aggregate written through this
	// unit of work, in write order. Handlers publish them after Commit.
	Events() []kernel.DomainEvent
}
