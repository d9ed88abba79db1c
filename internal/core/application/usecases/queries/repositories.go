// Package queries contains read-only operations. Query handlers never open
// a transaction; they read the latest committed state.
package queries

import (
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
)

type (
	// Reader gives access to repositories outside of a transaction.
	Reader interface {
		OrderRepository() ports.OrderRepository
		RefundRepository() ports.RefundRepository
		LogisticsRepository() ports.LogisticsRepository
	}

	// ReaderFactory creates a Reader per query.
	ReaderFactory interface {
		Create() Reader
	}
)
