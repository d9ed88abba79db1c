package commands

import (
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/refund"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
)

// OrderResult carries the order as committed. Changed is false for
// idempotent no-ops.
type OrderResult struct {
	Order   order.Snapshot
	Changed bool
}

// RefundResult carries the order and its refund case as committed.
type RefundResult struct {
	Order   order.Snapshot
	Case    refund.Snapshot
	Changed bool
}

// LogisticsResult carries the order and its logistics entry as committed.
type LogisticsResult struct {
	Order   order.Snapshot
	Entry   logistics.Snapshot
	Courier *ports.CourierInfo
}
