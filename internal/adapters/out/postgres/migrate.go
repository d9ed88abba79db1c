package postgres

import (
	"gorm.io/gorm"

	"github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/postgres/courierrepo"
	"github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/postgres/evidencerepo"
	"github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/postgres/logisticsrepo"
	"github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/postgres/orderrepo"
	"github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/postgres/refundrepo"
)

// Migrate creates or updates every table the service owns, including the
// partial unique index on open refund cases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.HistoryDTO{},
		&refundrepo.RefundCaseDTO{},
		&logisticsrepo.EntryDTO{},
		&evidencerepo.EvidenceDTO{},
		&courierrepo.CourierDTO{},
	)
}
