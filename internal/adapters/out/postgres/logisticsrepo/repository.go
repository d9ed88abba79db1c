package logisticsrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// GormLogisticsRepository implements ports.LogisticsRepository using GORM.
type GormLogisticsRepository struct {
	db *gorm.DB
}

func NewGormLogisticsRepository(db *gorm.DB) *GormLogisticsRepository {
	return &GormLogisticsRepository{db: db}
}

func (r *GormLogisticsRepository) Add(ctx context.Context, e *logistics.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	dto := fromDomain(e)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("logistics entry for order", e.OrderID(), err)
		}
		return err
	}
	return nil
}

func (r *GormLogisticsRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*logistics.Entry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto EntryDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("logistics entry", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// CompareAndSwap writes the entry where the stored version equals expectedVersion.
func (r *GormLogisticsRepository) CompareAndSwap(ctx context.Context, expectedVersion int64, e *logistics.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	dto := fromDomain(e)
	result := r.db.WithContext(ctx).Model(&EntryDTO{}).
		Where("id = ? AND version = ?", dto.ID, expectedVersion).
		Updates(map[string]any{
			"courier_id": dto.CourierID,
			"status":     dto.Status,
			"updated_at": dto.UpdatedAt,
			"version":    dto.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&EntryDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("logistics entry", e.OrderID().String())
	}
	return errs.NewConflictErrorWithCause("logistics entry", e.OrderID(), errs.ErrVersionConflict)
}
