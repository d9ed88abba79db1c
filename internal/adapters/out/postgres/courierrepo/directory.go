// Package courierrepo exposes the "couriers" table as a courier directory.
// Rows are usually written by the delivery service; Register seeds them for
// local setups.
package courierrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// CourierDTO is the subset of the "couriers" row the directory needs.
type CourierDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:varchar(255);not null"`
}

func (CourierDTO) TableName() string {
	return "couriers"
}

// GormCourierDirectory implements ports.CourierDirectory.
type GormCourierDirectory struct {
	db *gorm.DB
}

func NewGormCourierDirectory(db *gorm.DB) *GormCourierDirectory {
	return &GormCourierDirectory{db: db}
}

func (d *GormCourierDirectory) Lookup(ctx context.Context, courierID kernel.UUID) (ports.CourierInfo, error) {
	if err := courierID.Validate(); err != nil {
		return ports.CourierInfo{}, err
	}

	var dto CourierDTO
	if err := d.db.WithContext(ctx).First(&dto, "id = ?", courierID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CourierInfo{}, errs.NewObjectNotFoundError("courier", courierID.String())
		}
		return ports.CourierInfo{}, err
	}

	return ports.CourierInfo{ID: courierID, Name: dto.Name}, nil
}

// Register adds or renames a courier.
func (d *GormCourierDirectory) Register(ctx context.Context, info ports.CourierInfo) error {
	if err := info.ID.Validate(); err != nil {
		return err
	}
	if info.Name == "" {
		return errs.NewValueIsRequiredError("name")
	}

	dto := CourierDTO{ID: info.ID.Bytes(), Name: info.Name}
	return d.db.WithContext(ctx).Save(&dto).Error
}
