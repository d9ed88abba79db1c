// Package logisticsrepo persists logistics entries in "logistics_entries",
// one row per order.
package logisticsrepo

import (
	"time"

	"github.com/google/uuid"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
)

type EntryDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	CourierID *uuid.UUID `gorm:"type:uuid;index"`
	Status    string     `gorm:"type:varchar(16);not null"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime:false"`
	Version   int64      `gorm:"not null"`
}

func (EntryDTO) TableName() string {
	return "logistics_entries"
}

func fromDomain(e *logistics.Entry) EntryDTO {
	s := e.Snapshot()
	var courierID *uuid.UUID
	if s.CourierID != nil {
		raw := s.CourierID.Bytes()
		courierID = &raw
	}
	return EntryDTO{
		ID:        s.ID.Bytes(),
		OrderID:   s.OrderID.Bytes(),
		CourierID: courierID,
		Status:    s.Status.String(),
		UpdatedAt: s.UpdatedAt,
		Version:   s.Version,
	}
}

func toDomain(dto EntryDTO) (*logistics.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	status, err := logistics.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return logistics.RestoreEntry(id, orderID, courierID, status, dto.UpdatedAt.UTC(), dto.Version)
}
