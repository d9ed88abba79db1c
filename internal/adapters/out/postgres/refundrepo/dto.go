// Package refundrepo persists refund cases in "refund_cases". A partial
// unique index keeps at most one Requested case per order.
package refundrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/refund"
)

// OpenCaseIndex is the partial unique index on requested cases.
const OpenCaseIndex = "idx_refund_cases_open_per_order"

type RefundCaseDTO struct {
	ID            uuid.UUID                  `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID                  `gorm:"type:uuid;not null;index;uniqueIndex:idx_refund_cases_open_per_order,where:state = 'Requested'"`
	RequestedBy   string                     `gorm:"type:varchar(255);not null"`
	RequestedAt   time.Time                  `gorm:"not null"`
	Reason        string                     `gorm:"type:text;not null"`
	Evidence      datatypes.JSONSlice[string]
	Amount        decimal.Decimal            `gorm:"type:numeric(14,2);not null"`
	State         string                     `gorm:"type:varchar(16);not null;index"`
	ApproverID    *string                    `gorm:"type:varchar(255)"`
	ResolvedAt    *time.Time
	Note          string                     `gorm:"type:text"`
	CompletedAt   *time.Time
	SettlingUntil *time.Time
	Version       int64                      `gorm:"not null"`
}

func (RefundCaseDTO) TableName() string {
	return "refund_cases"
}

func fromDomain(c *refund.RefundCase) RefundCaseDTO {
	s := c.Snapshot()
	dto := RefundCaseDTO{
		ID:          s.ID.Bytes(),
		OrderID:     s.OrderID.Bytes(),
		RequestedBy: s.RequestedBy,
		RequestedAt: s.RequestedAt,
		Reason:      s.Reason,
		Evidence:    datatypes.JSONSlice[string](s.Evidence),
		Amount:      s.Amount.Decimal(),
		State:       s.State.String(),
		CompletedAt: s.CompletedAt,
		Version:     s.Version,
	}
	if s.SettlingUntil != nil {
		until := *s.SettlingUntil
		dto.SettlingUntil = &until
	}
	if r := s.Resolution; r != nil {
		approver, at := r.ApproverID, r.At
		dto.ApproverID = &approver
		dto.ResolvedAt = &at
		dto.Note = r.Note
	}
	return dto
}

func toDomain(dto RefundCaseDTO) (*refund.RefundCase, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	state, err := refund.ParseState(dto.State)
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.Amount)
	if err != nil {
		return nil, err
	}

	var resolution *refund.Resolution
	if dto.ApproverID != nil && dto.ResolvedAt != nil {
		resolution = &refund.Resolution{ApproverID: *dto.ApproverID, At: dto.ResolvedAt.UTC(), Note: dto.Note}
	}
	var completedAt *time.Time
	if dto.CompletedAt != nil {
		at := dto.CompletedAt.UTC()
		completedAt = &at
	}

	var settlingUntil *time.Time
	if dto.SettlingUntil != nil {
		until := dto.SettlingUntil.UTC()
		settlingUntil = &until
	}

	return refund.RestoreRefundCase(refund.Snapshot{
		ID:            id,
		OrderID:       orderID,
		RequestedBy:   dto.RequestedBy,
		RequestedAt:   dto.RequestedAt.UTC(),
		Reason:        dto.Reason,
		Evidence:      []string(dto.Evidence),
		Amount:        amount,
		State:         state,
		Resolution:    resolution,
		CompletedAt:   completedAt,
		SettlingUntil: settlingUntil,
		Version:       dto.Version,
	})
}
