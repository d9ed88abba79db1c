package refundrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/refund"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// GormRefundRepository implements ports.RefundRepository using GORM.
type GormRefundRepository struct {
	db *gorm.DB
}

func NewGormRefundRepository(db *gorm.DB) *GormRefundRepository {
	return &GormRefundRepository{db: db}
}

// Add inserts a case. A second Requested case for the same order violates
// the open case index and is reported as ConflictError.
func (r *GormRefundRepository) Add(ctx context.Context, c *refund.RefundCase) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dto := fromDomain(c)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("refund case for order", c.OrderID(), errs.ErrOpenRefundExists)
		}
		return err
	}
	return nil
}

func (r *GormRefundRepository) FindOpen(ctx context.Context, orderID kernel.UUID) (*refund.RefundCase, error) {
	return r.first(orderID, r.db.WithContext(ctx).
		Where("order_id = ? AND state = ?", orderID.Bytes(), refund.Requested.String()))
}

func (r *GormRefundRepository) FindLatestByOrder(ctx context.Context, orderID kernel.UUID) (*refund.RefundCase, error) {
	return r.first(orderID, r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("requested_at DESC"))
}

// ListApproved returns approved cases waiting for settlement, oldest first.
func (r *GormRefundRepository) ListApproved(ctx context.Context, limit int) ([]*refund.RefundCase, error) {
	query := r.db.WithContext(ctx).
		Where("state = ?", refund.Approved.String()).
		Order("requested_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []RefundCaseDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	cases := make([]*refund.RefundCase, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// CompareAndSwap writes the case where the stored version equals expectedVersion.
func (r *GormRefundRepository) CompareAndSwap(ctx context.Context, expectedVersion int64, c *refund.RefundCase) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dto := fromDomain(c)
	result := r.db.WithContext(ctx).Model(&RefundCaseDTO{}).
		Where("id = ? AND version = ?", dto.ID, expectedVersion).
		Updates(map[string]any{
			"state":          dto.State,
			"approver_id":    dto.ApproverID,
			"resolved_at":    dto.ResolvedAt,
			"note":           dto.Note,
			"completed_at":   dto.CompletedAt,
			"settling_until": dto.SettlingUntil,
			"version":        dto.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&RefundCaseDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("refund case", c.ID().String())
	}
	return errs.NewConflictErrorWithCause("refund case", c.ID(), errs.ErrVersionConflict)
}

func (r *GormRefundRepository) first(orderID kernel.UUID, query *gorm.DB) (*refund.RefundCase, error) {
	var dto RefundCaseDTO
	if err := query.First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("refund case", orderID.String())
		}
		return nil, err
	}
	return toDomain(dto)
}
