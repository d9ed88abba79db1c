// Package evidencerepo keeps refund attachments as blobs in "refund_evidence"
// and hands out "evidence/<id>" references.
package evidencerepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// ReferencePrefix starts every reference returned by Store.
const ReferencePrefix = "evidence/"

// MaxAttachmentSize caps one attachment.
const MaxAttachmentSize = 5 << 20

type EvidenceDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(127)"`
	Data        []byte    `gorm:"type:bytea;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (EvidenceDTO) TableName() string {
	return "refund_evidence"
}

// GormEvidenceStore implements ports.EvidenceStore. It writes through its own
// connection, outside of any order unit of work, so evidence is stored
// before the refund request is.
type GormEvidenceStore struct {
	db *gorm.DB
}

func NewGormEvidenceStore(db *gorm.DB) *GormEvidenceStore {
	return &GormEvidenceStore{db: db}
}

// Store saves all attachments in one transaction and returns their
// references in the same order.
func (s *GormEvidenceStore) Store(ctx context.Context, attachments []ports.Attachment) ([]string, error) {
	if len(attachments) == 0 {
		return nil, nil
	}

	dtos := make([]EvidenceDTO, 0, len(attachments))
	var errList []error
	for _, a := range attachments {
		if a.Name == "" {
			errList = append(errList, errs.NewValueIsRequiredError("attachment name"))
			continue
		}
		if len(a.Data) == 0 || len(a.Data) > MaxAttachmentSize {
			errList = append(errList, errs.NewValueIsOutOfRangeError("attachment size", len(a.Data), 1, MaxAttachmentSize))
			continue
		}
		dtos = append(dtos, EvidenceDTO{
			ID:          kernel.NewUUID().Bytes(),
			Name:        a.Name,
			ContentType: a.ContentType,
			Data:        a.Data,
		})
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return nil, err
	}

	references := make([]string, 0, len(dtos))
	for _, dto := range dtos {
		references = append(references, ReferencePrefix+dto.ID.String())
	}
	return references, nil
}

// Load returns a stored attachment by reference.
func (s *GormEvidenceStore) Load(ctx context.Context, reference string) (ports.Attachment, error) {
	raw, ok := strings.CutPrefix(reference, ReferencePrefix)
	if !ok {
		return ports.Attachment{}, errs.NewValueIsInvalidError("reference")
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return ports.Attachment{}, err
	}

	var dto EvidenceDTO
	if err = s.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Attachment{}, errs.NewObjectNotFoundError("evidence", reference)
		}
		return ports.Attachment{}, err
	}
	return ports.Attachment{Name: dto.Name, ContentType: dto.ContentType, Data: dto.Data}, nil
}
