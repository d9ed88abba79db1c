package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// EvidenceStore keeps refund attachments in process.
type EvidenceStore struct {
	mu    sync.RWMutex
	blobs map[string]ports.Attachment
}

func NewEvidenceStore() *EvidenceStore {
	return &EvidenceStore{blobs: make(map[string]ports.Attachment)}
}

// Store keeps a copy of every attachment and returns "evidence/<id>"
// references in input order. Nothing is kept if any attachment is invalid.
func (s *EvidenceStore) Store(_ context.Context, attachments []ports.Attachment) ([]string, error) {
	for _, a := range attachments {
		if a.Name == "" {
			return nil, errs.NewValueIsRequiredError("attachment name")
		}
		if len(a.Data) == 0 {
			return nil, errs.NewValueIsRequiredError("attachment data")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	refs := make([]string, 0, len(attachments))
	for _, a := range attachments {
		ref := "evidence/" + kernel.NewUUID().String()
		a.Data = slices.Clone(a.Data)
		s.blobs[ref] = a
		refs = append(refs, ref)
	}
	return refs, nil
}

// Load returns a stored attachment by reference.
func (s *EvidenceStore) Load(_ context.Context, ref string) (ports.Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.blobs[ref]
	if !ok {
		return ports.Attachment{}, errs.NewObjectNotFoundError("evidence", ref)
	}
	a.Data = slices.Clone(a.Data)
	return a, nil
}

// CourierDirectory is an in-process courier directory.
type CourierDirectory struct {
	mu       sync.RWMutex
	couriers map[kernel.UUID]string
}

func NewCourierDirectory() *CourierDirectory {
	return &CourierDirectory{couriers: make(map[kernel.UUID]string)}
}

func (d *CourierDirectory) Lookup(_ context.Context, courierID kernel.UUID) (ports.CourierInfo, error) {
	if err := courierID.Validate(); err != nil {
		return ports.CourierInfo{}, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	name, ok := d.couriers[courierID]
	if !ok {
		return ports.CourierInfo{}, errs.NewObjectNotFoundError("courier", courierID.String())
	}
	return ports.CourierInfo{ID: courierID, Name: name}, nil
}

// Register adds or renames a courier.
func (d *CourierDirectory) Register(_ context.Context, info ports.CourierInfo) error {
	if err := info.ID.Validate(); err != nil {
		return err
	}
	if info.Name == "" {
		return errs.NewValueIsRequiredError("name")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.couriers[info.ID] = info.Name
	return nil
}
