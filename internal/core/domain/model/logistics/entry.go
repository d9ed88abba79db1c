package logistics

import (
	"errors"
	"time"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/guard"
)

var (
	ErrEntryIsNotConstructed = errors.New("LogisticsEntry must be created via NewEntry or RestoreEntry")
	// ErrCourierIsRequired is returned when a status past Processing has no courier.
	ErrCourierIsRequired = errs.NewValueIsRequiredError("courierId")
)

// Entry tracks delivery of one order. Entries are never deleted.
type Entry struct {
	id        kernel.UUID
	orderID   kernel.UUID
	courierID *kernel.UUID
	status    Status
	updatedAt time.Time
	version   int64
	guard     guard.ConstructorGuard
}

// NewEntry starts tracking orderID in Processing with no courier.
func NewEntry(id, orderID kernel.UUID, at time.Time) (*Entry, error) {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}
	return &Entry{
		id:        id,
		orderID:   orderID,
		status:    Processing,
		updatedAt: at.UTC(),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// RestoreEntry rebuilds an entry from storage.
func RestoreEntry(
	id, orderID kernel.UUID,
	courierID *kernel.UUID,
	status Status,
	updatedAt time.Time,
	version int64,
) (*Entry, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return nil, err
		}
	}
	if status == Assigned || status == InTransit || status == Delivered {
		if courierID == nil {
			return nil, ErrCourierIsRequired
		}
	}
	return &Entry{
		id:        id,
		orderID:   orderID,
		courierID: courierID,
		status:    status,
		updatedAt: updatedAt,
		version:   version,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (e *Entry) ID() kernel.UUID {
	return e.id
}

func (e *Entry) OrderID() kernel.UUID {
	return e.orderID
}

// CourierID is nil until a courier is assigned.
func (e *Entry) CourierID() *kernel.UUID {
	if e.courierID == nil {
		return nil
	}
	id := *e.courierID
	return &id
}

func (e *Entry) Status() Status {
	return e.status
}

func (e *Entry) UpdatedAt() time.Time {
	return e.updatedAt
}

func (e *Entry) Version() int64 {
	return e.version
}

// Assign hands the entry to courierID. Allowed from Processing, and from
// Assigned to replace the courier before pickup.
func (e *Entry) Assign(courierID kernel.UUID, at time.Time) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := courierID.Validate(); err != nil {
		return err
	}
	if e.status != Processing && e.status != Assigned {
		return errs.NewIllegalTransitionError(e.status.String(), "assign")
	}

	id := courierID
	e.courierID = &id
	e.touch(Assigned, at)
	return nil
}

// Advance moves the entry to next. Anything that is not a forward step,
// including repeating the current status, is an IllegalTransitionError.
func (e *Entry) Advance(next Status, at time.Time) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	if next == Assigned {
		return errs.NewIllegalTransitionErrorWithCause(
			e.status.String(), "move to "+next.String(), errors.New("use Assign to attach a courier"),
		)
	}
	if !e.status.CanMoveTo(next) {
		return errs.NewIllegalTransitionError(e.status.String(), "move to "+next.String())
	}
	if next != Failed && e.courierID == nil {
		return errs.NewIllegalTransitionErrorWithCause(e.status.String(), "move to "+next.String(), ErrCourierIsRequired)
	}

	e.touch(next, at)
	return nil
}

func (e *Entry) Validate() error {
	if e == nil {
		return ErrEntryIsNotConstructed
	}
	return e.guard.Validate(ErrEntryIsNotConstructed)
}

func (e *Entry) touch(status Status, at time.Time) {
	e.status = status
	e.updatedAt = at.UTC()
	e.version++
}

// Snapshot is the plain data form of an Entry.
type Snapshot struct {
	ID        kernel.UUID
	OrderID   kernel.UUID
	CourierID *kernel.UUID
	Status    Status
	UpdatedAt time.Time
	Version   int64
}

func (e *Entry) Snapshot() Snapshot {
	return Snapshot{
		ID:        e.id,
		OrderID:   e.orderID,
		CourierID: e.CourierID(),
		Status:    e.status,
		UpdatedAt: e.updatedAt,
		Version:   e.version,
	}
}
