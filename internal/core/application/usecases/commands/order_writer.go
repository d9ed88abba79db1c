package commands

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// MaxWriteAttempts bounds how often a command re-reads and re-evaluates an
// order after losing a version race.
const MaxWriteAttempts = 5

// mutation is evaluated against a fresh read of the order inside a unit of
// work. It returns changed=false when there is nothing to write, which is
// how idempotent no-ops are expressed.
type mutation func(ctx context.Context, uow UoW, o *order.Order) (changed bool, err error)

// orderWriter runs read-modify-write cycles on a single order with
// optimistic concurrency. A cycle that loses the version race is retried
// from a fresh read with exponential backoff.
type orderWriter struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	newBackOff func() backoff.BackOff
}

func newOrderWriter(uowFactory UoWFactory, publisher ports.EventPublisher) orderWriter {
	return orderWriter{
		uowFactory: uowFactory,
		publisher:  publisher,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 5 * time.Millisecond
			b.MaxInterval = 200 * time.Millisecond
			b.MaxElapsedTime = 0
			return b
		},
	}
}

// write applies fn until it commits, fails for a reason other than a
// version conflict, or runs out of attempts. The order returned reflects the
// committed state, or the state fn saw when it reported no change.
func (w orderWriter) write(ctx context.Context, orderID kernel.UUID, fn mutation) (*order.Order, bool, error) {
	var (
		result  *order.Order
		changed bool
		events  []kernel.DomainEvent
	)

	operation := func() error {
		o, ch, evts, err := w.attempt(ctx, orderID, fn)
		if err != nil {
			if errors.Is(err, errs.ErrVersionConflict) {
				return err
			}
			return backoff.Permanent(err)
		}
		result, changed, events = o, ch, evts
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(w.newBackOff(), MaxWriteAttempts-1), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, false, err
	}

	if len(events) > 0 && w.publisher != nil {
		w.publisher.Publish(ctx, events...)
	}
	return result, changed, nil
}

func (w orderWriter) attempt(
	ctx context.Context,
	orderID kernel.UUID,
	fn mutation,
) (*order.Order, bool, []kernel.DomainEvent, error) {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return nil, false, nil, err
	}
	current := o.Status().String()
	expectedVersion := o.Version()

	changed, err := fn(ctx, uow, o)
	if err != nil {
		return nil, false, nil, errs.WithCurrentStatus(err, current)
	}
	if !changed {
		return o, false, nil, nil
	}

	if o.Version() != expectedVersion {
		if err = uow.OrderRepository().CompareAndSwap(ctx, expectedVersion, o); err != nil {
			return nil, false, nil, errs.WithCurrentStatus(err, current)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, false, nil, errs.WithCurrentStatus(err, current)
	}

	return o, true, uow.Events(), nil
}

// read runs fn against the current order without writing anything. Errors
// from fn carry the order's current status.
func (w orderWriter) read(
	ctx context.Context,
	orderID kernel.UUID,
	fn func(ctx context.Context, uow UoW, o *order.Order) error,
) (*order.Order, error) {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err = fn(ctx, uow, o); err != nil {
		return nil, errs.WithCurrentStatus(err, o.Status().String())
	}
	return o, nil
}
