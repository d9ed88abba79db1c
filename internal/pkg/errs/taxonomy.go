package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers deciding whether to retry.
type Kind int

const (
	KindNone Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindIllegalTransition
	KindConflict
	KindUpstream
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFoundError"
	case KindForbidden:
		return "ForbiddenError"
	case KindIllegalTransition:
		return "IllegalTransitionError"
	case KindConflict:
		return "ConflictError"
	case KindUpstream:
		return "UpstreamError"
	default:
		return "InternalError"
	}
}

// KindOf returns the taxonomy kind of err. Conflict is checked before the
// other kinds because a ConflictError may carry a cause of another kind.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrUpstreamFailure):
		return KindUpstream
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrIllegalTransition):
		return KindIllegalTransition
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsRequired),
		errors.Is(err, ErrValueIsOutOfRange):
		return KindValidation
	default:
		return KindInternal
	}
}

// IsRetryable reports whether the same request may succeed after the caller
// refreshes its view of the order.
func IsRetryable(err error) bool {
	k := KindOf(err)
	return k == KindConflict || k == KindUpstream
}

// StatusError decorates a failure with the authoritative order status at the
// time the operation was rejected.
type StatusError struct {
	Err           error
	CurrentStatus string
}

// WithCurrentStatus wraps err with the order's current status.
// A nil err stays nil; an already decorated err gets its status replaced.
func WithCurrentStatus(err error, status string) error {
	if err == nil {
		return nil
	}
	var se *StatusError
	if errors.As(err, &se) {
		return &StatusError{Err: se.Err, CurrentStatus: status}
	}
	return &StatusError{Err: err, CurrentStatus: status}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s (current status: %s)", e.Err.Error(), e.CurrentStatus)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// CurrentStatus extracts the status attached by WithCurrentStatus.
func CurrentStatus(err error) (string, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.CurrentStatus, true
	}
	return "", false
}
