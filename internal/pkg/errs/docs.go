// Package errs provides the error taxonomy of the order lifecycle service.
// Every failure the core returns belongs to exactly one kind:
//
//   - Validation: malformed input (ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError)
//   - NotFound: unknown order, refund case or courier (ObjectNotFoundError)
//   - Forbidden: the actor role may not perform the intent (ForbiddenError)
//   - IllegalTransition: the state machine does not allow the intent (IllegalTransitionError)
//   - Conflict: duplicate open refund or a lost compare-and-swap race (ConflictError)
//   - Upstream: payment or evidence collaborator failure (UpstreamError)
//
// Each error type follows the same pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is works on the kind
//
// KindOf classifies any error (wrapped or joined) and IsRetryable tells callers
// whether repeating the request after a refresh can succeed. WithCurrentStatus
// attaches the authoritative order status to a failure.
package errs
