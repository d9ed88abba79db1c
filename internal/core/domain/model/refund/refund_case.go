package refund

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/guard"
)

// MaxEvidence is the number of attachments a buyer may add to a request.
const MaxEvidence = 5

var (
	ErrReasonIsRequired     = errs.NewValueIsRequiredError("reason")
	ErrRequesterIsRequired  = errs.NewValueIsRequiredError("requestedBy")
	ErrResponderIsRequired  = errs.NewValueIsRequiredError("responderId")
	ErrCaseIsNotConstructed = errors.New("RefundCase must be created via NewRefundCase or RestoreRefundCase")
	ErrResolutionIsInvalid  = errors.New("resolution must be present exactly when the case is decided")
)

// Resolution records who decided a case and when.
type Resolution struct {
	ApproverID string
	At         time.Time
	Note       string
}

// RefundCase tracks one refund request for an order.
type RefundCase struct {
	id          kernel.UUID
	orderID     kernel.UUID
	requestedBy string
	requestedAt time.Time
	reason      string
	evidence    []string
	amount      kernel.Money
	state       State
	resolution  *Resolution
	completedAt *time.Time
	// settlingUntil ends the running payout claim.
	settlingUntil *time.Time
	version       int64
	guard         guard.ConstructorGuard
}

// NewRefundCase opens a case in Requested. Evidence holds the references
// returned by the evidence store, at most MaxEvidence of them.
func NewRefundCase(
	id, orderID kernel.UUID,
	requestedBy, reason string,
	evidence []string,
	amount kernel.Money,
	at time.Time,
) (*RefundCase, error) {
	c := &RefundCase{
		guard:       guard.NewConstructorGuard(),
		requestedAt: at.UTC(),
		amount:      amount,
		state:       Requested,
	}

	if err := errors.Join(
		c.setID(id),
		c.setOrderID(orderID),
		c.setRequestedBy(requestedBy),
		c.setReason(reason),
		c.setEvidence(evidence),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// ValidateEvidenceCount fails when more than MaxEvidence attachments are given.
// Callers check it before uploading anything.
func ValidateEvidenceCount(n int) error {
	if n > MaxEvidence {
		return fmt.Errorf("%w: %w", errs.ErrTooManyAttachments, errs.NewValueIsOutOfRangeError("evidence", n, 0, MaxEvidence))
	}
	return nil
}

func (c *RefundCase) ID() kernel.UUID {
	return c.id
}

func (c *RefundCase) OrderID() kernel.UUID {
	return c.orderID
}

func (c *RefundCase) RequestedBy() string {
	return c.requestedBy
}

func (c *RefundCase) RequestedAt() time.Time {
	return c.requestedAt
}

func (c *RefundCase) Reason() string {
	return c.reason
}

func (c *RefundCase) Evidence() []string {
	return slices.Clone(c.evidence)
}

// Amount is the order total at the time of the request.
func (c *RefundCase) Amount() kernel.Money {
	return c.amount
}

func (c *RefundCase) State() State {
	return c.state
}

// Resolution is nil while the case is Requested.
func (c *RefundCase) Resolution() *Resolution {
	if c.resolution == nil {
		return nil
	}
	r := *c.resolution
	return &r
}

// CompletedAt is set once the payment collaborator confirmed the refund.
func (c *RefundCase) CompletedAt() *time.Time {
	if c.completedAt == nil {
		return nil
	}
	t := *c.completedAt
	return &t
}

// SettlingUntil is the end of the running payout claim, nil when unclaimed.
func (c *RefundCase) SettlingUntil() *time.Time {
	if c.settlingUntil == nil {
		return nil
	}
	t := *c.settlingUntil
	return &t
}

func (c *RefundCase) Version() int64 {
	return c.version
}

func (c *RefundCase) IsOpen() bool {
	return c.state.IsOpen()
}

// Approve moves a Requested case to Approved. Approving an Approved or
// Completed case changes nothing and reports changed=false.
func (c *RefundCase) Approve(approverID, note string, at time.Time) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}
	switch c.state {
	case Approved, Completed:
		return false, nil
	case Requested:
	default:
		return false, errs.NewIllegalTransitionError(c.state.String(), string(DecisionApprove))
	}
	if approverID == "" {
		return false, ErrResponderIsRequired
	}

	c.state = Approved
	c.resolution = &Resolution{ApproverID: approverID, At: at.UTC(), Note: note}
	c.version++
	return true, nil
}

// Reject moves a Requested case to Rejected. Rejecting a Rejected case is a no-op.
func (c *RefundCase) Reject(approverID, note string, at time.Time) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}
	switch c.state {
	case Rejected:
		return false, nil
	case Requested:
	default:
		return false, errs.NewIllegalTransitionError(c.state.String(), string(DecisionReject))
	}
	if approverID == "" {
		return false, ErrResponderIsRequired
	}

	c.state = Rejected
	c.resolution = &Resolution{ApproverID: approverID, At: at.UTC(), Note: note}
	c.version++
	return true, nil
}

// ClaimSettlement reserves an Approved case for one payout attempt until
// now+lease. A case claimed by someone else whose claim has not expired
// fails with ErrSettlementInProgress. Only the holder of the claim may call
// the payment collaborator.
func (c *RefundCase) ClaimSettlement(now time.Time, lease time.Duration) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.state != Approved {
		return errs.NewIllegalTransitionError(c.state.String(), "settle")
	}
	if c.settlingUntil != nil && now.Before(*c.settlingUntil) {
		return errs.NewConflictErrorWithCause("refund case", c.id, errs.ErrSettlementInProgress)
	}

	until := now.UTC().Add(lease)
	c.settlingUntil = &until
	c.version++
	return nil
}

// ReleaseSettlement drops the payout claim after a failed attempt so the
// next caller does not have to wait for it to expire.
func (c *RefundCase) ReleaseSettlement() (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}
	if c.settlingUntil == nil || c.state != Approved {
		return false, nil
	}
	c.settlingUntil = nil
	c.version++
	return true, nil
}

// Complete marks an Approved case as paid out. Completing a Completed case
// is a no-op.
func (c *RefundCase) Complete(at time.Time) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}
	switch c.state {
	case Completed:
		return false, nil
	case Approved:
	default:
		return false, errs.NewIllegalTransitionError(c.state.String(), "complete")
	}

	completedAt := at.UTC()
	c.state = Completed
	c.completedAt = &completedAt
	c.settlingUntil = nil
	c.version++
	return true, nil
}

func (c *RefundCase) Validate() error {
	if c == nil {
		return ErrCaseIsNotConstructed
	}
	return c.guard.Validate(ErrCaseIsNotConstructed)
}

func (c *RefundCase) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *RefundCase) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	c.orderID = orderID
	return nil
}

func (c *RefundCase) setRequestedBy(requestedBy string) error {
	if requestedBy == "" {
		return ErrRequesterIsRequired
	}
	c.requestedBy = requestedBy
	return nil
}

func (c *RefundCase) setReason(reason string) error {
	if reason == "" {
		return ErrReasonIsRequired
	}
	c.reason = reason
	return nil
}

func (c *RefundCase) setEvidence(evidence []string) error {
	if err := ValidateEvidenceCount(len(evidence)); err != nil {
		return err
	}
	for i, ref := range evidence {
		if ref == "" {
			return errs.NewValueIsInvalidErrorWithCause("evidence", fmt.Errorf("reference %d is empty", i))
		}
	}
	c.evidence = slices.Clone(evidence)
	return nil
}
