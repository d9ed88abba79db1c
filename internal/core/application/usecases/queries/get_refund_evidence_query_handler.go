package queries

import (
	"context"
	"errors"
	"slices"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

var ErrNotRefundReviewer = errors.New("actor may not review refunds of this order")

type GetRefundEvidenceQueryHandler struct {
	readers  ReaderFactory
	evidence ports.EvidenceStore
}

func NewGetRefundEvidenceQueryHandler(readers ReaderFactory, evidence ports.EvidenceStore) GetRefundEvidenceQueryHandler {
	return GetRefundEvidenceQueryHandler{readers: readers, evidence: evidence}
}

// Handle serves the buyer and the seller of the order, and admins. A
// reference that is not on the latest refund case is reported as not found,
// whether or not the store holds it.
func (h GetRefundEvidenceQueryHandler) Handle(ctx context.Context, query GetRefundEvidenceQuery) (ports.Attachment, error) {
	if err := query.Validate(); err != nil {
		return ports.Attachment{}, err
	}

	reader := h.readers.Create()
	o, err := reader.OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return ports.Attachment{}, err
	}
	if !mayReview(o, query.ActorID(), query.Role()) {
		return ports.Attachment{}, errs.NewForbiddenErrorWithCause(
			query.Role().String(), "view refund evidence", ErrNotRefundReviewer,
		)
	}

	c, err := reader.RefundRepository().FindLatestByOrder(ctx, o.ID())
	if err != nil {
		return ports.Attachment{}, err
	}
	if !slices.Contains(c.Evidence(), query.Reference()) {
		return ports.Attachment{}, errs.NewObjectNotFoundError("evidence", query.Reference())
	}
	return h.evidence.Load(ctx, query.Reference())
}

func mayReview(o *order.Order, actorID string, role order.Role) bool {
	switch role {
	case order.RoleAdmin:
		return true
	case order.RoleBuyer:
		return o.IsBuyer(actorID)
	case order.RoleSeller:
		return o.IsSeller(actorID)
	default:
		return false
	}
}
