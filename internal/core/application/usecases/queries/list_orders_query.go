package queries

import (
	"errors"
	"slices"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListSellerOrdersQuery or NewListBuyerOrdersQuery",
)

// ListOrdersQuery lists the orders of one seller, optionally filtered by
// status, or of one buyer.
type ListOrdersQuery struct {
	sellerID string
	buyerID  string
	statuses []order.Status

	guard guard.ConstructorGuard
}

// NewListSellerOrdersQuery covers the seller dashboard views such as
// "pending confirmation" (statuses = PendingSellerConfirmation).
func NewListSellerOrdersQuery(sellerID string, statuses ...order.Status) (ListOrdersQuery, error) {
	if sellerID == "" {
		return ListOrdersQuery{}, order.ErrSellerIsRequired
	}
	for _, s := range statuses {
		if err := s.Validate(); err != nil {
			return ListOrdersQuery{}, err
		}
	}
	return ListOrdersQuery{
		sellerID: sellerID,
		statuses: slices.Clone(statuses),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func NewListBuyerOrdersQuery(buyerID string) (ListOrdersQuery, error) {
	if buyerID == "" {
		return ListOrdersQuery{}, errs.NewValueIsRequiredError("buyerId")
	}
	return ListOrdersQuery{buyerID: buyerID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) SellerID() string {
	return q.sellerID
}

func (q ListOrdersQuery) BuyerID() string {
	return q.buyerID
}

func (q ListOrdersQuery) Statuses() []order.Status {
	return slices.Clone(q.statuses)
}
