// Package refund provides the RefundCase aggregate: a buyer's request to get
// money back for an order, tracked until it is rejected or completed.
//
// A case moves Requested -> Approved -> Completed, or Requested -> Rejected.
// Only a Requested case is open; an order has at most one open case.
// Repeating a decision that already holds is a no-op, not an error.
package refund
