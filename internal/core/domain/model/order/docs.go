// Package order provides the Order aggregate and the lifecycle state machine
// that every buyer, seller, courier and admin action goes through.
//
// The package includes:
//   - Order: the aggregate root with line items, status and append-only history
//   - Status: the lifecycle states and the transition table
//   - Intent: the actions actors request (confirm, ship, cancel, ...)
//   - Role: the actor roles an AccessPolicy reasons about
//   - Snapshot: the plain data form used by storage adapters and transports
//
// Key business rules:
//   - Orders are placed with at least one line item; quantity >= 1, unit price >= 0
//   - Placed moves to PendingSellerConfirmation immediately after placement
//   - Cancellation is only possible before shipment and is idempotent
//   - A rejected refund request returns the order to its status before the request
//   - Rejected, Cancelled and Refunded are terminal
//   - Every applied transition appends exactly one history entry and bumps the version
package order
