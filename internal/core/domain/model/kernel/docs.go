// Package kernel provides the value objects shared by the order, refund and
// logistics aggregates:
//   - UUID: identifier of aggregates and couriers
//   - Money: non-negative decimal amount used for prices, totals and refunds
package kernel
