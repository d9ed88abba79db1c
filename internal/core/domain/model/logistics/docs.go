// Package logistics provides the LogisticsEntry aggregate that follows an
// order from the seller's warehouse to the buyer.
//
// Status only moves forward: Processing, Assigned, InTransit, Delivered.
// Failed can be reached from any status that is not Delivered or Failed.
// While Assigned a different courier may take over the entry.
package logistics
