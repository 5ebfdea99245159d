// Package bag implements the Bag aggregate: a sealed physical container that
// carries shipments between custody points.
//
// The package includes:
//   - Bag: the aggregate root holding contents, seal, counters and back-references
//   - Status: the custody state machine with a single transition table
//   - Type: OUTBOUND, FIRST_MILE and RTO bags
//   - Exception: the append-only shortage/damage/excess record
//
// Key business rules:
//   - only CREATED and OPENED bags accept shipments or a seal
//   - a seal is written once and re-checked on inbound receipt
//   - SHORTAGE_MARKED and DAMAGE_MARKED are terminal
//
// Cross-bag rules such as single custody of a shipment are enforced by the
// application layer, which can see every bag.
package bag
