// Package services holds domain services for rules that span more than one
// aggregate.
//
// The package includes:
//   - BagRouter: connects a bag to a connection sheet
//   - OutboundPlanner: consolidates closed sheets into one hub-to-hub trip
//   - InboundReceivedCounter: gates inbound completion on per-bag resolution
//
// Services mutate the aggregates they receive and never persist them.
package services
