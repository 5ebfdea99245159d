package services

import (
	"time"

	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trip"
)

// InboundReceivedCounter decides whether an unloading trip may complete
// inbound: every bag the trip references must be verified or exception-flagged.
type InboundReceivedCounter struct{}

func NewInboundReceivedCounter() InboundReceivedCounter {
	return InboundReceivedCounter{}
}

// Unresolved returns the number of t's bags that are not resolved. A bag id
// with no matching entry in bags counts as unresolved.
func (c InboundReceivedCounter) Unresolved(t *trip.Trip, bags []*bag.Bag) int {
	byID := make(map[kernel.UUID]*bag.Bag, len(bags))
	for _, b := range bags {
		byID[b.ID()] = b
	}

	unresolved := 0
	for _, id := range t.BagIDs() {
		b, ok := byID[id]
		if !ok || !b.Status().IsResolvedForInbound() {
			unresolved++
		}
	}
	return unresolved
}

// Complete moves t to INBOUND_COMPLETED or returns
// *trip.IncompleteVerificationError with the unresolved count.
func (c InboundReceivedCounter) Complete(t *trip.Trip, bags []*bag.Bag, at time.Time) error {
	return t.CompleteInbound(c.Unresolved(t, bags), at)
}
