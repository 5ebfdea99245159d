package commands

import (
	"context"
	"time"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/trip"
	"custody/internal/core/ports"
)

// ReceiveTripCommandHandler is the legacy arrival path without per-bag seal
// verification. Bags still DISPATCHED or IN_TRANSIT become RECEIVED at the
// trip destination; bags already resolved otherwise are left untouched.
type ReceiveTripCommandHandler struct {
	uowFactory UoWFactory
	auditor    auditRecorder
}

func NewReceiveTripCommandHandler(uowFactory UoWFactory, auditLog ports.AuditLog) ReceiveTripCommandHandler {
	return ReceiveTripCommandHandler{
		uowFactory: uowFactory,
		auditor:    newAuditRecorder(auditLog),
	}
}

// Handle moves an IN_TRANSIT or ARRIVED trip to RECEIVED. Any other status
// fails with trip.ErrInvalidState.
func (h ReceiveTripCommandHandler) Handle(ctx context.Context, cmd TripCommand) (*trip.Trip, error) {
	return transitionTrip(ctx, h.uowFactory, h.auditor, cmd, "RECEIVE",
		func(ctx context.Context, uow UoW, t *trip.Trip, cmd TripCommand) (audit.Detail, error) {
			if err := t.Receive(time.Now().UTC()); err != nil {
				return nil, err
			}

			location := cmd.Actor().LinkedEntityID()
			if location == "" {
				location = t.DestinationEntityID()
			}

			bagRepo := uow.BagRepository()
			bags, err := bagRepo.GetMany(ctx, t.BagIDs())
			if err != nil {
				return nil, err
			}

			received := 0
			for _, b := range bags {
				if b.Status() != bag.Dispatched && b.Status() != bag.InTransit {
					continue
				}
				if err = b.Receive(location); err != nil {
					return nil, err
				}
				if err = bagRepo.Update(ctx, b); err != nil {
					return nil, err
				}
				received++
			}

			return audit.Detail{"receivedBagCount": received, "locationId": location}, nil
		})
}
