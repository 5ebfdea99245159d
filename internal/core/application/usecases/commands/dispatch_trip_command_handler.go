package commands

import (
	"context"
	"time"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/trip"
	"custody/internal/core/ports"
)

// DispatchTripCommandHandler sends a manually loaded trip: the trip moves to
// IN_TRANSIT and every loaded bag to IN_TRANSIT. Bags exception-marked after
// loading stay as they are.
type DispatchTripCommandHandler struct {
	uowFactory UoWFactory
	auditor    auditRecorder
}

func NewDispatchTripCommandHandler(uowFactory UoWFactory, auditLog ports.AuditLog) DispatchTripCommandHandler {
	return DispatchTripCommandHandler{
		uowFactory: uowFactory,
		auditor:    newAuditRecorder(auditLog),
	}
}

// Handle fails with trip.ErrEmptyTrip when nothing was loaded and with
// trip.ErrInvalidState when the trip was already dispatched.
func (h DispatchTripCommandHandler) Handle(ctx context.Context, cmd TripCommand) (*trip.Trip, error) {
	return transitionTrip(ctx, h.uowFactory, h.auditor, cmd, "DISPATCH",
		func(ctx context.Context, uow UoW, t *trip.Trip, _ TripCommand) (audit.Detail, error) {
			if err := t.Dispatch(time.Now().UTC()); err != nil {
				return nil, err
			}

			bagRepo := uow.BagRepository()
			bags, err := bagRepo.GetMany(ctx, t.BagIDs())
			if err != nil {
				return nil, err
			}

			departed := 0
			for _, b := range bags {
				if b.Status().IsTerminal() {
					continue
				}
				if err = b.Depart(); err != nil {
					return nil, err
				}
				if err = bagRepo.Update(ctx, b); err != nil {
					return nil, err
				}
				departed++
			}

			return audit.Detail{"bagCount": departed}, nil
		})
}
