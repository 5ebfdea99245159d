package commands

import (
	"context"
	"time"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/trip"
	"custody/internal/core/domain/services"
	"custody/internal/core/ports"
)

// CompleteInboundCommandHandler finishes an unloading trip once every bag it
// carried is INBOUND_RECEIVED, SHORTAGE_MARKED or DAMAGE_MARKED. Otherwise it
// returns *trip.IncompleteVerificationError with the unresolved count.
type CompleteInboundCommandHandler struct {
	uowFactory UoWFactory
	counter    services.InboundReceivedCounter
	auditor    auditRecorder
}

// NewCompleteInboundCommandHandler creates the handler. The unresolved-bag
// check is done by services.InboundReceivedCounter.
func NewCompleteInboundCommandHandler(uowFactory UoWFactory, auditLog ports.AuditLog) CompleteInboundCommandHandler {
	return CompleteInboundCommandHandler{
		uowFactory: uowFactory,
		counter:    services.NewInboundReceivedCounter(),
		auditor:    newAuditRecorder(auditLog),
	}
}

// Handle moves an UNLOADING trip to INBOUND_COMPLETED.
//
// Errors:
//   - trip.ErrInvalidState if the trip is not UNLOADING
//   - trip.ErrIncompleteVerification if any carried bag is still unresolved
func (h CompleteInboundCommandHandler) Handle(ctx context.Context, cmd TripCommand) (*trip.Trip, error) {
	return transitionTrip(ctx, h.uowFactory, h.auditor, cmd, "COMPLETE_INBOUND",
		func(ctx context.Context, uow UoW, t *trip.Trip, _ TripCommand) (audit.Detail, error) {
			bags, err := uow.BagRepository().GetMany(ctx, t.BagIDs())
			if err != nil {
				return nil, err
			}

			if err = h.counter.Complete(t, bags, time.Now().UTC()); err != nil {
				return nil, err
			}

			exceptions := 0
			for _, b := range bags {
				if b.Status().IsTerminal() {
					exceptions++
				}
			}
			return audit.Detail{"bagCount": len(bags), "exceptionCount": exceptions}, nil
		})
}
