package commands

import (
	"context"
	"time"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/trip"
	"custody/internal/core/ports"
)

// MarkArrivedCommandHandler records that an IN_TRANSIT trip reached its
// destination. Bags are left for per-bag verification.
type MarkArrivedCommandHandler struct {
	uowFactory UoWFactory
	auditor    auditRecorder
}

func NewMarkArrivedCommandHandler(uowFactory UoWFactory, auditLog ports.AuditLog) MarkArrivedCommandHandler {
	return MarkArrivedCommandHandler{
		uowFactory: uowFactory,
		auditor:    newAuditRecorder(auditLog),
	}
}

func (h MarkArrivedCommandHandler) Handle(ctx context.Context, cmd TripCommand) (*trip.Trip, error) {
	return transitionTrip(ctx, h.uowFactory, h.auditor, cmd, "ARRIVE",
		func(_ context.Context, _ UoW, t *trip.Trip, cmd TripCommand) (audit.Detail, error) {
			return audit.Detail{"locationId": cmd.Actor().LinkedEntityID()}, t.MarkArrived(time.Now().UTC())
		})
}
