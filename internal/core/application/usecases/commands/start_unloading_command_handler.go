package commands

import (
	"context"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/trip"
	"custody/internal/core/ports"
)

// StartUnloadingCommandHandler opens the per-bag verification window of an
// arrived trip.
type StartUnloadingCommandHandler struct {
	uowFactory UoWFactory
	auditor    auditRecorder
}

func NewStartUnloadingCommandHandler(uowFactory UoWFactory, auditLog ports.AuditLog) StartUnloadingCommandHandler {
	return StartUnloadingCommandHandler{
		uowFactory: uowFactory,
		auditor:    newAuditRecorder(auditLog),
	}
}

// Handle fails with trip.ErrInvalidState unless the trip is ARRIVED.
func (h StartUnloadingCommandHandler) Handle(ctx context.Context, cmd TripCommand) (*trip.Trip, error) {
	return transitionTrip(ctx, h.uowFactory, h.auditor, cmd, "UNLOAD",
		func(_ context.Context, _ UoW, t *trip.Trip, _ TripCommand) (audit.Detail, error) {
			return audit.Detail{"bagCount": len(t.BagIDs())}, t.StartUnloading()
		})
}
