package commands

import (
	"context"
	"time"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/trip"
	"custody/internal/core/ports"
)

// CloseTripCommandHandler closes a trip whose inbound work is finished.
type CloseTripCommandHandler struct {
	uowFactory UoWFactory
	auditor    auditRecorder
}

func NewCloseTripCommandHandler(uowFactory UoWFactory, auditLog ports.AuditLog) CloseTripCommandHandler {
	return CloseTripCommandHandler{
		uowFactory: uowFactory,
		auditor:    newAuditRecorder(auditLog),
	}
}

// Handle closes a RECEIVED trip. Any other status fails with
// trip.ErrInvalidState.
func (h CloseTripCommandHandler) Handle(ctx context.Context, cmd TripCommand) (*trip.Trip, error) {
	return transitionTrip(ctx, h.uowFactory, h.auditor, cmd, "CLOSE",
		func(_ context.Context, _ UoW, t *trip.Trip, _ TripCommand) (audit.Detail, error) {
			return nil, t.Close(time.Now().UTC())
		})
}
