package commands

import (
	"context"
	"time"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trip"
	"custody/internal/core/ports"
)

// CreateTripCommandHandler opens a CREATED trip for manual loading.
type CreateTripCommandHandler struct {
	uowFactory UoWFactory
	auditor    auditRecorder
}

func NewCreateTripCommandHandler(uowFactory UoWFactory, auditLog ports.AuditLog) CreateTripCommandHandler {
	return CreateTripCommandHandler{
		uowFactory: uowFactory,
		auditor:    newAuditRecorder(auditLog),
	}
}

// Handle returns the new trip. A non-nil error together with a non-nil trip is
// an *AuditWarning.
func (h CreateTripCommandHandler) Handle(ctx context.Context, cmd CreateTripCommand) (*trip.Trip, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	t, err := trip.NewTrip(
		kernel.NewUUID(),
		kernel.NewCode(kernel.TripCodePrefix, cmd.OriginID()),
		cmd.OriginID(),
		cmd.DestinationID(),
		cmd.Source(),
		cmd.Manifest(),
		cmd.Actor().ID(),
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.TripRepository().Add(ctx, t); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return t, h.auditor.record(ctx, audit.TripOp, cmd.Actor(), t.Code(), "trip created", audit.Detail{
		"action":        "CREATE",
		"source":        t.Source().String(),
		"originId":      t.OriginEntityID(),
		"destinationId": t.DestinationEntityID(),
	})
}
