package commands

import (
	"context"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/trip"
	"custody/internal/core/ports"
)

// AddBagToTripCommandHandler loads a sealed or received bag onto a CREATED
// trip. The bag becomes DISPATCHED with the trip reference immediately.
type AddBagToTripCommandHandler struct {
	uowFactory UoWFactory
	auditor    auditRecorder
}

// NewAddBagToTripCommandHandler creates a handler for manual trip loading.
// Requires a UoWFactory because the bag and the trip change together.
func NewAddBagToTripCommandHandler(uowFactory UoWFactory, auditLog ports.AuditLog) AddBagToTripCommandHandler {
	return AddBagToTripCommandHandler{
		uowFactory: uowFactory,
		auditor:    newAuditRecorder(auditLog),
	}
}

// Handle loads the bag and returns the updated trip.
//
// Errors:
//   - trip.ErrInvalidState if the trip is no longer CREATED
//   - errs.ErrObjectNotFound if the trip or the bag code is unknown
//   - bag.ErrAlreadyConnected if the bag sits on a connection sheet; such
//     bags leave the hub only with their sheet
//   - bag.ErrInvalidState if the bag is not SEALED, INBOUND_RECEIVED or RECEIVED
func (h AddBagToTripCommandHandler) Handle(ctx context.Context, cmd AddBagToTripCommand) (*trip.Trip, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	tripRepo := uow.TripRepository()
	bagRepo := uow.BagRepository()

	t, err := tripRepo.Get(ctx, cmd.TripID())
	if err != nil {
		return nil, err
	}

	if err = t.ValidateLoad(); err != nil {
		return nil, err
	}

	b, err := bagRepo.GetByCode(ctx, cmd.BagCode())
	if err != nil {
		return nil, err
	}

	if err = b.Dispatch(t.ID()); err != nil {
		return nil, err
	}

	if err = t.LoadBag(b.ID()); err != nil {
		return nil, err
	}

	if err = bagRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	if err = tripRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return t, h.auditor.record(ctx, audit.TripOp, cmd.Actor(), t.Code(), "bag loaded onto trip", audit.Detail{
		"action":   "LOAD_BAG",
		"bagCode":  b.Code(),
		"bagCount": len(t.BagIDs()),
	})
}
