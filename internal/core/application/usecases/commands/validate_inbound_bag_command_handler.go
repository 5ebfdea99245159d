package commands

import (
	"context"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/bag"
	"custody/internal/core/ports"
)

// ValidateInboundBagCommandHandler verifies a bag's seal on arrival. It is
// the only idempotent custody operation: rescanning a verified bag returns it
// unchanged and writes no audit entry.
type ValidateInboundBagCommandHandler struct {
	uowFactory BagUoWFactory
	auditor    auditRecorder
}

func NewValidateInboundBagCommandHandler(uowFactory BagUoWFactory, auditLog ports.AuditLog) ValidateInboundBagCommandHandler {
	return ValidateInboundBagCommandHandler{
		uowFactory: uowFactory,
		auditor:    newAuditRecorder(auditLog),
	}
}

// Handle receives the bag at the actor's linked entity.
//
// Errors:
//   - errs.ErrObjectNotFound if the bag code is unknown
//   - bag.ErrInvalidState unless the bag is DISPATCHED or IN_TRANSIT
//   - bag.ErrSealMismatch if the presented seal differs from the recorded one
func (h ValidateInboundBagCommandHandler) Handle(ctx context.Context, cmd ValidateInboundBagCommand) (*bag.Bag, error) {
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

	bagRepo := uow.BagRepository()

	b, err := bagRepo.GetByCode(ctx, cmd.BagCode())
	if err != nil {
		return nil, err
	}

	changed, err := b.VerifyInbound(cmd.PresentedSeal(), cmd.Actor().LinkedEntityID())
	if err != nil {
		return nil, err
	}
	if !changed {
		return b, nil
	}

	if err = bagRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return b, h.auditor.record(ctx, audit.BagInbound, cmd.Actor(), b.Code(), "bag verified inbound", inboundDetail(b))
}

func inboundDetail(b *bag.Bag) audit.Detail {
	detail := audit.Detail{
		"sealNumber": b.SealNumber(),
		"locationId": b.CurrentLocationID(),
	}
	if tripID := b.TripID(); tripID != nil {
		detail["tripId"] = tripID.String()
	}
	return detail
}
