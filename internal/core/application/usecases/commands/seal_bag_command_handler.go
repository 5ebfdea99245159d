package commands

import (
	"context"
	"time"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/bag"
	"custody/internal/core/ports"
)

// DefaultSealMinLength is used when no minimum is configured.
const DefaultSealMinLength = 4

// SealBagCommandHandler seals a non-empty bag once.
type SealBagCommandHandler struct {
	uowFactory    BagUoWFactory
	auditor       auditRecorder
	sealMinLength int
}

// NewSealBagCommandHandler builds the handler. A non-positive sealMinLength
// falls back to DefaultSealMinLength.
func NewSealBagCommandHandler(uowFactory BagUoWFactory, auditLog ports.AuditLog, sealMinLength int) SealBagCommandHandler {
	if sealMinLength <= 0 {
		sealMinLength = DefaultSealMinLength
	}
	return SealBagCommandHandler{
		uowFactory:    uowFactory,
		auditor:       newAuditRecorder(auditLog),
		sealMinLength: sealMinLength,
	}
}

// Handle seals the bag and returns it.
//
// Errors:
//   - bag.ErrInvalidState if the bag is past OPENED
//   - bag.ErrEmptyBag if the bag type needs contents and has none
//   - bag.ErrInvalidSeal if the seal is shorter than the configured minimum
func (h SealBagCommandHandler) Handle(ctx context.Context, cmd SealBagCommand) (*bag.Bag, error) {
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

	b, err := bagRepo.Get(ctx, cmd.BagID())
	if err != nil {
		return nil, err
	}

	if err = b.Seal(cmd.SealNumber(), h.sealMinLength, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = bagRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return b, h.auditor.record(ctx, audit.BagOp, cmd.Actor(), b.Code(), "bag sealed", audit.Detail{
		"action":        "SEAL",
		"sealNumber":    b.SealNumber(),
		"shipmentCount": b.ManifestCount(),
	})
}
