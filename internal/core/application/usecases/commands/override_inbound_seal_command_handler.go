package commands

import (
	"context"
	"fmt"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/bag"
	"custody/internal/core/ports"
	"custody/internal/pkg/errs"
)

var ErrOverrideNotPermitted = errs.NewIntegrityViolationError("actor role may not override seal verification")

// OverrideInboundSealCommandHandler is the audited replacement for a blanket
// seal bypass. Only actors whose role is in the configured list may use it,
// and the audit entry records the presented seal, the recorded seal and the
// reason.
type OverrideInboundSealCommandHandler struct {
	uowFactory   BagUoWFactory
	auditor      auditRecorder
	allowedRoles []string
}

// NewOverrideInboundSealCommandHandler creates the handler. allowedRoles lists
// the actor roles that may override; an empty list disables overrides.
func NewOverrideInboundSealCommandHandler(
	uowFactory BagUoWFactory,
	auditLog ports.AuditLog,
	allowedRoles []string,
) OverrideInboundSealCommandHandler {
	return OverrideInboundSealCommandHandler{
		uowFactory:   uowFactory,
		auditor:      newAuditRecorder(auditLog),
		allowedRoles: allowedRoles,
	}
}

// Handle receives the bag without comparing seals.
//
// Errors:
//   - ErrOverrideNotPermitted if the actor's role is not allowed
//   - errs.ErrObjectNotFound if the bag code is unknown
//   - bag.ErrInvalidState unless the bag is DISPATCHED or IN_TRANSIT
//
// An already received bag is returned unchanged.
func (h OverrideInboundSealCommandHandler) Handle(ctx context.Context, cmd OverrideInboundSealCommand) (*bag.Bag, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if !cmd.Actor().HasRole(h.allowedRoles...) {
		return nil, fmt.Errorf("%w: role %q", ErrOverrideNotPermitted, cmd.Actor().Role())
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

	changed, err := b.OverrideInbound(cmd.Actor().LinkedEntityID())
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

	detail := inboundDetail(b)
	detail["presentedSeal"] = cmd.PresentedSeal()
	detail["reason"] = cmd.Reason()

	return b, h.auditor.record(ctx, audit.BagInboundOverride, cmd.Actor(), b.Code(),
		"bag received without seal match", detail)
}
