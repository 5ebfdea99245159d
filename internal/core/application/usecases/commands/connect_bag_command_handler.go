package commands

import (
	"context"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/services"
	"custody/internal/core/ports"
)

// ConnectBagCommandHandler connects the bag side of a bag <-> sheet link. The
// sheet is resolved and checked the same way AddBagToSheet checks it, so a bag
// never points at a missing, closed or foreign sheet. A later AddBagToSheet
// for the same pair completes the sheet side.
type ConnectBagCommandHandler struct {
	uowFactory UoWFactory
	router     services.BagRouter
	auditor    auditRecorder
}

// NewConnectBagCommandHandler creates a handler that writes through uowFactory
// and records BAG_OP entries to auditLog.
func NewConnectBagCommandHandler(uowFactory UoWFactory, auditLog ports.AuditLog) ConnectBagCommandHandler {
	return ConnectBagCommandHandler{
		uowFactory: uowFactory,
		router:     services.NewBagRouter(),
		auditor:    newAuditRecorder(auditLog),
	}
}

// Handle sets the bag CONNECTED with the sheet reference.
//
// Errors:
//   - errs.ErrObjectNotFound if the bag code or the sheet is unknown
//   - sheet.ErrInvalidState if the sheet is CLOSED or DISPATCHED
//   - sheet.ErrBagNotReady if the bag is neither INBOUND_RECEIVED nor a
//     CREATED or SEALED bag that originated at the sheet's hub
//   - bag.ErrAlreadyConnected if the bag already references a sheet
func (h ConnectBagCommandHandler) Handle(ctx context.Context, cmd ConnectBagCommand) (*bag.Bag, error) {
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

	s, err := uow.SheetRepository().Get(ctx, cmd.SheetID())
	if err != nil {
		return nil, err
	}

	if err = h.router.Connect(s, b); err != nil {
		return nil, err
	}

	if err = bagRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return b, h.auditor.record(ctx, audit.BagOp, cmd.Actor(), b.Code(), "bag connected", audit.Detail{
		"action":    "CONNECT",
		"sheetId":   s.ID().String(),
		"sheetCode": s.Code(),
	})
}
