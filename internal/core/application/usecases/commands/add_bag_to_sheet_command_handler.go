package commands

import (
	"context"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/sheet"
	"custody/internal/core/domain/services"
	"custody/internal/core/ports"
)

// AddBagToSheetCommandHandler links both sides of bag <-> sheet in one unit
// of work.
//
// Checks run in this order: sheet status, bag lookup, bag readiness, existing
// connection.
type AddBagToSheetCommandHandler struct {
	uowFactory UoWFactory
	router     services.BagRouter
	auditor    auditRecorder
}

// NewAddBagToSheetCommandHandler creates a handler that routes bags with
// services.BagRouter and records SHEET_OP entries to auditLog.
func NewAddBagToSheetCommandHandler(uowFactory UoWFactory, auditLog ports.AuditLog) AddBagToSheetCommandHandler {
	return AddBagToSheetCommandHandler{
		uowFactory: uowFactory,
		router:     services.NewBagRouter(),
		auditor:    newAuditRecorder(auditLog),
	}
}

// Handle connects the bag and appends it to the sheet. The first bag moves the
// sheet to IN_PROGRESS. A bag already connected to this sheet on its own side
// is appended without a second connect.
//
// Errors:
//   - errs.ErrObjectNotFound if the sheet or the bag code is unknown
//   - sheet.ErrInvalidState if the sheet is CLOSED or DISPATCHED
//   - sheet.ErrBagNotReady if the bag is not ready for the sheet's hub
//   - bag.ErrAlreadyConnected if the bag is on another sheet
func (h AddBagToSheetCommandHandler) Handle(ctx context.Context, cmd AddBagToSheetCommand) (*sheet.Sheet, error) {
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

	sheetRepo := uow.SheetRepository()
	bagRepo := uow.BagRepository()

	s, err := sheetRepo.Get(ctx, cmd.SheetID())
	if err != nil {
		return nil, err
	}

	if err = s.ValidateAddBag(); err != nil {
		return nil, err
	}

	b, err := bagRepo.GetByCode(ctx, cmd.BagCode())
	if err != nil {
		return nil, err
	}

	if err = h.router.Route(s, b); err != nil {
		return nil, err
	}

	if err = bagRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	if err = sheetRepo.Update(ctx, s); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return s, h.auditor.record(ctx, audit.SheetOp, cmd.Actor(), s.Code(), "bag added to connection sheet", audit.Detail{
		"action":   "ADD_BAG",
		"bagCode":  b.Code(),
		"bagCount": s.BagCount(),
		"status":   s.Status().String(),
	})
}
