package commands

import (
	"context"
	"time"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/sheet"
	"custody/internal/core/ports"
)

// CloseSheetCommandHandler freezes a non-empty sheet so it can be dispatched.
type CloseSheetCommandHandler struct {
	uowFactory UoWFactory
	auditor    auditRecorder
}

func NewCloseSheetCommandHandler(uowFactory UoWFactory, auditLog ports.AuditLog) CloseSheetCommandHandler {
	return CloseSheetCommandHandler{
		uowFactory: uowFactory,
		auditor:    newAuditRecorder(auditLog),
	}
}

// Handle returns sheet.ErrEmptySheet for a sheet without bags and
// sheet.ErrInvalidState once the sheet is CLOSED or DISPATCHED.
func (h CloseSheetCommandHandler) Handle(ctx context.Context, cmd SheetCommand) (*sheet.Sheet, error) {
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

	s, err := sheetRepo.Get(ctx, cmd.SheetID())
	if err != nil {
		return nil, err
	}

	if err = s.Close(time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = sheetRepo.Update(ctx, s); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return s, h.auditor.record(ctx, audit.SheetOp, cmd.Actor(), s.Code(), "connection sheet closed", audit.Detail{
		"action":   "CLOSE",
		"bagCount": s.BagCount(),
	})
}
