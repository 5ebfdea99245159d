package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/sheet"
	"custody/internal/core/ports"
	"custody/internal/pkg/errs"
)

// CreateSheetCommandHandler refuses a second active sheet for a route. The
// lookup and insert share a unit of work and the store's route index rejects
// a racing insert.
type CreateSheetCommandHandler struct {
	uowFactory UoWFactory
	auditor    auditRecorder
}

func NewCreateSheetCommandHandler(uowFactory UoWFactory, auditLog ports.AuditLog) CreateSheetCommandHandler {
	return CreateSheetCommandHandler{
		uowFactory: uowFactory,
		auditor:    newAuditRecorder(auditLog),
	}
}

// Handle creates the sheet in status CREATED. It fails with
// sheet.ErrDuplicateActiveRoute when the route already has a CREATED or
// IN_PROGRESS sheet at this hub.
func (h CreateSheetCommandHandler) Handle(ctx context.Context, cmd CreateSheetCommand) (*sheet.Sheet, error) {
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

	active, err := sheetRepo.FindActiveByRoute(ctx, cmd.HubID(), cmd.DestinationID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
	case err != nil:
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %s -> %s is served by %s",
			sheet.ErrDuplicateActiveRoute, cmd.HubID(), cmd.DestinationID(), active.Code())
	}

	s, err := sheet.NewSheet(
		kernel.NewUUID(),
		kernel.NewCode(kernel.SheetCodePrefix, cmd.HubID()),
		cmd.HubID(),
		cmd.DestinationID(),
		cmd.DestinationType(),
		cmd.Actor().ID(),
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	if err = sheetRepo.Add(ctx, s); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return s, h.auditor.record(ctx, audit.SheetOp, cmd.Actor(), s.Code(), "connection sheet created", audit.Detail{
		"action":          "CREATE",
		"hubId":           s.HubID(),
		"destinationId":   s.DestinationID(),
		"destinationType": s.DestinationType().String(),
	})
}
