package commands

import (
	"context"
	"time"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trip"
	"custody/internal/core/domain/services"
	"custody/internal/core/ports"
)

// CreateAndDispatchOutboundCommandHandler is the hard-mode dispatch path: the
// trip is created IN_TRANSIT, every selected sheet becomes DISPATCHED and every
// bag DISPATCHED with the trip reference, all in one unit of work. Any failure
// rolls back the whole dispatch.
type CreateAndDispatchOutboundCommandHandler struct {
	uowFactory UoWFactory
	planner    services.OutboundPlanner
	auditor    auditRecorder
}

// NewCreateAndDispatchOutboundCommandHandler creates the handler with a fresh
// services.OutboundPlanner.
func NewCreateAndDispatchOutboundCommandHandler(
	uowFactory UoWFactory,
	auditLog ports.AuditLog,
) CreateAndDispatchOutboundCommandHandler {
	return CreateAndDispatchOutboundCommandHandler{
		uowFactory: uowFactory,
		planner:    services.NewOutboundPlanner(),
		auditor:    newAuditRecorder(auditLog),
	}
}

// Handle validates the request, loads the selected sheets and their bags and
// lets the planner build the trip. Validation runs in this order:
//
//   - trip.ErrNoSheetsSelected for an empty selection
//   - trip.ErrIncompleteManifest when vehicle or driver details are missing
//   - services.ErrSheetNotFound when a selected sheet does not exist
//   - services.ErrRoutingConflict when sheets disagree on the destination
//   - services.ErrSheetNotClosed when a sheet is still open
//
// Exception-marked bags are left behind and listed in the audit entry.
func (h CreateAndDispatchOutboundCommandHandler) Handle(
	ctx context.Context,
	cmd CreateAndDispatchOutboundCommand,
) (*trip.Trip, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.planner.ValidateRequest(cmd.SheetIDs(), cmd.Manifest()); err != nil {
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

	sheets, err := sheetRepo.GetMany(ctx, cmd.SheetIDs())
	if err != nil {
		return nil, err
	}

	bags, err := bagRepo.GetMany(ctx, h.planner.BagIDs(sheets))
	if err != nil {
		return nil, err
	}

	plan, err := h.planner.Plan(services.OutboundRequest{
		TripID:        kernel.NewUUID(),
		Code:          kernel.NewCode(kernel.TripCodePrefix, cmd.HubID()),
		HubID:         cmd.HubID(),
		DestinationID: cmd.DestinationID(),
		SheetIDs:      cmd.SheetIDs(),
		Manifest:      cmd.Manifest(),
		CreatedBy:     cmd.Actor().ID(),
		At:            time.Now().UTC(),
	}, sheets, bags)
	if err != nil {
		return nil, err
	}

	if err = uow.TripRepository().Add(ctx, plan.Trip); err != nil {
		return nil, err
	}

	for _, b := range plan.Bags {
		if err = bagRepo.Update(ctx, b); err != nil {
			return nil, err
		}
	}

	for _, s := range plan.Sheets {
		if err = sheetRepo.Update(ctx, s); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	m := plan.Trip.Manifest()
	detail := audit.Detail{
		"vehicleNumber": m.VehicleNumber(),
		"vehicleType":   m.VehicleType(),
		"driverName":    m.DriverName(),
		"driverPhone":   m.DriverPhone(),
		"destinationId": plan.Trip.DestinationEntityID(),
		"sheetCount":    len(plan.Sheets),
		"bagCount":      len(plan.Bags),
	}
	if len(plan.LeftBehind) > 0 {
		codes := make([]string, 0, len(plan.LeftBehind))
		for _, b := range plan.LeftBehind {
			codes = append(codes, b.Code())
		}
		detail["leftBehind"] = codes
	}

	return plan.Trip, h.auditor.record(ctx, audit.TripDispatch, cmd.Actor(), plan.Trip.Code(),
		"outbound trip dispatched", detail)
}
