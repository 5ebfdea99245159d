package commands

import (
	"context"
	"time"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/ports"
)

// RecordExceptionResult carries the updated bag and the appended record.
type RecordExceptionResult struct {
	Bag       *bag.Bag
	Exception *bag.Exception
}

// RecordExceptionCommandHandler appends a BagException and applies it to the
// bag's counters and status in the same unit of work.
type RecordExceptionCommandHandler struct {
	uowFactory BagUoWFactory
	auditor    auditRecorder
}

// NewRecordExceptionCommandHandler creates a handler that stores the exception
// and the bag in one BagUoW.
func NewRecordExceptionCommandHandler(uowFactory BagUoWFactory, auditLog ports.AuditLog) RecordExceptionCommandHandler {
	return RecordExceptionCommandHandler{
		uowFactory: uowFactory,
		auditor:    newAuditRecorder(auditLog),
	}
}

// Handle returns errs.ErrObjectNotFound for an unknown bag. A bag that is
// already terminal keeps its first marker and only its counters grow.
func (h RecordExceptionCommandHandler) Handle(ctx context.Context, cmd RecordExceptionCommand) (*RecordExceptionResult, error) {
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

	if err = b.RecordException(cmd.ExceptionType(), cmd.ShipmentID()); err != nil {
		return nil, err
	}

	exception, err := bag.NewException(
		kernel.NewUUID(),
		b.ID(),
		b.TripID(),
		cmd.ExceptionType(),
		cmd.ShipmentID(),
		cmd.Description(),
		cmd.Actor().ID(),
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	if err = uow.ExceptionRepository().Add(ctx, exception); err != nil {
		return nil, err
	}

	if err = bagRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	detail := audit.Detail{
		"exceptionId":   exception.ID().String(),
		"type":          exception.Type().String(),
		"description":   exception.Description(),
		"status":        b.Status().String(),
		"shortageCount": b.ShortageCount(),
		"damageCount":   b.DamageCount(),
	}
	if exception.ShipmentID() != "" {
		detail["shipmentId"] = exception.ShipmentID()
	}

	result := &RecordExceptionResult{Bag: b, Exception: exception}
	return result, h.auditor.record(ctx, audit.BagException, cmd.Actor(), b.Code(), "bag exception recorded", detail)
}
