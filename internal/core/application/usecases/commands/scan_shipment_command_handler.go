package commands

import (
	"context"
	"errors"
	"fmt"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/bag"
	"custody/internal/core/ports"
	"custody/internal/pkg/errs"
)

// ScanShipmentCommandHandler admits a registered shipment into an open bag.
//
// Checks run in this order: bag status, shipment registry lookup, custody in
// another open bag. The shipment -> open bag lookup and the bag write happen
// in one unit of work; the repository's unique index catches a concurrent scan
// of the same shipment into a different bag.
type ScanShipmentCommandHandler struct {
	uowFactory BagUoWFactory
	registry   ports.ShipmentRegistry
	auditor    auditRecorder
}

// NewScanShipmentCommandHandler creates the handler. registry answers whether a
// shipment exists at all.
func NewScanShipmentCommandHandler(
	uowFactory BagUoWFactory,
	registry ports.ShipmentRegistry,
	auditLog ports.AuditLog,
) ScanShipmentCommandHandler {
	return ScanShipmentCommandHandler{
		uowFactory: uowFactory,
		registry:   registry,
		auditor:    newAuditRecorder(auditLog),
	}
}

// Handle adds the shipment and returns the bag.
//
// Errors:
//   - bag.ErrInvalidState unless the bag is CREATED or OPENED
//   - errs.ErrObjectNotFound if the bag or the shipment is unknown
//   - bag.ErrDuplicateCustody if another open bag holds the shipment
//
// Scanning a shipment the bag already holds is a no-op without an audit entry.
func (h ScanShipmentCommandHandler) Handle(ctx context.Context, cmd ScanShipmentCommand) (*bag.Bag, error) {
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

	if err = b.ValidateScan(); err != nil {
		return nil, err
	}

	if _, err = h.registry.FindByAwb(ctx, cmd.ShipmentID()); err != nil {
		return nil, err
	}

	holder, err := bagRepo.FindOpenByShipment(ctx, cmd.ShipmentID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
	case err != nil:
		return nil, err
	case !holder.ID().IsEqual(b.ID()):
		return nil, fmt.Errorf("%w: %s is in bag %s", bag.ErrDuplicateCustody, cmd.ShipmentID(), holder.Code())
	}

	added, err := b.ScanShipment(cmd.ShipmentID())
	if err != nil {
		return nil, err
	}
	if !added {
		return b, nil
	}

	if err = bagRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return b, h.auditor.record(ctx, audit.BagOp, cmd.Actor(), b.Code(), "shipment scanned", audit.Detail{
		"action":        "SCAN",
		"shipmentId":    cmd.ShipmentID(),
		"manifestCount": b.ManifestCount(),
	})
}
