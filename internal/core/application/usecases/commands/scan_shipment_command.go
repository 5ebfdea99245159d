package commands

import (
	"errors"
	"strings"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrScanShipmentCommandIsNotConstructed = errors.New(
	"ScanShipmentCommand must be created via NewScanShipmentCommand constructor",
)

// ScanShipmentCommand puts one shipment into an open bag.
type ScanShipmentCommand struct { //nolint:recvcheck //using for validation
	actor      kernel.Actor
	bagID      kernel.UUID
	shipmentID string

	guard guard.ConstructorGuard
}

// NewScanShipmentCommand creates a command to scan shipmentID into a bag.
// Validates that the actor is set, the bag id is valid and the shipment id
// is not blank.
func NewScanShipmentCommand(actor kernel.Actor, bagID kernel.UUID, shipmentID string) (ScanShipmentCommand, error) {
	cmd := ScanShipmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setBagID(bagID),
		cmd.setShipmentID(shipmentID),
	); err != nil {
		return ScanShipmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrScanShipmentCommandIsNotConstructed if validation fails.
func (c ScanShipmentCommand) Validate() error {
	return c.guard.Validate(ErrScanShipmentCommandIsNotConstructed)
}

// Actor returns the operator issuing the command.
func (c ScanShipmentCommand) Actor() kernel.Actor { return c.actor }

// BagID returns the bag the command targets.
func (c ScanShipmentCommand) BagID() kernel.UUID { return c.bagID }

// ShipmentID returns the trimmed shipment identifier.
func (c ScanShipmentCommand) ShipmentID() string { return c.shipmentID }

func (c *ScanShipmentCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *ScanShipmentCommand) setBagID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.bagID = id
	return nil
}

func (c *ScanShipmentCommand) setShipmentID(shipmentID string) error {
	shipmentID = strings.TrimSpace(shipmentID)
	if shipmentID == "" {
		return errs.NewValueIsRequiredError("shipment id")
	}
	c.shipmentID = shipmentID
	return nil
}
