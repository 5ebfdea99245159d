package commands

import (
	"errors"
	"strings"

	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/guard"
)

var ErrRecordExceptionCommandIsNotConstructed = errors.New(
	"RecordExceptionCommand must be created via NewRecordExceptionCommand constructor",
)

// RecordExceptionCommand reports a shortage, damage or excess finding on a bag.
// ShipmentID is optional.
type RecordExceptionCommand struct { //nolint:recvcheck //using for validation
	actor         kernel.Actor
	bagID         kernel.UUID
	exceptionType bag.ExceptionType
	shipmentID    string
	description   string

	guard guard.ConstructorGuard
}

// NewRecordExceptionCommand validates the actor, the bag id and the exception
// type. ShipmentID and description are trimmed and may be empty.
func NewRecordExceptionCommand(
	actor kernel.Actor,
	bagID kernel.UUID,
	exceptionType bag.ExceptionType,
	shipmentID string,
	description string,
) (RecordExceptionCommand, error) {
	if err := errors.Join(actor.Validate(), bagID.Validate(), exceptionType.Validate()); err != nil {
		return RecordExceptionCommand{}, err
	}

	return RecordExceptionCommand{
		actor:         actor,
		bagID:         bagID,
		exceptionType: exceptionType,
		shipmentID:    strings.TrimSpace(shipmentID),
		description:   strings.TrimSpace(description),
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRecordExceptionCommandIsNotConstructed if validation fails.
func (c RecordExceptionCommand) Validate() error {
	return c.guard.Validate(ErrRecordExceptionCommandIsNotConstructed)
}

// Actor returns the operator issuing the command.
func (c RecordExceptionCommand) Actor() kernel.Actor { return c.actor }

// BagID returns the bag the command targets.
func (c RecordExceptionCommand) BagID() kernel.UUID { return c.bagID }

// ExceptionType returns shortage, damage or excess.
func (c RecordExceptionCommand) ExceptionType() bag.ExceptionType { return c.exceptionType }

// ShipmentID returns the trimmed shipment identifier.
func (c RecordExceptionCommand) ShipmentID() string { return c.shipmentID }

// Description returns the free-text note, possibly empty.
func (c RecordExceptionCommand) Description() string { return c.description }
