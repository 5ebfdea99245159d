package commands

import (
	"errors"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/guard"
)

var ErrAddBagToTripCommandIsNotConstructed = errors.New(
	"AddBagToTripCommand must be created via NewAddBagToTripCommand constructor",
)

// AddBagToTripCommand loads one bag onto a manually loaded trip.
type AddBagToTripCommand struct { //nolint:recvcheck //using for validation
	actor   kernel.Actor
	tripID  kernel.UUID
	bagCode string

	guard guard.ConstructorGuard
}

// NewAddBagToTripCommand creates a command to load one bag onto a trip.
// The bag code is normalized to upper case.
func NewAddBagToTripCommand(actor kernel.Actor, tripID kernel.UUID, bagCode string) (AddBagToTripCommand, error) {
	code, codeErr := kernel.NormalizeCode(bagCode)
	if err := errors.Join(actor.Validate(), tripID.Validate(), codeErr); err != nil {
		return AddBagToTripCommand{}, err
	}

	return AddBagToTripCommand{
		actor:   actor,
		tripID:  tripID,
		bagCode: code,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AddBagToTripCommand) Validate() error {
	return c.guard.Validate(ErrAddBagToTripCommandIsNotConstructed)
}

// Actor returns the operator issuing the command.
func (c AddBagToTripCommand) Actor() kernel.Actor { return c.actor }

// TripID returns the trip the command targets.
func (c AddBagToTripCommand) TripID() kernel.UUID { return c.tripID }

// BagCode returns the normalized bag code.
func (c AddBagToTripCommand) BagCode() string { return c.bagCode }
