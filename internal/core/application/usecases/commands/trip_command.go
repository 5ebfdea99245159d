package commands

import (
	"errors"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/guard"
)

var ErrTripCommandIsNotConstructed = errors.New(
	"TripCommand must be created via NewTripCommand constructor",
)

// TripCommand addresses one trip on behalf of an actor. It drives every
// status transition that needs no further input: dispatch, arrival,
// unloading, inbound completion, receipt and closing.
type TripCommand struct { //nolint:recvcheck //using for validation
	actor  kernel.Actor
	tripID kernel.UUID

	guard guard.ConstructorGuard
}

// NewTripCommand validates the actor and the trip id.
func NewTripCommand(actor kernel.Actor, tripID kernel.UUID) (TripCommand, error) {
	if err := errors.Join(actor.Validate(), tripID.Validate()); err != nil {
		return TripCommand{}, err
	}
	return TripCommand{actor: actor, tripID: tripID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrTripCommandIsNotConstructed if validation fails.
func (c TripCommand) Validate() error {
	return c.guard.Validate(ErrTripCommandIsNotConstructed)
}

// Actor returns the operator issuing the command.
func (c TripCommand) Actor() kernel.Actor { return c.actor }

// TripID returns the trip the command targets.
func (c TripCommand) TripID() kernel.UUID { return c.tripID }
