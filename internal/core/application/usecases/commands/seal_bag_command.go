package commands

import (
	"errors"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/guard"
)

var ErrSealBagCommandIsNotConstructed = errors.New(
	"SealBagCommand must be created via NewSealBagCommand constructor",
)

// SealBagCommand applies a tamper-evident seal. The seal length is checked by
// the bag against the configured minimum, not here.
type SealBagCommand struct { //nolint:recvcheck //using for validation
	actor      kernel.Actor
	bagID      kernel.UUID
	sealNumber string

	guard guard.ConstructorGuard
}

// NewSealBagCommand validates the actor and the bag id.
func NewSealBagCommand(actor kernel.Actor, bagID kernel.UUID, sealNumber string) (SealBagCommand, error) {
	if err := errors.Join(actor.Validate(), bagID.Validate()); err != nil {
		return SealBagCommand{}, err
	}

	return SealBagCommand{
		actor:      actor,
		bagID:      bagID,
		sealNumber: sealNumber,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SealBagCommand) Validate() error {
	return c.guard.Validate(ErrSealBagCommandIsNotConstructed)
}

// Actor returns the operator issuing the command.
func (c SealBagCommand) Actor() kernel.Actor { return c.actor }

// BagID returns the bag the command targets.
func (c SealBagCommand) BagID() kernel.UUID { return c.bagID }

// SealNumber returns the seal as entered by the operator.
func (c SealBagCommand) SealNumber() string { return c.sealNumber }
