package commands

import (
	"errors"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/guard"
)

var ErrValidateInboundBagCommandIsNotConstructed = errors.New(
	"ValidateInboundBagCommand must be created via NewValidateInboundBagCommand constructor",
)

// ValidateInboundBagCommand checks a bag arriving at the actor's hub against
// the seal presented on the physical bag.
type ValidateInboundBagCommand struct { //nolint:recvcheck //using for validation
	actor         kernel.Actor
	bagCode       string
	presentedSeal string

	guard guard.ConstructorGuard
}

// NewValidateInboundBagCommand normalizes the bag code. The presented seal is
// kept as entered; an empty seal is rejected later as a mismatch.
func NewValidateInboundBagCommand(actor kernel.Actor, bagCode, presentedSeal string) (ValidateInboundBagCommand, error) {
	code, codeErr := kernel.NormalizeCode(bagCode)
	if err := errors.Join(actor.Validate(), codeErr); err != nil {
		return ValidateInboundBagCommand{}, err
	}

	return ValidateInboundBagCommand{
		actor:         actor,
		bagCode:       code,
		presentedSeal: presentedSeal,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrValidateInboundBagCommandIsNotConstructed if validation fails.
func (c ValidateInboundBagCommand) Validate() error {
	return c.guard.Validate(ErrValidateInboundBagCommandIsNotConstructed)
}

// Actor returns the operator issuing the command.
func (c ValidateInboundBagCommand) Actor() kernel.Actor { return c.actor }

// BagCode returns the normalized bag code.
func (c ValidateInboundBagCommand) BagCode() string { return c.bagCode }

// PresentedSeal returns the seal read off the physical bag.
func (c ValidateInboundBagCommand) PresentedSeal() string { return c.presentedSeal }
