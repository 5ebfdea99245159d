package commands

import (
	"errors"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/guard"
)

var ErrSheetCommandIsNotConstructed = errors.New(
	"SheetCommand must be created via NewSheetCommand constructor",
)

// SheetCommand addresses one connection sheet on behalf of an actor.
type SheetCommand struct { //nolint:recvcheck //using for validation
	actor   kernel.Actor
	sheetID kernel.UUID

	guard guard.ConstructorGuard
}

// NewSheetCommand validates the actor and the sheet id.
func NewSheetCommand(actor kernel.Actor, sheetID kernel.UUID) (SheetCommand, error) {
	if err := errors.Join(actor.Validate(), sheetID.Validate()); err != nil {
		return SheetCommand{}, err
	}
	return SheetCommand{actor: actor, sheetID: sheetID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSheetCommandIsNotConstructed if validation fails.
func (c SheetCommand) Validate() error {
	return c.guard.Validate(ErrSheetCommandIsNotConstructed)
}

// Actor returns the operator issuing the command.
func (c SheetCommand) Actor() kernel.Actor { return c.actor }

// SheetID returns the connection sheet the command targets.
func (c SheetCommand) SheetID() kernel.UUID { return c.sheetID }
