package commands

import (
	"errors"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/guard"
)

var ErrAddBagToSheetCommandIsNotConstructed = errors.New(
	"AddBagToSheetCommand must be created via NewAddBagToSheetCommand constructor",
)

// AddBagToSheetCommand routes a scanned bag onto a connection sheet.
type AddBagToSheetCommand struct { //nolint:recvcheck //using for validation
	actor   kernel.Actor
	sheetID kernel.UUID
	bagCode string

	guard guard.ConstructorGuard
}

// NewAddBagToSheetCommand creates a command to route a bag onto a sheet.
// The bag code is normalized to upper case. Returns the joined validation
// errors of actor, sheet id and bag code.
func NewAddBagToSheetCommand(actor kernel.Actor, sheetID kernel.UUID, bagCode string) (AddBagToSheetCommand, error) {
	code, codeErr := kernel.NormalizeCode(bagCode)
	if err := errors.Join(actor.Validate(), sheetID.Validate(), codeErr); err != nil {
		return AddBagToSheetCommand{}, err
	}

	return AddBagToSheetCommand{
		actor:   actor,
		sheetID: sheetID,
		bagCode: code,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAddBagToSheetCommandIsNotConstructed if validation fails.
func (c AddBagToSheetCommand) Validate() error {
	return c.guard.Validate(ErrAddBagToSheetCommandIsNotConstructed)
}

// Actor returns the operator issuing the command.
func (c AddBagToSheetCommand) Actor() kernel.Actor { return c.actor }

// SheetID returns the connection sheet the command targets.
func (c AddBagToSheetCommand) SheetID() kernel.UUID { return c.sheetID }

// BagCode returns the normalized bag code.
func (c AddBagToSheetCommand) BagCode() string { return c.bagCode }
