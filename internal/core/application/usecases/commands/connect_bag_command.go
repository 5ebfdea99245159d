package commands

import (
	"errors"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/guard"
)

var ErrConnectBagCommandIsNotConstructed = errors.New(
	"ConnectBagCommand must be created via NewConnectBagCommand constructor",
)

// ConnectBagCommand stamps a sheet reference on a bag without touching the
// sheet. Sortation normally goes through AddBagToSheetCommand, which updates
// both sides.
type ConnectBagCommand struct { //nolint:recvcheck //using for validation
	actor   kernel.Actor
	bagCode string
	sheetID kernel.UUID

	guard guard.ConstructorGuard
}

// NewConnectBagCommand validates the actor, the bag code and the sheet id
// and returns every failure joined.
func NewConnectBagCommand(actor kernel.Actor, bagCode string, sheetID kernel.UUID) (ConnectBagCommand, error) {
	code, codeErr := kernel.NormalizeCode(bagCode)
	if err := errors.Join(actor.Validate(), codeErr, sheetID.Validate()); err != nil {
		return ConnectBagCommand{}, err
	}

	return ConnectBagCommand{
		actor:   actor,
		bagCode: code,
		sheetID: sheetID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrConnectBagCommandIsNotConstructed if validation fails.
func (c ConnectBagCommand) Validate() error {
	return c.guard.Validate(ErrConnectBagCommandIsNotConstructed)
}

// Actor returns the operator issuing the command.
func (c ConnectBagCommand) Actor() kernel.Actor { return c.actor }

// BagCode returns the normalized bag code.
func (c ConnectBagCommand) BagCode() string { return c.bagCode }

// SheetID returns the connection sheet the command targets.
func (c ConnectBagCommand) SheetID() kernel.UUID { return c.sheetID }
