package commands

import (
	"errors"
	"strings"

	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrCreateBagCommandIsNotConstructed = errors.New(
	"CreateBagCommand must be created via NewCreateBagCommand constructor",
)

// CreateBagCommand opens a new bag at a hub for one destination.
//
// Example:
//
//	cmd, err := NewCreateBagCommand(actor, "H1", bag.Outbound, "H2")
//	b, err := handler.Handle(ctx, cmd)
type CreateBagCommand struct { //nolint:recvcheck //using for validation
	actor         kernel.Actor
	hubID         string
	bagType       bag.Type
	destinationID string

	guard guard.ConstructorGuard
}

// NewCreateBagCommand creates a command to open a bag at hubID.
// Validates the actor, both entity ids and the bag type.
// Returns an error if any validation fails.
func NewCreateBagCommand(actor kernel.Actor, hubID string, bagType bag.Type, destinationID string) (CreateBagCommand, error) {
	cmd := CreateBagCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setHubID(hubID),
		cmd.setBagType(bagType),
		cmd.setDestinationID(destinationID),
	); err != nil {
		return CreateBagCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateBagCommandIsNotConstructed if validation fails.
func (c CreateBagCommand) Validate() error {
	return c.guard.Validate(ErrCreateBagCommandIsNotConstructed)
}

// Actor returns the operator issuing the command.
func (c CreateBagCommand) Actor() kernel.Actor { return c.actor }

// HubID returns the hub the command runs at.
func (c CreateBagCommand) HubID() string { return c.hubID }

// BagType returns the kind of bag to open.
func (c CreateBagCommand) BagType() bag.Type { return c.bagType }

// DestinationID returns the next hub or delivery center.
func (c CreateBagCommand) DestinationID() string { return c.destinationID }

func (c *CreateBagCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *CreateBagCommand) setHubID(hubID string) error {
	hubID = strings.TrimSpace(hubID)
	if hubID == "" {
		return errs.NewValueIsRequiredError("hub id")
	}
	c.hubID = hubID
	return nil
}

func (c *CreateBagCommand) setBagType(t bag.Type) error {
	if err := t.Validate(); err != nil {
		return err
	}
	c.bagType = t
	return nil
}

func (c *CreateBagCommand) setDestinationID(destinationID string) error {
	destinationID = strings.TrimSpace(destinationID)
	if destinationID == "" {
		return errs.NewValueIsRequiredError("destination id")
	}
	c.destinationID = destinationID
	return nil
}
