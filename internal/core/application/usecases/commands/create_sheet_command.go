package commands

import (
	"errors"
	"strings"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/sheet"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrCreateSheetCommandIsNotConstructed = errors.New(
	"CreateSheetCommand must be created via NewCreateSheetCommand constructor",
)

// CreateSheetCommand opens the connection sheet for a route out of a hub.
type CreateSheetCommand struct { //nolint:recvcheck //using for validation
	actor           kernel.Actor
	hubID           string
	destinationID   string
	destinationType sheet.DestinationType

	guard guard.ConstructorGuard
}

// NewCreateSheetCommand requires a hub id, a destination id and a known
// destination type. Ids are trimmed.
func NewCreateSheetCommand(
	actor kernel.Actor,
	hubID string,
	destinationID string,
	destinationType sheet.DestinationType,
) (CreateSheetCommand, error) {
	hubID = strings.TrimSpace(hubID)
	destinationID = strings.TrimSpace(destinationID)

	var errList []error
	errList = append(errList, actor.Validate(), destinationType.Validate())
	if hubID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("hub id"))
	}
	if destinationID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("destination id"))
	}
	if err := errors.Join(errList...); err != nil {
		return CreateSheetCommand{}, err
	}

	return CreateSheetCommand{
		actor:           actor,
		hubID:           hubID,
		destinationID:   destinationID,
		destinationType: destinationType,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateSheetCommand) Validate() error {
	return c.guard.Validate(ErrCreateSheetCommandIsNotConstructed)
}

// Actor returns the operator issuing the command.
func (c CreateSheetCommand) Actor() kernel.Actor { return c.actor }

// HubID returns the hub the command runs at.
func (c CreateSheetCommand) HubID() string { return c.hubID }

// DestinationID returns the next hub or delivery center.
func (c CreateSheetCommand) DestinationID() string { return c.destinationID }

// DestinationType returns what kind of facility the sheet feeds.
func (c CreateSheetCommand) DestinationType() sheet.DestinationType { return c.destinationType }
