package commands

import (
	"errors"
	"strings"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trip"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrCreateAndDispatchOutboundCommandIsNotConstructed = errors.New(
	"CreateAndDispatchOutboundCommand must be created via NewCreateAndDispatchOutboundCommand constructor",
)

// CreateAndDispatchOutboundCommand consolidates closed sheets into a
// hub-to-hub trip. Empty sheet lists and incomplete manifests are accepted
// here and rejected by the handler with their named errors.
type CreateAndDispatchOutboundCommand struct { //nolint:recvcheck //using for validation
	actor         kernel.Actor
	hubID         string
	destinationID string
	sheetIDs      []kernel.UUID
	manifest      trip.Manifest

	guard guard.ConstructorGuard
}

// NewCreateAndDispatchOutboundCommand requires the hub and destination ids and
// well-formed sheet ids. The sheet ids are copied.
func NewCreateAndDispatchOutboundCommand(
	actor kernel.Actor,
	hubID string,
	destinationID string,
	sheetIDs []kernel.UUID,
	manifest trip.Manifest,
) (CreateAndDispatchOutboundCommand, error) {
	hubID = strings.TrimSpace(hubID)
	destinationID = strings.TrimSpace(destinationID)

	errList := []error{actor.Validate()}
	if hubID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("origin hub id"))
	}
	if destinationID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("destination id"))
	}
	for _, id := range sheetIDs {
		errList = append(errList, id.Validate())
	}
	if err := errors.Join(errList...); err != nil {
		return CreateAndDispatchOutboundCommand{}, err
	}

	return CreateAndDispatchOutboundCommand{
		actor:         actor,
		hubID:         hubID,
		destinationID: destinationID,
		sheetIDs:      append([]kernel.UUID(nil), sheetIDs...),
		manifest:      manifest,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateAndDispatchOutboundCommandIsNotConstructed if validation fails.
func (c CreateAndDispatchOutboundCommand) Validate() error {
	return c.guard.Validate(ErrCreateAndDispatchOutboundCommandIsNotConstructed)
}

// Actor returns the operator issuing the command.
func (c CreateAndDispatchOutboundCommand) Actor() kernel.Actor { return c.actor }

// HubID returns the hub the command runs at.
func (c CreateAndDispatchOutboundCommand) HubID() string { return c.hubID }

// DestinationID returns the next hub or delivery center.
func (c CreateAndDispatchOutboundCommand) DestinationID() string { return c.destinationID }

// SheetIDs returns a copy of the selected sheet ids.
func (c CreateAndDispatchOutboundCommand) SheetIDs() []kernel.UUID {
	return append([]kernel.UUID(nil), c.sheetIDs...)
}

// Manifest returns the vehicle and driver details.
func (c CreateAndDispatchOutboundCommand) Manifest() trip.Manifest { return c.manifest }
