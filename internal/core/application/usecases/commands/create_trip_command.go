package commands

import (
	"errors"
	"strings"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trip"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrCreateTripCommandIsNotConstructed = errors.New(
	"CreateTripCommand must be created via NewCreateTripCommand constructor",
)

// CreateTripCommand starts an empty trip for manual point-to-point loading.
// The manifest may be partially filled.
type CreateTripCommand struct { //nolint:recvcheck //using for validation
	actor         kernel.Actor
	originID      string
	destinationID string
	source        trip.Source
	manifest      trip.Manifest

	guard guard.ConstructorGuard
}

// NewCreateTripCommand creates a command for an empty manual trip.
// Origin and destination are required; the manifest is checked only when the
// trip is dispatched.
func NewCreateTripCommand(
	actor kernel.Actor,
	originID string,
	destinationID string,
	source trip.Source,
	manifest trip.Manifest,
) (CreateTripCommand, error) {
	originID = strings.TrimSpace(originID)
	destinationID = strings.TrimSpace(destinationID)

	errList := []error{actor.Validate(), source.Validate()}
	if originID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("origin entity id"))
	}
	if destinationID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("destination entity id"))
	}
	if err := errors.Join(errList...); err != nil {
		return CreateTripCommand{}, err
	}

	return CreateTripCommand{
		actor:         actor,
		originID:      originID,
		destinationID: destinationID,
		source:        source,
		manifest:      manifest,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateTripCommandIsNotConstructed if validation fails.
func (c CreateTripCommand) Validate() error {
	return c.guard.Validate(ErrCreateTripCommandIsNotConstructed)
}

// Actor returns the operator issuing the command.
func (c CreateTripCommand) Actor() kernel.Actor { return c.actor }

// OriginID returns the entity the trip leaves from.
func (c CreateTripCommand) OriginID() string { return c.originID }

// DestinationID returns the next hub or delivery center.
func (c CreateTripCommand) DestinationID() string { return c.destinationID }

// Source returns who operates the vehicle.
func (c CreateTripCommand) Source() trip.Source { return c.source }

// Manifest returns the vehicle and driver details.
func (c CreateTripCommand) Manifest() trip.Manifest { return c.manifest }
