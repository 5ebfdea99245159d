package queries

import (
	"errors"
	"strings"
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrGetDispatchableSheetsQueryIsNotConstructed = errors.New(
	"GetDispatchableSheetsQuery must be created via NewGetDispatchableSheetsQuery constructor",
)

// GetDispatchableSheetsQuery lists the CLOSED connection sheets at a hub,
// optionally narrowed to one destination. These are the candidates for an
// outbound dispatch.
type GetDispatchableSheetsQuery struct {
	hubID         string
	destinationID string
	guard         guard.ConstructorGuard
}

// NewGetDispatchableSheetsQuery creates the query. An empty destinationID
// means every destination.
func NewGetDispatchableSheetsQuery(hubID, destinationID string) (GetDispatchableSheetsQuery, error) {
	hubID = strings.TrimSpace(hubID)
	if hubID == "" {
		return GetDispatchableSheetsQuery{}, errs.NewValueIsRequiredError("hub id")
	}
	return GetDispatchableSheetsQuery{
		hubID:         hubID,
		destinationID: strings.TrimSpace(destinationID),
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (q GetDispatchableSheetsQuery) Validate() error {
	return q.guard.Validate(ErrGetDispatchableSheetsQueryIsNotConstructed)
}

func (q GetDispatchableSheetsQuery) HubID() string         { return q.hubID }
func (q GetDispatchableSheetsQuery) DestinationID() string { return q.destinationID }

type DispatchableSheet struct {
	ID              kernel.UUID
	Code            string
	HubID           string
	DestinationID   string
	DestinationType string
	BagCount        int
	ClosedAt        *time.Time
}
