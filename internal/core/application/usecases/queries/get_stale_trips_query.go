package queries

import (
	"errors"
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrGetStaleTripsQueryIsNotConstructed = errors.New(
	"GetStaleTripsQuery must be created via NewGetStaleTripsQuery constructor",
)

// GetStaleTripsQuery lists IN_TRANSIT trips dispatched before the cutoff.
type GetStaleTripsQuery struct {
	dispatchedBefore time.Time
	guard            guard.ConstructorGuard
}

func NewGetStaleTripsQuery(dispatchedBefore time.Time) (GetStaleTripsQuery, error) {
	if dispatchedBefore.IsZero() {
		return GetStaleTripsQuery{}, errs.NewValueIsRequiredError("dispatched before")
	}
	return GetStaleTripsQuery{dispatchedBefore: dispatchedBefore, guard: guard.NewConstructorGuard()}, nil
}

func (q GetStaleTripsQuery) Validate() error {
	return q.guard.Validate(ErrGetStaleTripsQueryIsNotConstructed)
}

func (q GetStaleTripsQuery) DispatchedBefore() time.Time {
	return q.dispatchedBefore
}

type StaleTrip struct {
	ID                  kernel.UUID
	Code                string
	OriginEntityID      string
	DestinationEntityID string
	VehicleNumber       string
	DriverName          string
	DriverPhone         string
	BagCount            int
	DispatchedAt        time.Time
}
