package ports

import (
	"context"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trip"
)

// TripRepository defines the persistence contract for trips.
type TripRepository interface {
	Add(ctx context.Context, aggregate *trip.Trip) error
	Update(ctx context.Context, aggregate *trip.Trip) error
	Get(ctx context.Context, id kernel.UUID) (*trip.Trip, error)
}
