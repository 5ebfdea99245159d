package queries

import (
	"context"
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trip"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetStaleTripsQueryHandler struct {
	db *gorm.DB
}

func NewGetStaleTripsQueryHandler(db *gorm.DB) GetStaleTripsQueryHandler {
	return GetStaleTripsQueryHandler{db: db}
}

// Handle returns the trips longest on the road first.
func (h GetStaleTripsQueryHandler) Handle(ctx context.Context, query GetStaleTripsQuery) ([]StaleTrip, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	trips := make([]StaleTrip, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			code,
			origin_entity_id,
			destination_entity_id,
			manifest_vehicle_number,
			manifest_driver_name,
			manifest_driver_phone,
			cardinality(bag_ids),
			dispatched_at
		FROM trips
		WHERE status = ?
		  AND dispatched_at < ?
		ORDER BY dispatched_at, code
	`, trip.InTransit.String(), query.DispatchedBefore()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp StaleTrip
		var id uuid.UUID
		var dispatchedAt time.Time

		err = rows.Scan(
			&id,
			&resp.Code,
			&resp.OriginEntityID,
			&resp.DestinationEntityID,
			&resp.VehicleNumber,
			&resp.DriverName,
			&resp.DriverPhone,
			&resp.BagCount,
			&dispatchedAt,
		)
		if err != nil {
			return nil, err
		}

		tripID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = tripID
		resp.DispatchedAt = dispatchedAt
		trips = append(trips, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return trips, nil
}
