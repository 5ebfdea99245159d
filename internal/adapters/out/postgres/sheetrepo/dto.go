// Package sheetrepo persists connection sheets in connection_sheets. A partial
// unique index on (hub_id, destination_id) over active statuses backs the one
// active sheet per route rule.
package sheetrepo

import (
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/sheet"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ActiveRouteIndex is created by postgres.Migrate.
const ActiveRouteIndex = "connection_sheets_active_route_uidx"

type SheetDTO struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Code            string         `gorm:"type:varchar(64);not null;uniqueIndex"`
	HubID           string         `gorm:"type:varchar(64);not null;index"`
	DestinationID   string         `gorm:"type:varchar(64);not null"`
	DestinationType string         `gorm:"type:varchar(16);not null"`
	Status          string         `gorm:"type:varchar(16);not null;index"`
	BagIDs          pq.StringArray `gorm:"type:text[];not null"`
	CreatedBy       string         `gorm:"type:varchar(64);not null"`
	CreatedAt       time.Time      `gorm:"not null"`
	ClosedAt        *time.Time
	TripID          *uuid.UUID `gorm:"type:uuid;index"`
}

func (SheetDTO) TableName() string {
	return "connection_sheets"
}

func fromDomain(s *sheet.Sheet) SheetDTO {
	st := s.State()
	bagIDs := make(pq.StringArray, 0, len(st.BagIDs))
	for _, id := range st.BagIDs {
		bagIDs = append(bagIDs, id.String())
	}

	var tripID *uuid.UUID
	if st.TripID != nil {
		raw := st.TripID.Bytes()
		tripID = &raw
	}

	return SheetDTO{
		ID:              st.ID.Bytes(),
		Code:            st.Code,
		HubID:           st.HubID,
		DestinationID:   st.DestinationID,
		DestinationType: st.DestinationType.String(),
		Status:          st.Status.String(),
		BagIDs:          bagIDs,
		CreatedBy:       st.CreatedBy,
		CreatedAt:       st.CreatedAt,
		ClosedAt:        st.ClosedAt,
		TripID:          tripID,
	}
}

func toDomain(dto SheetDTO) (*sheet.Sheet, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	destinationType, err := sheet.ParseDestinationType(dto.DestinationType)
	if err != nil {
		return nil, err
	}
	status, err := sheet.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	bagIDs := make([]kernel.UUID, 0, len(dto.BagIDs))
	for _, raw := range dto.BagIDs {
		bagID, parseErr := kernel.UUIDFromString(raw)
		if parseErr != nil {
			return nil, parseErr
		}
		bagIDs = append(bagIDs, bagID)
	}

	var tripID *kernel.UUID
	if dto.TripID != nil {
		k, parseErr := kernel.UUIDFromBytes(dto.TripID[:])
		if parseErr != nil {
			return nil, parseErr
		}
		tripID = &k
	}

	return sheet.Restore(sheet.State{
		ID:              id,
		Code:            dto.Code,
		HubID:           dto.HubID,
		DestinationID:   dto.DestinationID,
		DestinationType: destinationType,
		Status:          status,
		BagIDs:          bagIDs,
		CreatedBy:       dto.CreatedBy,
		CreatedAt:       dto.CreatedAt,
		ClosedAt:        dto.ClosedAt,
		TripID:          tripID,
	})
}
