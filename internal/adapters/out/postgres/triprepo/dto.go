// Package triprepo persists trips together with their vehicle and driver
// manifest.
package triprepo

import (
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trip"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type TripDTO struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Code                string         `gorm:"type:varchar(64);not null;uniqueIndex"`
	OriginEntityID      string         `gorm:"type:varchar(64);not null;index"`
	DestinationEntityID string         `gorm:"type:varchar(64);not null;index"`
	Source              string         `gorm:"type:varchar(24);not null"`
	Manifest            ManifestDTO    `gorm:"embedded;embeddedPrefix:manifest_"`
	Status              string         `gorm:"type:varchar(24);not null;index"`
	BagIDs              pq.StringArray `gorm:"type:text[];not null"`
	SheetIDs            pq.StringArray `gorm:"type:text[];not null"`
	CreatedBy           string         `gorm:"type:varchar(64);not null"`
	CreatedAt           time.Time      `gorm:"not null"`
	DispatchedAt        *time.Time     `gorm:"index"`
	ArrivedAt           *time.Time
	CompletedAt         *time.Time
}

func (TripDTO) TableName() string {
	return "trips"
}

type ManifestDTO struct {
	VehicleNumber string `gorm:"type:varchar(32)"`
	VehicleType   string `gorm:"type:varchar(32)"`
	DriverName    string `gorm:"type:varchar(128)"`
	DriverPhone   string `gorm:"type:varchar(32)"`
}

func fromDomain(t *trip.Trip) TripDTO {
	st := t.State()
	return TripDTO{
		ID:                  st.ID.Bytes(),
		Code:                st.Code,
		OriginEntityID:      st.OriginEntityID,
		DestinationEntityID: st.DestinationEntityID,
		Source:              st.Source.String(),
		Manifest: ManifestDTO{
			VehicleNumber: st.Manifest.VehicleNumber(),
			VehicleType:   st.Manifest.VehicleType(),
			DriverName:    st.Manifest.DriverName(),
			DriverPhone:   st.Manifest.DriverPhone(),
		},
		Status:       st.Status.String(),
		BagIDs:       toStrings(st.BagIDs),
		SheetIDs:     toStrings(st.SheetIDs),
		CreatedBy:    st.CreatedBy,
		CreatedAt:    st.CreatedAt,
		DispatchedAt: st.DispatchedAt,
		ArrivedAt:    st.ArrivedAt,
		CompletedAt:  st.CompletedAt,
	}
}

func toDomain(dto TripDTO) (*trip.Trip, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	source, err := trip.ParseSource(dto.Source)
	if err != nil {
		return nil, err
	}
	status, err := trip.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	bagIDs, err := toUUIDs(dto.BagIDs)
	if err != nil {
		return nil, err
	}
	sheetIDs, err := toUUIDs(dto.SheetIDs)
	if err != nil {
		return nil, err
	}

	return trip.Restore(trip.State{
		ID:                  id,
		Code:                dto.Code,
		OriginEntityID:      dto.OriginEntityID,
		DestinationEntityID: dto.DestinationEntityID,
		Source:              source,
		Manifest: trip.NewManifest(
			dto.Manifest.VehicleNumber,
			dto.Manifest.VehicleType,
			dto.Manifest.DriverName,
			dto.Manifest.DriverPhone,
		),
		Status:       status,
		BagIDs:       bagIDs,
		SheetIDs:     sheetIDs,
		CreatedBy:    dto.CreatedBy,
		CreatedAt:    dto.CreatedAt,
		DispatchedAt: dto.DispatchedAt,
		ArrivedAt:    dto.ArrivedAt,
		CompletedAt:  dto.CompletedAt,
	})
}

func toStrings(ids []kernel.UUID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func toUUIDs(raw []string) ([]kernel.UUID, error) {
	out := make([]kernel.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := kernel.UUIDFromString(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
