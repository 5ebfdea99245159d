// Package bagrepo persists bag aggregates. Besides the bags table it keeps
// bag_custody, one row per shipment inside a CREATED or OPENED bag, whose
// primary key makes a second open bag for the same shipment impossible.
package bagrepo

import (
	"time"

	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// BagDTO is the row of the bags table.
type BagDTO struct {
	ID                       uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Code                     string         `gorm:"type:varchar(64);not null;uniqueIndex:bags_code_key"`
	Type                     string         `gorm:"type:varchar(16);not null"`
	Status                   string         `gorm:"type:varchar(24);not null;index"`
	OriginEntityID           string         `gorm:"type:varchar(64);not null"`
	DestinationEntityID      string         `gorm:"type:varchar(64);not null"`
	CurrentLocationID        string         `gorm:"type:varchar(64);not null"`
	ManifestCount            int            `gorm:"type:int;not null"`
	ActualCount              int            `gorm:"type:int;not null"`
	ShortageCount            int            `gorm:"type:int;not null"`
	DamageCount              int            `gorm:"type:int;not null"`
	ShipmentIDs              pq.StringArray `gorm:"type:text[];not null"`
	SealNumber               string         `gorm:"type:varchar(64)"`
	SealedAt                 *time.Time
	CurrentConnectionSheetID *uuid.UUID `gorm:"type:uuid;index"`
	CurrentTripID            *uuid.UUID `gorm:"type:uuid;index"`
	CreatedBy                string     `gorm:"type:varchar(64);not null"`
	CreatedAt                time.Time  `gorm:"not null"`
}

func (BagDTO) TableName() string {
	return "bags"
}

// CustodyDTO indexes a shipment to the open bag holding it.
type CustodyDTO struct {
	ShipmentID string    `gorm:"type:varchar(64);primaryKey"`
	BagID      uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (CustodyDTO) TableName() string {
	return "bag_custody"
}

// custodyKey is the primary key constraint of bag_custody.
const custodyKey = "bag_custody_pkey"

func fromDomain(b *bag.Bag) BagDTO {
	st := b.State()
	shipments := st.ShipmentIDs
	if shipments == nil {
		shipments = []string{}
	}
	return BagDTO{
		ID:                       st.ID.Bytes(),
		Code:                     st.Code,
		Type:                     st.Type.String(),
		Status:                   st.Status.String(),
		OriginEntityID:           st.OriginEntityID,
		DestinationEntityID:      st.DestinationEntityID,
		CurrentLocationID:        st.CurrentLocationID,
		ManifestCount:            st.ManifestCount,
		ActualCount:              st.ActualCount,
		ShortageCount:            st.ShortageCount,
		DamageCount:              st.DamageCount,
		ShipmentIDs:              shipments,
		SealNumber:               st.SealNumber,
		SealedAt:                 st.SealedAt,
		CurrentConnectionSheetID: uuidPtr(st.CurrentConnectionSheetID),
		CurrentTripID:            uuidPtr(st.CurrentTripID),
		CreatedBy:                st.CreatedBy,
		CreatedAt:                st.CreatedAt,
	}
}

func custodyRows(b *bag.Bag) []CustodyDTO {
	if !b.Status().IsOpen() {
		return nil
	}
	rows := make([]CustodyDTO, 0, b.ManifestCount())
	for _, shipmentID := range b.ShipmentIDs() {
		rows = append(rows, CustodyDTO{ShipmentID: shipmentID, BagID: b.ID().Bytes()})
	}
	return rows
}

func toDomain(dto BagDTO) (*bag.Bag, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	bagType, err := bag.ParseType(dto.Type)
	if err != nil {
		return nil, err
	}
	status, err := bag.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	sheetID, err := kernelPtr(dto.CurrentConnectionSheetID)
	if err != nil {
		return nil, err
	}
	tripID, err := kernelPtr(dto.CurrentTripID)
	if err != nil {
		return nil, err
	}

	return bag.Restore(bag.State{
		ID:                       id,
		Code:                     dto.Code,
		Type:                     bagType,
		Status:                   status,
		OriginEntityID:           dto.OriginEntityID,
		DestinationEntityID:      dto.DestinationEntityID,
		CurrentLocationID:        dto.CurrentLocationID,
		ManifestCount:            dto.ManifestCount,
		ActualCount:              dto.ActualCount,
		ShortageCount:            dto.ShortageCount,
		DamageCount:              dto.DamageCount,
		ShipmentIDs:              dto.ShipmentIDs,
		SealNumber:               dto.SealNumber,
		SealedAt:                 dto.SealedAt,
		CurrentConnectionSheetID: sheetID,
		CurrentTripID:            tripID,
		CreatedBy:                dto.CreatedBy,
		CreatedAt:                dto.CreatedAt,
	})
}

func uuidPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func kernelPtr(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	k, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	return &k, nil
}
