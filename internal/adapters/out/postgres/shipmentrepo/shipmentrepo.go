// Package shipmentrepo is the postgres-backed shipment registry.
package shipmentrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"custody/internal/core/ports"
	"custody/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ShipmentDTO struct {
	AWB       string    `gorm:"column:awb;type:varchar(64);primaryKey"`
	Status    string    `gorm:"type:varchar(32);not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

type GormShipmentRegistry struct {
	db *gorm.DB
}

func NewGormShipmentRegistry(db *gorm.DB) *GormShipmentRegistry {
	return &GormShipmentRegistry{db: db}
}

func (r *GormShipmentRegistry) FindByAwb(ctx context.Context, awb string) (ports.Shipment, error) {
	awb = strings.TrimSpace(awb)

	var dto ShipmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "awb = ?", awb).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Shipment{}, errs.NewObjectNotFoundError("shipment", awb)
		}
		return ports.Shipment{}, err
	}

	return ports.Shipment{AWB: dto.AWB, Status: dto.Status}, nil
}

// Upsert registers a shipment or refreshes its status.
func (r *GormShipmentRegistry) Upsert(ctx context.Context, s ports.Shipment) error {
	awb := strings.TrimSpace(s.AWB)
	if awb == "" {
		return errs.NewValueIsRequiredError("awb")
	}

	dto := ShipmentDTO{AWB: awb, Status: s.Status, UpdatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "awb"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&dto).Error
}
