// Package exceptionrepo stores bag exceptions append-only in bag_exceptions.
package exceptionrepo

import (
	"context"
	"time"

	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExceptionDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BagID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	TripID      *uuid.UUID `gorm:"type:uuid;index"`
	Type        string     `gorm:"type:varchar(16);not null"`
	ShipmentID  string     `gorm:"type:varchar(64)"`
	Description string     `gorm:"type:text"`
	ReportedBy  string     `gorm:"type:varchar(64);not null"`
	ReportedAt  time.Time  `gorm:"not null;index"`
}

func (ExceptionDTO) TableName() string {
	return "bag_exceptions"
}

// GormExceptionRepository implements ports.ExceptionRepository. It only
// inserts and reads.
type GormExceptionRepository struct {
	db *gorm.DB
}

func NewGormExceptionRepository(db *gorm.DB) *GormExceptionRepository {
	return &GormExceptionRepository{db: db}
}

func (r *GormExceptionRepository) Add(ctx context.Context, exception *bag.Exception) error {
	if err := exception.Validate(); err != nil {
		return err
	}

	var tripID *uuid.UUID
	if id := exception.TripID(); id != nil {
		raw := id.Bytes()
		tripID = &raw
	}

	dto := ExceptionDTO{
		ID:          exception.ID().Bytes(),
		BagID:       exception.BagID().Bytes(),
		TripID:      tripID,
		Type:        exception.Type().String(),
		ShipmentID:  exception.ShipmentID(),
		Description: exception.Description(),
		ReportedBy:  exception.ReportedBy(),
		ReportedAt:  exception.ReportedAt(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormExceptionRepository) ListByBag(ctx context.Context, bagID kernel.UUID) ([]*bag.Exception, error) {
	var dtos []ExceptionDTO
	err := r.db.WithContext(ctx).
		Where("bag_id = ?", bagID.Bytes()).
		Order("reported_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	out := make([]*bag.Exception, 0, len(dtos))
	for _, dto := range dtos {
		e, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		out = append(out, e)
	}
	return out, nil
}

func toDomain(dto ExceptionDTO) (*bag.Exception, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	bagID, err := kernel.UUIDFromBytes(dto.BagID[:])
	if err != nil {
		return nil, err
	}
	kind, err := bag.ParseExceptionType(dto.Type)
	if err != nil {
		return nil, err
	}

	var tripID *kernel.UUID
	if dto.TripID != nil {
		k, parseErr := kernel.UUIDFromBytes(dto.TripID[:])
		if parseErr != nil {
			return nil, parseErr
		}
		tripID = &k
	}

	return bag.RestoreException(id, bagID, tripID, kind, dto.ShipmentID, dto.Description, dto.ReportedBy, dto.ReportedAt)
}
