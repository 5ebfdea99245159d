package triprepo

import (
	"context"
	"errors"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trip"
	"custody/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTripRepository implements ports.TripRepository using GORM.
type GormTripRepository struct {
	db *gorm.DB
}

// NewGormTripRepository returns a repository bound to db, which is normally the
// transaction of a GormUnitOfWork.
func NewGormTripRepository(db *gorm.DB) *GormTripRepository {
	return &GormTripRepository{db: db}
}

func (r *GormTripRepository) Add(ctx context.Context, aggregate *trip.Trip) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	return nil
}

func (r *GormTripRepository) Update(ctx context.Context, aggregate *trip.Trip) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&TripDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("trip", aggregate.ID())
	}

	return nil
}

func (r *GormTripRepository) Get(ctx context.Context, id kernel.UUID) (*trip.Trip, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TripDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("trip", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
