package sheetrepo

import (
	"context"
	"errors"
	"fmt"

	"custody/internal/adapters/out/postgres/pgerr"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/sheet"
	"custody/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSheetRepository implements ports.SheetRepository using GORM.
type GormSheetRepository struct {
	db *gorm.DB
}

// NewGormSheetRepository returns a repository bound to db, which is normally the
// transaction of a GormUnitOfWork.
func NewGormSheetRepository(db *gorm.DB) *GormSheetRepository {
	return &GormSheetRepository{db: db}
}

func (r *GormSheetRepository) Add(ctx context.Context, aggregate *sheet.Sheet) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return mapWriteError(err, aggregate)
	}

	return nil
}

func (r *GormSheetRepository) Update(ctx context.Context, aggregate *sheet.Sheet) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&SheetDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return mapWriteError(result.Error, aggregate)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("sheet", aggregate.ID())
	}

	return nil
}

func mapWriteError(err error, aggregate *sheet.Sheet) error {
	if pgerr.IsUniqueViolation(err, ActiveRouteIndex) {
		return fmt.Errorf("%w: %s -> %s", sheet.ErrDuplicateActiveRoute, aggregate.HubID(), aggregate.DestinationID())
	}
	return err
}

func (r *GormSheetRepository) Get(ctx context.Context, id kernel.UUID) (*sheet.Sheet, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto SheetDTO
	if err := r.locked(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("sheet", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormSheetRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*sheet.Sheet, error) {
	if len(ids) == 0 {
		return []*sheet.Sheet{}, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var dtos []SheetDTO
	if err := r.locked(ctx).Where("id IN ?", raw).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	sheets := make([]*sheet.Sheet, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, s)
	}
	return sheets, nil
}

func (r *GormSheetRepository) FindActiveByRoute(ctx context.Context, hubID, destinationID string) (*sheet.Sheet, error) {
	var dto SheetDTO
	err := r.locked(ctx).
		Where("hub_id = ? AND destination_id = ?", hubID, destinationID).
		Where("status IN ?", []string{sheet.Created.String(), sheet.InProgress.String()}).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("active sheet for route", hubID+" -> "+destinationID)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormSheetRepository) locked(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}
