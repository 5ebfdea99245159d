package bagrepo

import (
	"context"
	"errors"
	"fmt"

	"custody/internal/adapters/out/postgres/pgerr"
	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBagRepository implements ports.BagRepository using GORM.
type GormBagRepository struct {
	db *gorm.DB
}

// NewGormBagRepository returns a repository bound to db, which is normally the
// transaction of a GormUnitOfWork.
func NewGormBagRepository(db *gorm.DB) *GormBagRepository {
	return &GormBagRepository{db: db}
}

// Add inserts the bag and its custody rows.
func (r *GormBagRepository) Add(ctx context.Context, aggregate *bag.Bag) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err, "bags_code_key") {
			return errs.NewValueIsInvalidErrorWithCause("bag code", err)
		}
		return err
	}

	if err := r.writeCustody(ctx, aggregate); err != nil {
		return err
	}

	return nil
}

// Update saves the bag row and rebuilds its custody rows.
func (r *GormBagRepository) Update(ctx context.Context, aggregate *bag.Bag) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&BagDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("bag", aggregate.ID())
	}

	if err := r.db.WithContext(ctx).Where("bag_id = ?", dto.ID).Delete(&CustodyDTO{}).Error; err != nil {
		return err
	}
	if err := r.writeCustody(ctx, aggregate); err != nil {
		return err
	}

	return nil
}

func (r *GormBagRepository) writeCustody(ctx context.Context, aggregate *bag.Bag) error {
	rows := custodyRows(aggregate)
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		if pgerr.IsUniqueViolation(err, custodyKey) {
			return fmt.Errorf("%w: bag %s: %v", bag.ErrDuplicateCustody, aggregate.Code(), err)
		}
		return err
	}
	return nil
}

// Get loads the bag and locks its row for the rest of the transaction.
func (r *GormBagRepository) Get(ctx context.Context, id kernel.UUID) (*bag.Bag, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto BagDTO
	if err := r.locked(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("bag", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormBagRepository) GetByCode(ctx context.Context, code string) (*bag.Bag, error) {
	normalized, err := kernel.NormalizeCode(code)
	if err != nil {
		return nil, err
	}

	var dto BagDTO
	if err = r.locked(ctx).First(&dto, "code = ?", normalized).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("bag code", normalized)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormBagRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*bag.Bag, error) {
	if len(ids) == 0 {
		return []*bag.Bag{}, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var dtos []BagDTO
	if err := r.locked(ctx).Where("id IN ?", raw).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	bags := make([]*bag.Bag, 0, len(dtos))
	for _, dto := range dtos {
		b, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		bags = append(bags, b)
	}
	return bags, nil
}

// FindOpenByShipment resolves the shipment through bag_custody.
func (r *GormBagRepository) FindOpenByShipment(ctx context.Context, shipmentID string) (*bag.Bag, error) {
	var custody CustodyDTO
	if err := r.db.WithContext(ctx).First(&custody, "shipment_id = ?", shipmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("open bag for shipment", shipmentID)
		}
		return nil, err
	}

	id, err := kernel.UUIDFromBytes(custody.BagID[:])
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *GormBagRepository) locked(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}
