// Package postgres provides the GORM implementation of the custody unit of
// work. One GormUnitOfWork wraps one database transaction; the repositories it
// hands out run inside that transaction and lock the rows they load, so
// concurrent operations on the same bag, sheet or trip are serialized by
// PostgreSQL.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	b, err := uow.BagRepository().Get(ctx, id)
//	// ... mutate b
//	if err = uow.BagRepository().Update(ctx, b); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Rollback after a successful Commit returns gorm.ErrInvalidTransaction and
// changes nothing, which makes the deferred Rollback above safe.
package postgres

import (
	"context"

	"custody/internal/adapters/out/postgres/bagrepo"
	"custody/internal/adapters/out/postgres/exceptionrepo"
	"custody/internal/adapters/out/postgres/sheetrepo"
	"custody/internal/adapters/out/postgres/triprepo"
	"custody/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances over one *gorm.DB.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create returns a fresh unit of work. Instances must not be shared between
// goroutines.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one database transaction. Repositories it hands
// out after Begin write through that transaction.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin opens the transaction. Calling Begin twice is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) BagRepository() ports.BagRepository {
	return bagrepo.NewGormBagRepository(uow.conn())
}

func (uow *GormUnitOfWork) ExceptionRepository() ports.ExceptionRepository {
	return exceptionrepo.NewGormExceptionRepository(uow.conn())
}

func (uow *GormUnitOfWork) SheetRepository() ports.SheetRepository {
	return sheetrepo.NewGormSheetRepository(uow.conn())
}

func (uow *GormUnitOfWork) TripRepository() ports.TripRepository {
	return triprepo.NewGormTripRepository(uow.conn())
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
