// Package ports defines the contracts between the custody core and its
// infrastructure: repositories, the unit of work, the audit log and the
// shipment registry.
package ports

import (
	"context"

	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"
)

// BagRepository defines the persistence contract for bag aggregates.
//
// Implementations keep a shipment -> open bag index in the same transaction
// as the bag row, so FindOpenByShipment never scans every bag.
type BagRepository interface {
	// Add persists a new bag.
	Add(ctx context.Context, aggregate *bag.Bag) error

	// Update persists changes to an existing bag. Implementations reject a
	// write that would place a shipment in a second open bag with
	// bag.ErrDuplicateCustody.
	Update(ctx context.Context, aggregate *bag.Bag) error

	// Get returns the bag or errs.ErrObjectNotFound. Inside a transaction the
	// row is locked for update.
	Get(ctx context.Context, id kernel.UUID) (*bag.Bag, error)

	// GetByCode looks a bag up by its normalized human-readable code.
	GetByCode(ctx context.Context, code string) (*bag.Bag, error)

	// GetMany returns the bags that exist among ids, in no particular order.
	GetMany(ctx context.Context, ids []kernel.UUID) ([]*bag.Bag, error)

	// FindOpenByShipment returns the CREATED or OPENED bag currently holding
	// shipmentID, or errs.ErrObjectNotFound.
	FindOpenByShipment(ctx context.Context, shipmentID string) (*bag.Bag, error)
}

// ExceptionRepository is the append-only store of bag exceptions.
type ExceptionRepository interface {
	Add(ctx context.Context, exception *bag.Exception) error
	ListByBag(ctx context.Context, bagID kernel.UUID) ([]*bag.Exception, error)
}
