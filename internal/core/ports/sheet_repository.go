package ports

import (
	"context"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/sheet"
)

// SheetRepository defines the persistence contract for connection sheets.
type SheetRepository interface {
	// Add persists a new sheet. Implementations reject a second active sheet
	// for the same (hub, destination) with sheet.ErrDuplicateActiveRoute.
	Add(ctx context.Context, aggregate *sheet.Sheet) error

	Update(ctx context.Context, aggregate *sheet.Sheet) error

	Get(ctx context.Context, id kernel.UUID) (*sheet.Sheet, error)

	GetMany(ctx context.Context, ids []kernel.UUID) ([]*sheet.Sheet, error)

	// FindActiveByRoute returns the CREATED or IN_PROGRESS sheet for the
	// route, or errs.ErrObjectNotFound.
	FindActiveByRoute(ctx context.Context, hubID, destinationID string) (*sheet.Sheet, error)
}
