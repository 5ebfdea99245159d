package ports

import (
	"context"
)

// UnitOfWorkFactory creates a UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary of one custody operation. Writes made
// through its repositories become visible to other units of work only after
// Commit; Rollback discards all of them.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	BagRepository() BagRepository
	ExceptionRepository() ExceptionRepository
	SheetRepository() SheetRepository
	TripRepository() TripRepository
}
