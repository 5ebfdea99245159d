// Package commands contains the custody operations that modify state. Every
// handler runs in one unit of work, commits, and then writes one audit entry.
package commands

import (
	"context"

	"custody/internal/core/ports"
)

type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	BagRepoFactory interface {
		BagRepository() ports.BagRepository
	}

	ExceptionRepoFactory interface {
		ExceptionRepository() ports.ExceptionRepository
	}

	SheetRepoFactory interface {
		SheetRepository() ports.SheetRepository
	}

	TripRepoFactory interface {
		TripRepository() ports.TripRepository
	}

	// BagUoW is used by operations that touch bags and their exceptions only.
	BagUoW interface {
		TxManager
		BagRepoFactory
		ExceptionRepoFactory
	}

	BagUoWFactory interface {
		Create() BagUoW
	}

	// UoW spans bags, sheets and trips for sortation and line-haul operations.
	//
	// Example:
	//   uow := factory.Create()
	//   if err := uow.Begin(ctx); err != nil {
	//       return err
	//   }
	//   defer func() { _ = uow.Rollback(ctx) }()
	//
	//   s, err := uow.SheetRepository().Get(ctx, id)
	//   // ... mutate sheet and bags
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		BagRepoFactory
		ExceptionRepoFactory
		SheetRepoFactory
		TripRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
