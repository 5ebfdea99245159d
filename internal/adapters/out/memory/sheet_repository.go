package memory

import (
	"context"
	"errors"
	"fmt"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/sheet"
	"custody/internal/pkg/errs"
)

type sheetRepository struct {
	uow *UnitOfWork
}

func (r *sheetRepository) Add(_ context.Context, aggregate *sheet.Sheet) error {
	st, err := r.uow.state()
	if err != nil {
		return err
	}
	if _, exists := st.sheets[aggregate.ID()]; exists {
		return errs.NewValueIsInvalidErrorWithCause("sheet id", fmt.Errorf("sheet %s already exists", aggregate.ID()))
	}
	return r.write(st, aggregate)
}

func (r *sheetRepository) Update(_ context.Context, aggregate *sheet.Sheet) error {
	st, err := r.uow.state()
	if err != nil {
		return err
	}
	if _, exists := st.sheets[aggregate.ID()]; !exists {
		return errs.NewObjectNotFoundError("sheet", aggregate.ID())
	}
	return r.write(st, aggregate)
}

func (r *sheetRepository) write(st *memoryState, aggregate *sheet.Sheet) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	next := aggregate.State()
	key := routeKey{hubID: next.HubID, destinationID: next.DestinationID}
	holder, indexed := st.activeRoutes[key]

	switch {
	case next.Status.IsActive():
		if indexed && !holder.IsEqual(next.ID) {
			return fmt.Errorf("%w: %s -> %s", sheet.ErrDuplicateActiveRoute, next.HubID, next.DestinationID)
		}
		st.activeRoutes[key] = next.ID
	case indexed && holder.IsEqual(next.ID):
		delete(st.activeRoutes, key)
	}

	st.sheets[next.ID] = next
	return nil
}

func (r *sheetRepository) Get(_ context.Context, id kernel.UUID) (*sheet.Sheet, error) {
	st, err := r.uow.state()
	if err != nil {
		return nil, err
	}
	state, ok := st.sheets[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("sheet", id)
	}
	return sheet.Restore(state)
}

func (r *sheetRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*sheet.Sheet, error) {
	out := make([]*sheet.Sheet, 0, len(ids))
	for _, id := range ids {
		s, err := r.Get(ctx, id)
		if errors.Is(err, errs.ErrObjectNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *sheetRepository) FindActiveByRoute(ctx context.Context, hubID, destinationID string) (*sheet.Sheet, error) {
	st, err := r.uow.state()
	if err != nil {
		return nil, err
	}
	id, ok := st.activeRoutes[routeKey{hubID: hubID, destinationID: destinationID}]
	if !ok {
		return nil, errs.NewObjectNotFoundError("active sheet for route", hubID+" -> "+destinationID)
	}
	return r.Get(ctx, id)
}
