package memory

import (
	"context"
	"fmt"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trip"
	"custody/internal/pkg/errs"
)

type tripRepository struct {
	uow *UnitOfWork
}

func (r *tripRepository) Add(_ context.Context, aggregate *trip.Trip) error {
	st, err := r.uow.state()
	if err != nil {
		return err
	}
	if err = aggregate.Validate(); err != nil {
		return err
	}
	if _, exists := st.trips[aggregate.ID()]; exists {
		return errs.NewValueIsInvalidErrorWithCause("trip id", fmt.Errorf("trip %s already exists", aggregate.ID()))
	}
	st.trips[aggregate.ID()] = aggregate.State()
	return nil
}

func (r *tripRepository) Update(_ context.Context, aggregate *trip.Trip) error {
	st, err := r.uow.state()
	if err != nil {
		return err
	}
	if err = aggregate.Validate(); err != nil {
		return err
	}
	if _, exists := st.trips[aggregate.ID()]; !exists {
		return errs.NewObjectNotFoundError("trip", aggregate.ID())
	}
	st.trips[aggregate.ID()] = aggregate.State()
	return nil
}

func (r *tripRepository) Get(_ context.Context, id kernel.UUID) (*trip.Trip, error) {
	st, err := r.uow.state()
	if err != nil {
		return nil, err
	}
	state, ok := st.trips[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("trip", id)
	}
	return trip.Restore(state)
}
