package memory

import (
	"context"
	"errors"
	"fmt"

	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
)

type bagRepository struct {
	uow *UnitOfWork
}

func (r *bagRepository) Add(_ context.Context, aggregate *bag.Bag) error {
	st, err := r.uow.state()
	if err != nil {
		return err
	}
	if _, exists := st.bags[aggregate.ID()]; exists {
		return errs.NewValueIsInvalidErrorWithCause("bag id", fmt.Errorf("bag %s already exists", aggregate.ID()))
	}
	if _, exists := st.bagCodes[aggregate.Code()]; exists {
		return errs.NewValueIsInvalidErrorWithCause("bag code", fmt.Errorf("bag code %s already exists", aggregate.Code()))
	}
	return r.write(st, aggregate)
}

func (r *bagRepository) Update(_ context.Context, aggregate *bag.Bag) error {
	st, err := r.uow.state()
	if err != nil {
		return err
	}
	if _, exists := st.bags[aggregate.ID()]; !exists {
		return errs.NewObjectNotFoundError("bag", aggregate.ID())
	}
	return r.write(st, aggregate)
}

// write stores the bag and keeps the shipment -> open bag index in step. A
// shipment already indexed to another open bag fails the write and leaves the
// state untouched.
func (r *bagRepository) write(st *memoryState, aggregate *bag.Bag) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	next := aggregate.State()
	if next.Status.IsOpen() {
		for _, shipmentID := range next.ShipmentIDs {
			if holder, ok := st.openShipments[shipmentID]; ok && !holder.IsEqual(next.ID) {
				return fmt.Errorf("%w: %s", bag.ErrDuplicateCustody, shipmentID)
			}
		}
	}

	if prev, ok := st.bags[next.ID]; ok {
		for _, shipmentID := range prev.ShipmentIDs {
			if holder, indexed := st.openShipments[shipmentID]; indexed && holder.IsEqual(next.ID) {
				delete(st.openShipments, shipmentID)
			}
		}
	}
	if next.Status.IsOpen() {
		for _, shipmentID := range next.ShipmentIDs {
			st.openShipments[shipmentID] = next.ID
		}
	}

	st.bags[next.ID] = next
	st.bagCodes[next.Code] = next.ID
	return nil
}

func (r *bagRepository) Get(_ context.Context, id kernel.UUID) (*bag.Bag, error) {
	st, err := r.uow.state()
	if err != nil {
		return nil, err
	}
	state, ok := st.bags[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("bag", id)
	}
	return bag.Restore(state)
}

func (r *bagRepository) GetByCode(ctx context.Context, code string) (*bag.Bag, error) {
	normalized, err := kernel.NormalizeCode(code)
	if err != nil {
		return nil, err
	}
	st, err := r.uow.state()
	if err != nil {
		return nil, err
	}
	id, ok := st.bagCodes[normalized]
	if !ok {
		return nil, errs.NewObjectNotFoundError("bag code", normalized)
	}
	return r.Get(ctx, id)
}

func (r *bagRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*bag.Bag, error) {
	out := make([]*bag.Bag, 0, len(ids))
	for _, id := range ids {
		b, err := r.Get(ctx, id)
		if errors.Is(err, errs.ErrObjectNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *bagRepository) FindOpenByShipment(ctx context.Context, shipmentID string) (*bag.Bag, error) {
	st, err := r.uow.state()
	if err != nil {
		return nil, err
	}
	id, ok := st.openShipments[shipmentID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("open bag for shipment", shipmentID)
	}
	return r.Get(ctx, id)
}

type exceptionRepository struct {
	uow *UnitOfWork
}

func (r *exceptionRepository) Add(_ context.Context, exception *bag.Exception) error {
	st, err := r.uow.state()
	if err != nil {
		return err
	}
	if err = exception.Validate(); err != nil {
		return err
	}
	st.exceptions[exception.BagID()] = append(st.exceptions[exception.BagID()], exception)
	return nil
}

func (r *exceptionRepository) ListByBag(_ context.Context, bagID kernel.UUID) ([]*bag.Exception, error) {
	st, err := r.uow.state()
	if err != nil {
		return nil, err
	}
	return append([]*bag.Exception(nil), st.exceptions[bagID]...), nil
}
