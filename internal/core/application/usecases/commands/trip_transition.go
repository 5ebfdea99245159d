package commands

import (
	"context"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/trip"
)

// tripMutation applies one transition to a loaded trip and the bags it
// carries, persisting any bag it changes through uow. It returns the audit
// detail for the transition.
type tripMutation func(ctx context.Context, uow UoW, t *trip.Trip, cmd TripCommand) (audit.Detail, error)

// transitionTrip is the shared load -> mutate -> commit -> audit sequence of
// the trip status handlers.
func transitionTrip(
	ctx context.Context,
	uowFactory UoWFactory,
	auditor auditRecorder,
	cmd TripCommand,
	action string,
	mutate tripMutation,
) (*trip.Trip, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	tripRepo := uow.TripRepository()

	t, err := tripRepo.Get(ctx, cmd.TripID())
	if err != nil {
		return nil, err
	}

	from := t.Status()
	detail, err := mutate(ctx, uow, t, cmd)
	if err != nil {
		return nil, err
	}

	if err = tripRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if detail == nil {
		detail = audit.Detail{}
	}
	detail["action"] = action
	detail["from"] = from.String()
	detail["to"] = t.Status().String()

	return t, auditor.record(ctx, audit.TripOp, cmd.Actor(), t.Code(), "trip "+t.Status().String(), detail)
}
